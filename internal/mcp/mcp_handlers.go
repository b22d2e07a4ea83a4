package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/huangsam/tomato/core"
	"github.com/huangsam/tomato/internal/contract"
	"github.com/huangsam/tomato/internal/notify"
	"github.com/huangsam/tomato/internal/outwriter"
	"github.com/huangsam/tomato/internal/vault"
	"github.com/huangsam/tomato/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/afero"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
	fs      afero.Fs
}

// reportResponse is a report result together with the notices it produced.
type reportResponse struct {
	*schema.ReportResult
	Notices []string `json:"notices"`
}

// cleanupResponse is a cleanup result together with the notices it produced.
type cleanupResponse struct {
	*schema.CleanupResult
	Notices []string `json:"notices"`
}

func (h *toolHandler) handleReportProgress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid report parameters: %v", err)), nil
	}
	if d := request.GetString("date", ""); d != "" {
		t, err := time.Parse(schema.DateLayout, d)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid report parameters: date %q is not YYYY-MM-DD", d)), nil
		}
		cfg.Date = t.Format(schema.DateLayout)
	}

	recorder := &notify.Recorder{}
	result, err := core.ExecuteReport(ctx, cfg, h.storeFor(cfg), recorder, h.history())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(reportResponse{ReportResult: result, Notices: recorder.Messages()}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCleanupToday(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid cleanup parameters: %v", err)), nil
	}
	cfg.DryRun = request.GetBool("dry_run", cfg.DryRun)
	cfg.UseColors = false // diffs go to a client, not a terminal

	recorder := &notify.Recorder{}
	result, err := core.ExecuteCleanup(ctx, cfg, h.storeFor(cfg), recorder)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cleanup failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(cleanupResponse{CleanupResult: result, Notices: recorder.Messages()}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetUnitsToday(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	summary, err := core.ExecuteSummary(ctx, cfg, h.storeFor(cfg))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("aggregation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(summary, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetReportTable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	table, err := core.LoadReportTable(ctx, cfg, h.storeFor(cfg))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read report: %v", err)), nil
	}

	cfg.Output = schema.JSONOut
	var buf bytes.Buffer
	if err := outwriter.WriteReportView(&buf, table, cfg); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

// configFor clones the base config and applies the arguments shared by all tools.
func (h *toolHandler) configFor(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if v := request.GetString("vault", ""); v != "" {
		abs, err := filepath.Abs(v)
		if err != nil {
			return nil, err
		}
		if isDir, err := afero.IsDir(h.fs, abs); err != nil || !isDir {
			return nil, fmt.Errorf("vault %q is not a directory", v)
		}
		cfg.VaultPath = abs
	}
	hours := request.GetFloat("hours_per_tomato", cfg.HoursPerTomato)
	if err := contract.ValidateHoursPerTomato(hours); err != nil {
		return nil, err
	}
	cfg.HoursPerTomato = hours
	return cfg, nil
}

func (h *toolHandler) storeFor(cfg *contract.Config) contract.DocumentStore {
	var cache contract.CacheStore
	if h.mgr != nil {
		cache = h.mgr.GetMetadataStore()
	}
	return vault.NewStore(h.fs, cfg.VaultPath, cache)
}

func (h *toolHandler) history() contract.HistoryStore {
	if h.mgr == nil {
		return nil
	}
	return h.mgr.GetHistoryStore()
}
