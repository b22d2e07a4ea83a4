// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/tomato/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/afero"
)

// NewMCPServer initializes and configures the Tomato MCP server without starting it.
// Notes are read from fsys. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager, fsys afero.Fs) *server.MCPServer {
	s := server.NewMCPServer(
		"Tomato Progress Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		fs:      fsys,
	}

	// --- 1. Tool: report_progress ---
	s.AddTool(mcp.NewTool("report_progress",
		mcp.WithDescription("Aggregate today's tomatoes from project notes and merge them as hours into the CSV time report."),
		mcp.WithString("vault", mcp.Description("Path to the vault (defaults to the configured vault).")),
		mcp.WithString("date", mcp.Description("Report date as YYYY-MM-DD (defaults to the configured date).")),
		mcp.WithNumber("hours_per_tomato", mcp.Description("Hours credited per tomato (defaults to the configured value).")),
	), h.handleReportProgress)

	// --- 2. Tool: cleanup_today ---
	s.AddTool(mcp.NewTool("cleanup_today",
		mcp.WithDescription("Reset the daily tomato counters of every project note."),
		mcp.WithString("vault", mcp.Description("Path to the vault.")),
		mcp.WithBoolean("dry_run", mcp.Description("Only show the planned changes without writing notes.")),
	), h.handleCleanupToday)

	// --- 3. Tool: get_units_today ---
	s.AddTool(mcp.NewTool("get_units_today",
		mcp.WithDescription("Show today's tomatoes and hours per report key without writing anything."),
		mcp.WithString("vault", mcp.Description("Path to the vault.")),
		mcp.WithNumber("hours_per_tomato", mcp.Description("Hours credited per tomato.")),
	), h.handleGetUnitsToday)

	// --- 4. Tool: get_report_table ---
	s.AddTool(mcp.NewTool("get_report_table",
		mcp.WithDescription("Read the CSV time report."),
		mcp.WithString("vault", mcp.Description("Path to the vault.")),
		mcp.WithNumber("limit", mcp.Description("Only return the most recent rows.")),
	), h.handleGetReportTable)

	return s
}

// StartMCPServer starts the Tomato MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr, afero.NewOsFs())
	return server.ServeStdio(s)
}
