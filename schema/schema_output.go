package schema

// ReportResult is what a report run produced.
type ReportResult struct {
	Date           string             `json:"date"`
	HoursPerTomato float64            `json:"hours_per_tomato"`
	Units          UnitsToday         `json:"units"`
	Hours          map[string]float64 `json:"hours"`
	ReportFile     string             `json:"report_file"`
	Created        bool               `json:"created"`
	TotalRows      int                `json:"total_rows"`
	Skipped        []string           `json:"skipped,omitempty"`
	RunID          string             `json:"run_id,omitempty"`
}

// SummaryEntry is a single line of the units/hours summary.
type SummaryEntry struct {
	ReportKey  string  `json:"report_key"`
	Tomatoes   float64 `json:"tomatoes"`
	Hours      float64 `json:"hours"`
	SubProject bool    `json:"sub_project"`
}

// Summary is a read-only view of today's progress.
type Summary struct {
	Date           string         `json:"date"`
	HoursPerTomato float64        `json:"hours_per_tomato"`
	Entries        []SummaryEntry `json:"entries"`
	Skipped        []string       `json:"skipped,omitempty"`
}

// NewSummary builds a Summary with entries in report key order.
func NewSummary(date string, hoursPerTomato float64, units UnitsToday) Summary {
	s := Summary{Date: date, HoursPerTomato: hoursPerTomato, Entries: []SummaryEntry{}}
	for _, k := range units.SortedKeys() {
		s.Entries = append(s.Entries, SummaryEntry{
			ReportKey:  k,
			Tomatoes:   units[k],
			Hours:      units[k] * hoursPerTomato,
			SubProject: IsSubProjectKey(k),
		})
	}
	return s
}

// CleanupStatus describes what happened to one document during cleanup.
type CleanupStatus string

// All cleanup statuses.
const (
	CleanedStatus   CleanupStatus = "cleaned"
	UnchangedStatus CleanupStatus = "unchanged"
	SkippedStatus   CleanupStatus = "skipped"
	PlannedStatus   CleanupStatus = "planned" // dry run
)

// CleanupOutcome is the per-document result of cleanup.
type CleanupOutcome struct {
	DocumentID string        `json:"document"`
	Status     CleanupStatus `json:"status"`
	Diff       string        `json:"diff,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// CleanupResult is what a cleanup run produced.
type CleanupResult struct {
	Outcomes []CleanupOutcome `json:"outcomes"`
	DryRun   bool             `json:"dry_run"`
}

// Count returns how many outcomes have the given status.
func (r *CleanupResult) Count(status CleanupStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}
