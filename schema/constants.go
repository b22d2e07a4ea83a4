package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and history.
	DatabaseBackend string

	// ErrorPolicy decides what happens when a single document is unusable.
	ErrorPolicy string
)

// Front matter keys recognized in project notes.
const (
	PageTypeKey  = "pageType"  // must equal PageTypeProject
	ReportKeyKey = "reportKey" // report column for the project
	DoneTodayKey = "doneToday" // single counter projects

	// SubCounterSuffix marks hierarchical counters, e.g. "api_sub_done_today".
	SubCounterSuffix = "_sub_done_today"

	// SubProjectSeparator joins a project key and a sub-project key.
	SubProjectSeparator = ":"
)

// PageTypeProject is the only page type considered by aggregation and cleanup.
const PageTypeProject = "project"

// Report file conventions.
const (
	DateColumn        = "date"
	DateLayout        = "2006-01-02"
	DefaultReportFile = "time_statistics_report.csv"
	MarkdownExt       = ".md"
)

// DefaultHoursPerTomato is used until the user changes the setting.
const DefaultHoursPerTomato = 0.5

// All output modes supported.
const (
	CSVOut  OutputMode = "csv"
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All error policies supported.
const (
	AbortOnError ErrorPolicy = "abort" // default
	SkipOnError  ErrorPolicy = "skip"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:  {},
	TextOut: {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidErrorPolicies lists all valid error policies.
var ValidErrorPolicies = map[ErrorPolicy]struct{}{
	AbortOnError: {},
	SkipOnError:  {},
}
