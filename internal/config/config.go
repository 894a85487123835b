package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Age Calculator"
	AppID             = "com.github.tartampluch.go-agecalc"
	CommandName       = "go-agecalc"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Commands, Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	CmdGUI   = "gui"
	CmdServe = "serve"
	CmdCalc  = "calc"

	FlagVersion = "version"
	FlagDebug   = "debug"
	FlagPort    = "port"
	FlagBirth   = "birth"
	FlagVCard   = "vcard"
	FlagICal    = "ics"

	FlagDescVersion = "Show application version and exit"
	FlagDescDebug   = "Enable debug logging to stdout"
	FlagDescPort    = "Port of the local web widget"
	FlagDescBirth   = "Date of birth (YYYY-MM-DD)"
	FlagDescVCard   = "Read the date of birth from a vCard file"
	FlagDescICal    = "Also print the upcoming birthdays as iCalendar"

	CmdDescRoot  = "Compute your exact age in years, months and days"
	CmdDescGUI   = "Open the desktop calculator window (default)"
	CmdDescServe = "Serve the calculator as a browser widget on localhost"
	CmdDescCalc  = "Compute an age once and print it"

	MsgVersionOutput = "%s version %s (%s/%s)\n"

	// calc command output.
	FormatCalcContact   = "%s, born %s\n"
	FormatCalcBreakdown = "%d years | %d months | %d days\n"
)

// -----------------------------------------------------------------------------
// Age Calculation
// -----------------------------------------------------------------------------

const (
	// DateLayout is the wire format of a calendar date, as emitted by an
	// HTML <input type="date">.
	DateLayout = time.DateOnly

	MonthsPerYear = 12

	// CelebrationDuration is how long the birthday animation stays on screen.
	CelebrationDuration = 5 * time.Second

	// ICalUpcomingYears is the number of birthdays exported by the calendar feed.
	ICalUpcomingYears = 3
)

// Result messages. They are part of the calculator contract and are never localized.
const (
	MsgBirthdayGreeting = "Happy Birthday! 🎂"
	FormatAgeSummary    = "You are %d years, %d months, and %d days old."
)

// User-facing validation messages.
const (
	MsgEmptyInput = "Please select a date."
	MsgFutureDate = "Date of birth cannot be in the future."
)

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	WindowWidth  = 420
	WindowHeight = 520

	PrefLastRun = "last_run_version"

	DefaultLanguage = "en"

	LayoutColumnsTriple = 3
	TileTextSize        = 32
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinTitle       = "win_title"
	TKeyLblDateInput   = "lbl_date_input"
	TKeyBtnCalculate   = "btn_calculate"
	TKeyLblYears       = "lbl_years"
	TKeyLblMonths      = "lbl_months"
	TKeyLblDays        = "lbl_days"
	TKeyErrEmptyInput  = "err_empty_input"
	TKeyErrFutureDate  = "err_future_date"
	TKeyLblCelebration = "lbl_celebration"
	TKeyPlaceholder    = "placeholder_date"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Go Age Calculator//Calendar//EN"
	ICalCalName = "My Birthdays"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "goagecalc"

	PropUID        = "UID"
	PropSummary    = "SUMMARY"
	PropDTStart    = "DTSTART"
	PropDTStamp    = "DTSTAMP"
	PropVersion    = "VERSION"
	PropProdid     = "PRODID"
	PropXWRCalName = "X-WR-CALNAME"
	PropCalScale   = "CALSCALE"
	PropMethod     = "METHOD"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	FormatUID           = "birthday-%s-%d@%s"
	FormatSummaryAge    = "Birthday (%d)"
	SummaryBirth        = "Birthday (birth)"
	FallbackName        = "Unknown"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	ICalFileName        = "birthday.ics"

	FormatICalDisposition = `inline; filename="%s"`
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	DefaultPort        = "18081"
	ShutdownTimeout    = 5 * time.Second
	ServerReadTimeout  = 10 * time.Second
	ServerWriteTimeout = 30 * time.Second
	ServerIdleTimeout  = 60 * time.Second
	AddrSeparator      = ":"
	MaxPort            = 65535

	RouteRoot    = "/"
	RouteAge     = "/api/age"
	RouteToday   = "/api/today"
	RouteICal    = "/birthday.ics"
	RouteMetrics = "/metrics"
	RouteHealth  = "/health"

	QueryBirth = "birth"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType        = "Content-Type"
	HeaderContentDisposition = "Content-Disposition"
	HeaderCacheControl       = "Cache-Control"
	HeaderETag               = "ETag"
	HeaderXContentType       = "X-Content-Type-Options"
	HeaderIfNoneMatch        = "If-None-Match"

	MimeTextHTML        = "text/html; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"
	CacheControlNoStore = "no-store"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// API error codes returned in JSON bodies.
const (
	CodeEmptyInput  = "empty_input"
	CodeFutureDate  = "future_date"
	CodeInvalidDate = "invalid_date"
	CodeInternal    = "internal"

	StatusOK = "ok"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrEmptyInput     = "no date of birth supplied"
	ErrFutureDate     = "date of birth is after today"
	ErrInvalidDate    = "invalid calendar date"
	ErrDateParse      = "unable to parse date"
	ErrServerStartup  = "server startup failed"
	ErrServerShutdown = "server shutdown failed"
	ErrPortRequired   = "server port is required"
	ErrPortRange      = "server port must be a number between 0 and 65535"
	ErrICalEncode     = "failed to encode iCalendar data"
	ErrVCardParse     = "failed to parse vCard stream"
	ErrVCardNoBirth   = "no vCard with a complete date of birth"
	ErrVCardOpen      = "failed to open vCard file"
	ErrLogFile        = "failed to open log file"
	ErrCacheDir       = "could not determine user cache dir"
	ErrCreateDir      = "could not create app cache dir"
	ErrAppFailed      = "application failed unexpectedly"
	ErrWriteResp      = "failed to write response body"
	ErrLocalesAccess  = "failed to access embedded locales"
	ErrLocaleLoad     = "failed to load locale file"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting     = "Starting application"
	MsgAppStop         = "Application stopped gracefully"
	MsgCtxCancel       = "Context cancelled, shutting down UI"
	MsgServerListen    = "HTTP server listening"
	MsgServerStop      = "Shutting down HTTP server..."
	MsgPageCached      = "Widget page cached"
	MsgDateSelected    = "Date of birth selected"
	MsgDateRejected    = "Date of birth rejected"
	MsgCalcDone        = "Age calculated"
	MsgCalcFailed      = "Age calculation failed"
	MsgCelebrateStart  = "Celebration started"
	MsgCelebrateStop   = "Celebration ended"
	MsgCelebrateRearm  = "Celebration re-armed"
	MsgStaleTimer      = "Ignoring superseded celebration timer"
	MsgSkippedCard     = "Skipping malformed vCard"
	MsgSkippedDate     = "Skipping vCard date without year"
	MsgLocaleSkip      = "Skipping non-locale file"
	MsgLocaleBadName   = "Skipping malformed locale filename"
	MsgLocaleLoaded    = "Locale loaded successfully"
	MsgTransMissing    = "Missing translation key"
	MsgLogWarning      = "Warning: %s at %s: %v\n"
	MsgCalendarBuilt   = "Birthday calendar generated"
	MsgRequestRejected = "Rejected age request"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyValue     = "value"
	LogKeyName      = "name"
	LogKeyDOB       = "date_of_birth"
	LogKeyToday     = "today"
	LogKeyYears     = "years"
	LogKeyMonths    = "months"
	LogKeyDays      = "days"
	LogKeyBirthday  = "birthday_today"
	LogKeyDuration  = "duration"
	LogKeyGen       = "generation"
	LogKeyEvents    = "events"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyCode      = "code"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyCommit  = "commit"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompUI          = "ui"
	CompController  = "controller"
	CompCelebration = "celebration"
	CompServer      = "server"
	CompCalendar    = "calendar"
	CompContact     = "contact"
	CompMain        = "main"
	CompI18n        = "i18n"
)

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

const (
	MetricNamespace      = "agecalc"
	MetricCalculations   = "calculations_total"
	MetricBirthdays      = "birthdays_total"
	MetricCelebrations   = "celebrations_active"
	MetricHelpCalcs      = "Total number of age calculations, labeled by outcome"
	MetricHelpBirthdays  = "Total number of calculations that landed on a birthday"
	MetricHelpCelebrates = "Whether a celebration is currently on screen"
	MetricLabelOutcome   = "outcome"
	OutcomeSuccess       = "success"
)
