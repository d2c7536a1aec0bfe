package config

import "strings"

// Option keys accepted by New, as authored in suite files.
const (
	KeyIDSite                 = "idSite"
	KeyDate                   = "date"
	KeyPeriods                = "periods"
	KeyFormat                 = "format"
	KeySetDateLastN           = "setDateLastN"
	KeyLanguage               = "language"
	KeySegment                = "segment"
	KeyVisitorID              = "visitorId"
	KeyAbandonedCarts         = "abandonedCarts"
	KeyIDGoal                 = "idGoal"
	KeyAPIModule              = "apiModule"
	KeyAPIAction              = "apiAction"
	KeyOtherRequestParameters = "otherRequestParameters"
	KeySupertableAPI          = "supertableApi"
	KeyFileExtension          = "fileExtension"
	KeyAPINotToCall           = "apiNotToCall"
	KeyDisableArchiving       = "disableArchiving"
	KeyTestSuffix             = "testSuffix"
	KeyCompareAgainst         = "compareAgainst"
	KeyXMLFieldsToRemove      = "xmlFieldsToRemove"
	KeyKeepLiveDates          = "keepLiveDates"
)

// KnownKeys lists every accepted option key.
var KnownKeys = []string{
	KeyIDSite, KeyDate, KeyPeriods, KeyFormat, KeySetDateLastN, KeyLanguage,
	KeySegment, KeyVisitorID, KeyAbandonedCarts, KeyIDGoal, KeyAPIModule,
	KeyAPIAction, KeyOtherRequestParameters, KeySupertableAPI, KeyFileExtension,
	KeyAPINotToCall, KeyDisableArchiving, KeyTestSuffix, KeyCompareAgainst,
	KeyXMLFieldsToRemove, KeyKeepLiveDates,
}

const (
	// DefaultFormat is the output format used when none is configured
	DefaultFormat = "xml"
	// DefaultLastN is the count "setDateLastN: true" normalizes to
	DefaultLastN = 6
	// DefaultLanguage is the language every test method starts and ends with
	DefaultLanguage = "en"
)

// DefaultFormats are used when no format is configured.
var DefaultFormats = []string{DefaultFormat}

// DefaultPeriods are used when no period is configured.
var DefaultPeriods = []string{"day"}

// ValidPeriods are the report granularities the harness understands.
var ValidPeriods = map[string]bool{
	"day":   true,
	"week":  true,
	"month": true,
	"year":  true,
	"range": true,
}

// GoalID is an optional goal id. Zero is a legitimate goal id, so "not set"
// is tracked separately.
type GoalID struct {
	value string
	set   bool
}

// NewGoalID returns a set goal id.
func NewGoalID(value string) GoalID {
	return GoalID{value: value, set: true}
}

// Get returns the goal id and whether it is set.
func (g GoalID) Get() (string, bool) {
	return g.value, g.set
}

// TestConfiguration is the validated configuration of one runApiTests call.
type TestConfiguration struct {
	// IDSite is the site the requests target
	IDSite string `json:"idSite"`
	// Date is the raw date expression as configured
	Date string `json:"date"`
	// Periods lists the report periods, in iteration order
	Periods []string `json:"periods"`
	// Formats lists the requested output formats, in iteration order
	Formats []string `json:"formats"`
	// SetDateLastN, when positive, rewrites the date to a range of N periods
	SetDateLastN int `json:"setDateLastN,omitempty"`
	// Language overrides the response language
	Language string `json:"language,omitempty"`
	// Segment is the raw (not yet URL-encoded) segment definition
	Segment string `json:"segment,omitempty"`
	// VisitorID selects a single visitor
	VisitorID string `json:"visitorId,omitempty"`
	// AbandonedCarts queries abandoned carts instead of orders
	AbandonedCarts bool `json:"abandonedCarts,omitempty"`
	// IDGoal is the optional goal id
	IDGoal GoalID `json:"-"`
	// APIModule and APIAction are forwarded for module/action-scoped operations
	APIModule string `json:"apiModule,omitempty"`
	APIAction string `json:"apiAction,omitempty"`
	// OtherRequestParameters are merged into every request
	OtherRequestParameters map[string]string `json:"otherRequestParameters,omitempty"`
	// SupertableAPI is the "Module.method" probed for a sub-table id
	SupertableAPI string `json:"supertableApi,omitempty"`
	// FileExtension is appended to request identifiers
	FileExtension string `json:"fileExtension,omitempty"`
	// APINotToCall lists modules or ids excluded in addition to the defaults
	APINotToCall []string `json:"apiNotToCall,omitempty"`
	// DisableArchiving asks the engine not to archive on demand
	DisableArchiving bool `json:"disableArchiving,omitempty"`
	// TestSuffix is appended to the test name in artifact file names
	TestSuffix string `json:"testSuffix,omitempty"`
	// CompareAgainst redirects baseline lookup to another test's baselines
	CompareAgainst string `json:"compareAgainst,omitempty"`
	// XMLFieldsToRemove lists extra XML elements stripped before comparison
	XMLFieldsToRemove []string `json:"xmlFieldsToRemove,omitempty"`
	// KeepLiveDates keeps the date fields of live-data operations
	KeepLiveDates bool `json:"keepLiveDates,omitempty"`
}

// UsesLastN reports whether the date is rewritten to a range of periods.
func (c *TestConfiguration) UsesLastN() bool {
	return c.SetDateLastN > 0
}

// IsRangeOnly reports whether the only configured period is "range".
func (c *TestConfiguration) IsRangeOnly() bool {
	return len(c.Periods) == 1 && c.Periods[0] == "range"
}

// DateIsMulti reports whether the date already names more than one date.
func (c *TestConfiguration) DateIsMulti() bool {
	return strings.Contains(c.Date, ",")
}
