package model

// Category is the display class assigned to a log line.
type Category string

const (
	CategoryError   Category = "error"
	CategoryWarning Category = "warning"
	CategorySuccess Category = "success"
	CategoryInfo    Category = "info"
	CategoryNone    Category = "none"
)

// LogLine is a single classified line of the polled log. It is derived from
// Raw on every fetch and never persisted.
type LogLine struct {
	Raw       string   `json:"-"`
	Category  Category `json:"category"`
	Timestamp string   `json:"timestamp,omitempty"` // empty when no pattern matched
	Body      string   `json:"body"`                // Raw with the timestamp removed
	HTML      string   `json:"html"`                // Body, HTML-escaped
}
