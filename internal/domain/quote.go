package domain

import "strings"

// QuotesPerRequest is how many quotes the model is asked for.
const QuotesPerRequest = 5

// Quote is a quotation paired with where it came from.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	// Text is the quotation itself.
	Text string

	// Context is the attribution: who said it, or when and where.
	Context string
}

// Valid reports whether both fields are non-empty after trimming.
func (q Quote) Valid() bool {
	return strings.TrimSpace(q.Text) != "" && strings.TrimSpace(q.Context) != ""
}

// QuoteSet is an ordered list of quotes. Order is presentation order.
type QuoteSet []Quote

// Clone returns a copy that callers may modify freely.
func (s QuoteSet) Clone() QuoteSet {
	out := make(QuoteSet, len(s))
	copy(out, s)

	return out
}

// Subject is the trimmed, non-empty topic or name a caller asks about.
type Subject string

// NewSubject trims raw and rejects it when nothing is left.
func NewSubject(raw string) (Subject, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", NewValidationError("subject", "Subject cannot be empty")
	}

	return Subject(trimmed), nil
}

// String returns the subject text.
func (s Subject) String() string {
	return string(s)
}

// Source records where a QuoteResult's quotes came from.
type Source string

const (
	// SourceGenerated means the quotes were produced by the language model.
	SourceGenerated Source = "generated"

	// SourceFallback means the quotes came from the fallback catalog.
	SourceFallback Source = "fallback"
)

// QuoteResult is the outcome of one quote request.
type QuoteResult struct {
	Subject  Subject
	Quotes   QuoteSet
	IsPerson bool
	Source   Source
}
