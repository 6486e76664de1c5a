package domain

import (
	"strings"

	"github.com/bytedance/sonic"
)

const (
	fenceOpen  = "```json"
	fenceClose = "```"
)

// StripFences removes one leading ```json marker and one trailing ``` marker.
// Only those literal tokens are handled; this is not a markdown parser.
func StripFences(raw string) string {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, fenceOpen)
	text = strings.TrimSuffix(text, fenceClose)

	return strings.TrimSpace(text)
}

// ParseQuotes turns raw model output into a QuoteSet.
// Every failure is a *ParseError wrapping ErrMalformedResponse.
func ParseQuotes(raw string) (QuoteSet, error) {
	text := StripFences(raw)

	var decoded any
	if err := sonic.UnmarshalString(text, &decoded); err != nil {
		return nil, newSyntaxError(err)
	}

	items, ok := decoded.([]any)
	if !ok {
		return nil, newStructureError("response is not a list")
	}

	if len(items) == 0 {
		return nil, newStructureError("response list is empty")
	}

	quotes := make(QuoteSet, 0, len(items))

	for i, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			return nil, newStructureError("element %d is not an object", i)
		}

		text, err := stringField(record, "quote", i)
		if err != nil {
			return nil, err
		}

		context, err := stringField(record, "context", i)
		if err != nil {
			return nil, err
		}

		quotes = append(quotes, Quote{Text: text, Context: context})
	}

	return quotes, nil
}

func stringField(record map[string]any, key string, index int) (string, error) {
	value, ok := record[key]
	if !ok {
		return "", newStructureError("element %d is missing %q", index, key)
	}

	s, ok := value.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", newStructureError("element %d has empty %q", index, key)
	}

	return strings.TrimSpace(s), nil
}
