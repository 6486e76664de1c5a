package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"fenced", "```json\n[1]\n```", "[1]"},
		{"surrounding whitespace", "  \n```json\n[1]\n```  \n", "[1]"},
		{"no fences", `[{"quote":"a"}]`, `[{"quote":"a"}]`},
		{"only trailing fence", "[1]\n```", "[1]"},
		{"plain fence is left alone", "```\n[1]\n```", "```\n[1]"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.raw))
		})
	}
}

func TestParseQuotes_Success(t *testing.T) {
	t.Run("fenced single quote", func(t *testing.T) {
		quotes, err := ParseQuotes("```json\n[{\"quote\":\"a\",\"context\":\"b\"}]\n```")

		require.NoError(t, err)
		assert.Equal(t, QuoteSet{{Text: "a", Context: "b"}}, quotes)
	})

	t.Run("order is preserved and extra keys ignored", func(t *testing.T) {
		raw := `[
			{"quote": "first", "context": "one", "year": 1901},
			{"quote": "second", "context": "two"},
			{"quote": "third", "context": "three"}
		]`

		quotes, err := ParseQuotes(raw)

		require.NoError(t, err)
		require.Len(t, quotes, 3)
		assert.Equal(t, "first", quotes[0].Text)
		assert.Equal(t, "second", quotes[1].Text)
		assert.Equal(t, "three", quotes[2].Context)
	})

	t.Run("fields are trimmed", func(t *testing.T) {
		quotes, err := ParseQuotes(`[{"quote":"  spaced  ","context":" ctx "}]`)

		require.NoError(t, err)
		assert.Equal(t, Quote{Text: "spaced", Context: "ctx"}, quotes[0])
	})
}

func TestParseQuotes_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind ParseErrorKind
	}{
		{"not json", "not json", ParseErrorSyntax},
		{"empty text", "", ParseErrorSyntax},
		{"truncated array", `[{"quote":"a","context":"b"}`, ParseErrorSyntax},
		{"object instead of list", `{"quote":"a","context":"b"}`, ParseErrorStructure},
		{"empty list", `[]`, ParseErrorStructure},
		{"missing context", `[{"quote":"a"}]`, ParseErrorStructure},
		{"missing quote", `[{"context":"b"}]`, ParseErrorStructure},
		{"element is a string", `["a"]`, ParseErrorStructure},
		{"blank quote", `[{"quote":"  ","context":"b"}]`, ParseErrorStructure},
		{"non-string context", `[{"quote":"a","context":3}]`, ParseErrorStructure},
		{"second element invalid", `[{"quote":"a","context":"b"},{"quote":"c"}]`, ParseErrorStructure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quotes, err := ParseQuotes(tt.raw)

			require.Error(t, err)
			assert.Nil(t, quotes)
			require.ErrorIs(t, err, ErrMalformedResponse)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.kind, parseErr.Kind)
		})
	}
}
