package domain

import (
	"fmt"
	"strings"
)

const quoteRecordExample = `{
    "quote": "The actual quote text",
    "context": "%s"
}`

// BuildPersonCheckPrompt asks the model for a bare YES/NO on whether subject names a person.
func BuildPersonCheckPrompt(subject Subject) string {
	return fmt.Sprintf(
		"Determine if %q is the name of a person (famous person, historical figure, celebrity, author, etc.).\n"+
			"Respond with only \"YES\" if it's a person's name, or \"NO\" if it's not a person's name.",
		subject.String(),
	)
}

// BuildQuotePrompt builds the generation instruction for subject.
// Quotes are requested BY the subject when isPerson is true and ABOUT it otherwise.
func BuildQuotePrompt(subject Subject, isPerson bool) string {
	var b strings.Builder

	if isPerson {
		fmt.Fprintf(&b, "Generate %d inspiring and meaningful quotes BY %q "+
			"(quotes that this person actually said or wrote).\n", QuotesPerRequest, subject.String())
		b.WriteString("For each quote, provide:\n")
		b.WriteString("1. The quote itself (should be impactful and memorable)\n")
		b.WriteString("2. Context about when/where the quote was said or what situation it relates to\n\n")
		writeShape(&b, "Context about when/where the quote was said")
		fmt.Fprintf(&b, "Make sure all quotes are actually attributed to %q "+
			"and are authentic quotes by this person.", subject.String())

		return b.String()
	}

	fmt.Fprintf(&b, "Generate %d inspiring and meaningful quotes about %q.\n", QuotesPerRequest, subject.String())
	b.WriteString("For each quote, provide:\n")
	b.WriteString("1. The quote itself (should be impactful and memorable)\n")
	b.WriteString("2. Context about the quote (who said it, when, or what situation it relates to)\n\n")
	writeShape(&b, "Context about the quote")
	fmt.Fprintf(&b, "Make sure the quotes are diverse, inspiring, and directly related to the subject %q, "+
		"and that they were actually spoken by someone or written in a document.", subject.String())

	return b.String()
}

func writeShape(b *strings.Builder, contextHint string) {
	b.WriteString("Return the response as a JSON array where each item has this structure:\n")
	fmt.Fprintf(b, quoteRecordExample, contextHint)
	b.WriteString("\n\n")
}
