package domain

import "strings"

// DefaultFallbackKeyword names the entry returned when nothing matches.
const DefaultFallbackKeyword = "success"

// FallbackEntry pairs a lowercase keyword with the quotes served when a
// subject contains it.
type FallbackEntry struct {
	Keyword string
	Quotes  QuoteSet
}

// Matches reports whether the lowercased subject contains the keyword.
func (e FallbackEntry) Matches(lowerSubject string) bool {
	return strings.Contains(lowerSubject, e.Keyword)
}

// FallbackCatalog is an ordered, read-only list of canned quote sets.
// Entries are evaluated top to bottom and the first match wins.
type FallbackCatalog struct {
	entries      []FallbackEntry
	defaultEntry FallbackEntry
}

// NewFallbackCatalog builds a catalog from entries in priority order.
// The entry keyed by defaultKeyword is served when no entry matches;
// it panics if that entry is absent, since lookups must never fail.
func NewFallbackCatalog(defaultKeyword string, entries ...FallbackEntry) *FallbackCatalog {
	c := &FallbackCatalog{entries: make([]FallbackEntry, 0, len(entries))}

	found := false

	for _, e := range entries {
		e.Keyword = strings.ToLower(e.Keyword)
		e.Quotes = e.Quotes.Clone()
		c.entries = append(c.entries, e)

		if !found && e.Keyword == defaultKeyword {
			c.defaultEntry = e
			found = true
		}
	}

	if !found || len(c.defaultEntry.Quotes) == 0 {
		panic("fallback catalog: default entry " + defaultKeyword + " missing or empty")
	}

	return c
}

// DefaultFallbackCatalog returns the built-in catalog: person entries first,
// then topic entries, with "success" as the default.
func DefaultFallbackCatalog() *FallbackCatalog {
	entries := make([]FallbackEntry, 0, len(personFallbacks)+len(topicFallbacks))
	entries = append(entries, personFallbacks...)
	entries = append(entries, topicFallbacks...)

	return NewFallbackCatalog(DefaultFallbackKeyword, entries...)
}

// Lookup returns the quotes for subject. It never fails and never returns
// an empty set. The returned slice is a copy.
func (c *FallbackCatalog) Lookup(subject string) QuoteSet {
	entry := c.Match(subject)

	return entry.Quotes.Clone()
}

// Match returns the entry lookup would use for subject.
func (c *FallbackCatalog) Match(subject string) FallbackEntry {
	lower := strings.ToLower(subject)

	for _, e := range c.entries {
		if e.Matches(lower) {
			return e
		}
	}

	return c.defaultEntry
}

func sameAuthor(author string, texts ...string) QuoteSet {
	set := make(QuoteSet, len(texts))
	for i, t := range texts {
		set[i] = Quote{Text: t, Context: author}
	}

	return set
}

var personFallbacks = []FallbackEntry{
	{
		Keyword: "einstein",
		Quotes: sameAuthor("Albert Einstein",
			"Imagination is more important than knowledge.",
			"The important thing is not to stop questioning.",
			"Try not to become a person of success, but rather try to become a person of value.",
		),
	},
	{
		Keyword: "churchill",
		Quotes: sameAuthor("Winston Churchill",
			"Success is not final, failure is not fatal: it is the courage to continue that counts.",
			"We shall never surrender.",
			"If you're going through hell, keep going.",
		),
	},
	{
		Keyword: "jobs",
		Quotes: sameAuthor("Steve Jobs",
			"The only way to do great work is to love what you do.",
			"Stay hungry, stay foolish.",
			"Innovation distinguishes between a leader and a follower.",
		),
	},
	{
		Keyword: "disney",
		Quotes: sameAuthor("Walt Disney",
			"If you can dream it, you can do it.",
			"The way to get started is to quit talking and begin doing.",
			"All our dreams can come true, if we have the courage to pursue them.",
		),
	},
}

var topicFallbacks = []FallbackEntry{
	{
		Keyword: "success",
		Quotes: QuoteSet{
			{Text: "Success is not final, failure is not fatal: it is the courage to continue that counts.", Context: "Winston Churchill"},
			{Text: "The way to get started is to quit talking and begin doing.", Context: "Walt Disney"},
			{Text: "Don't be afraid to give up the good to go for the great.", Context: "John D. Rockefeller"},
		},
	},
	{
		Keyword: "motivation",
		Quotes: QuoteSet{
			{Text: "The only way to do great work is to love what you do.", Context: "Steve Jobs"},
			{Text: "If you can dream it, you can do it.", Context: "Walt Disney"},
			{Text: "The future belongs to those who believe in the beauty of their dreams.", Context: "Eleanor Roosevelt"},
		},
	},
	{
		Keyword: "life",
		Quotes: QuoteSet{
			{Text: "Life is what happens to you while you're busy making other plans.", Context: "John Lennon"},
			{Text: "The purpose of our lives is to be happy.", Context: "Dalai Lama"},
			{Text: "Get busy living or get busy dying.", Context: "Stephen King"},
		},
	},
}
