package domain

import "strings"

// DefaultVoiceID is the voice used when a caller does not choose one.
const DefaultVoiceID = "Aoede"

const voiceDescription = "Gemini TTS Voice - US English"

// Gender of a voice as presented to users.
type Gender string

const (
	GenderFemale Gender = "Female"
	GenderMale   Gender = "Male"
)

// Voice is a selectable text-to-speech voice.
type Voice struct {
	ID          string
	Name        string
	Description string
	Gender      Gender
}

// VoiceCatalog is the fixed, read-only list of supported voices.
type VoiceCatalog struct {
	voices []Voice
	byID   map[string]Voice
}

// NewVoiceCatalog indexes voices by ID, keeping their order.
func NewVoiceCatalog(voices ...Voice) *VoiceCatalog {
	c := &VoiceCatalog{
		voices: make([]Voice, len(voices)),
		byID:   make(map[string]Voice, len(voices)),
	}

	copy(c.voices, voices)

	for _, v := range voices {
		c.byID[v.ID] = v
	}

	return c
}

// DefaultVoiceCatalog returns the Gemini US-English voices.
func DefaultVoiceCatalog() *VoiceCatalog {
	voices := make([]Voice, 0, len(geminiVoices))

	for _, gv := range geminiVoices {
		desc := voiceDescription
		if gv.id == DefaultVoiceID {
			desc += " (Default)"
		}

		voices = append(voices, Voice{ID: gv.id, Name: gv.id, Description: desc, Gender: gv.gender})
	}

	return NewVoiceCatalog(voices...)
}

// List returns a copy of all voices in catalog order.
func (c *VoiceCatalog) List() []Voice {
	out := make([]Voice, len(c.voices))
	copy(out, c.voices)

	return out
}

// Lookup finds a voice by exact ID.
func (c *VoiceCatalog) Lookup(id string) (Voice, error) {
	v, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return Voice{}, NewNotFoundError("voice", id)
	}

	return v, nil
}

// Contains reports whether id names a known voice.
func (c *VoiceCatalog) Contains(id string) bool {
	_, err := c.Lookup(id)

	return err == nil
}

var geminiVoices = []struct {
	id     string
	gender Gender
}{
	{"Achernar", GenderFemale},
	{"Achird", GenderMale},
	{"Algenib", GenderMale},
	{"Algieba", GenderMale},
	{"Alnilam", GenderMale},
	{"Aoede", GenderFemale},
	{"Autonoe", GenderFemale},
	{"Callirrhoe", GenderFemale},
	{"Charon", GenderMale},
	{"Despina", GenderFemale},
	{"Enceladus", GenderMale},
	{"Erinome", GenderFemale},
	{"Fenrir", GenderMale},
	{"Gacrux", GenderFemale},
	{"Iapetus", GenderMale},
	{"Kore", GenderFemale},
	{"Laomedeia", GenderFemale},
	{"Leda", GenderFemale},
	{"Orus", GenderMale},
	{"Pulcherrima", GenderFemale},
	{"Puck", GenderMale},
	{"Rasalgethi", GenderMale},
	{"Sadachbia", GenderMale},
	{"Sadaltager", GenderMale},
	{"Schedar", GenderMale},
	{"Sulafat", GenderFemale},
	{"Umbriel", GenderMale},
	{"Vindemiatrix", GenderFemale},
	{"Zephyr", GenderFemale},
	{"Zubenelgenubi", GenderMale},
}
