package tone

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownTone is returned when a registry does not accept the tone.
var ErrUnknownTone = errors.New("unknown tone")

// Tone identifies a style directive applied to the rewritten prompt.
type Tone string

const (
	Academic     Tone = "academic"
	Casual       Tone = "casual"
	Professional Tone = "professional"
	Creative     Tone = "creative"
	Technical    Tone = "technical"
)

// Mode selects how a registry treats tone identifiers.
type Mode string

const (
	// ModeClosed accepts only the catalog tones.
	ModeClosed Mode = "closed"
	// ModeFree embeds any non-blank tone text into a fixed instruction.
	ModeFree Mode = "free"
)

// Registry maps a tone to the instruction text prepended to the user prompt.
type Registry interface {
	Instruction(t Tone) (string, error)
	Tones() []Tone
}

// Entry pairs a tone with its instruction, for listings.
type Entry struct {
	Tone        Tone   `json:"tone"`
	Instruction string `json:"instruction"`
}

// New builds the registry for the given mode.
func New(mode Mode) (Registry, error) {
	switch mode {
	case ModeClosed, "":
		return Catalog{}, nil
	case ModeFree:
		return FreeForm{}, nil
	default:
		return nil, fmt.Errorf("tone: unsupported mode %q", mode)
	}
}

// Entries lists every tone of r with its instruction. Tones the registry
// rejects are skipped.
func Entries(r Registry) []Entry {
	tones := r.Tones()
	out := make([]Entry, 0, len(tones))
	for _, t := range tones {
		instr, err := r.Instruction(t)
		if err != nil {
			continue
		}
		out = append(out, Entry{Tone: t, Instruction: instr})
	}
	return out
}

// Normalize lower-cases and trims a tone identifier.
func Normalize(t Tone) Tone {
	return Tone(strings.ToLower(strings.TrimSpace(string(t))))
}
