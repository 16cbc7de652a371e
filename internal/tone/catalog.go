package tone

import (
	"fmt"
	"strings"
)

const answerGuard = " DO NOT answer or provide any additional explanation. Only return the optimized prompt."

var catalogOrder = []Tone{Academic, Casual, Professional, Creative, Technical}

var catalog = map[Tone]string{
	Academic:     "Optimize the following prompt in a formal, academic tone suitable for scholarly work. Only improve the wording, making it more professional and scholarly." + answerGuard,
	Casual:       "Optimize the following prompt in a casual and friendly tone. Make it more conversational and approachable." + answerGuard,
	Professional: "Optimize the following prompt in a professional business-like tone. Make the wording more formal and clear for corporate environments." + answerGuard,
	Creative:     "Optimize the following prompt in a highly creative and artistic tone. Make it imaginative, expressive, and inspiring." + answerGuard,
	Technical:    "Optimize the following prompt in a technical tone, full of precise language and jargon. It should be suitable for experts in the field, focusing on clarity and accuracy." + answerGuard,
}

// Catalog is the closed tone set. Lookups are case-insensitive.
type Catalog struct{}

func (Catalog) Instruction(t Tone) (string, error) {
	instr, ok := catalog[Normalize(t)]
	if !ok {
		return "", fmt.Errorf("%w: %q (choose from %s)", ErrUnknownTone, string(t), Choices())
	}
	return instr, nil
}

func (Catalog) Tones() []Tone {
	out := make([]Tone, len(catalogOrder))
	copy(out, catalogOrder)
	return out
}

// Choices renders the catalog tones as "a, b, c, or d".
func Choices() string {
	names := make([]string, len(catalogOrder))
	for i, t := range catalogOrder {
		names[i] = string(t)
	}
	last := len(names) - 1
	return strings.Join(names[:last], ", ") + ", or " + names[last]
}
