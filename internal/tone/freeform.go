package tone

import (
	"fmt"
	"strings"
)

const freeFormTemplate = "Optimize the following prompt in a %s tone. Make it more effective while maintaining the original intent. Return only the optimized version without additional commentary."

// FreeForm accepts any non-blank tone text and embeds it verbatim into a
// fixed instruction. Tones lists the catalog as suggestions only.
type FreeForm struct{}

func (FreeForm) Instruction(t Tone) (string, error) {
	s := strings.TrimSpace(string(t))
	if s == "" {
		return "", fmt.Errorf("%w: tone is empty", ErrUnknownTone)
	}
	return fmt.Sprintf(freeFormTemplate, s), nil
}

func (FreeForm) Tones() []Tone {
	return Catalog{}.Tones()
}
