package booth

import (
	"fmt"
	"strings"
)

// Text renders the progress line shown to the user in the given locale.
// Anything other than Portuguese falls back to English.
func (p Progress) Text(locale string) string {
	pt := strings.HasPrefix(strings.ToLower(locale), "pt")
	if p.Phase == PhaseCompositing {
		if pt {
			return "Criando sua montagem..."
		}
		return "Creating your collage..."
	}
	if pt {
		return fmt.Sprintf("Gerando %s... (%d/%d)", p.StyleName, p.Index+1, p.Total)
	}
	return fmt.Sprintf("Generating %s... (%d/%d)", p.StyleName, p.Index+1, p.Total)
}
