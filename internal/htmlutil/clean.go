package htmlutil

import (
	"strings"

	"github.com/k3a/html2text"
)

// ToText reduces a free-text API paragraph to plain text suitable for a
// page frame: entities resolved, any stray markup stripped, whitespace
// collapsed to single spaces.
func ToText(s string) string {
	return strings.Join(strings.Fields(html2text.HTML2Text(s)), " ")
}
