package palimpsest

import (
	"fmt"
	"strings"
)

// Warning is a non-fatal issue met while loading or editing a document
type Warning struct {
	// Page is the page the issue concerns, or 0 for the whole document
	Page    int
	Message string
	Err     error
}

// String formats the warning for display
func (w Warning) String() string {
	var sb strings.Builder
	if w.Page > 0 {
		fmt.Fprintf(&sb, "page %d: ", w.Page)
	}
	sb.WriteString(w.Message)
	if w.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(w.Err.Error())
	}
	return sb.String()
}

// FormatWarnings joins warnings one per line
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}
