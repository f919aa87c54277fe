package resume

import (
	"regexp"
	"strings"
)

// maxCleanChars caps cleaned text before it reaches the completion service.
const maxCleanChars = 15000

var (
	nonPrintable = regexp.MustCompile(`[^\x20-\x7E\n]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Clean implements the service.TextExtractor normalization step.
func (e *pdfExtractor) Clean(text string) string {
	return Clean(text)
}

// Clean normalizes extracted resume text for the completion service: strip
// non-printable characters, collapse whitespace runs to single spaces, trim
// and truncate. Idempotent: Clean(Clean(s)) == Clean(s).
func Clean(text string) string {
	text = nonPrintable.ReplaceAllString(text, "")
	text = whitespace.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	if len(text) > maxCleanChars {
		text = strings.TrimSpace(text[:maxCleanChars])
	}
	return text
}
