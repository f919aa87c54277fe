package resume

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/khoahotran/devfolio/pkg/apperror"
	"github.com/khoahotran/devfolio/pkg/logger"
)

func TestCleanStripsNonPrintable(t *testing.T) {
	got := Clean("Jane Doe \x00\x07 Engineer • Go")
	assert.Equal(t, "Jane Doe Engineer Go", got)
}

func TestCleanCollapsesWhitespace(t *testing.T) {
	got := Clean("  Go \t\t developer \n\n with   Kafka  ")
	assert.Equal(t, "Go developer with Kafka", got)
}

func TestCleanTruncates(t *testing.T) {
	got := Clean(strings.Repeat("a", maxCleanChars+500))
	assert.Len(t, got, maxCleanChars)
}

func TestCleanIsIdempotent(t *testing.T) {
	inputs := []string{
		"already clean text",
		"  messy \t input • with bullets  ",
		strings.Repeat("word ", 4000),
		"",
	}
	for _, in := range inputs {
		once := Clean(in)
		assert.Equal(t, once, Clean(once))
	}
}

func TestExtractEmptyInputIsAnError(t *testing.T) {
	e := NewPDFExtractor(logger.NewNop())
	_, err := e.Extract(nil)
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
}

func TestExtractCorruptedDocumentDegradesToEmpty(t *testing.T) {
	e := NewPDFExtractor(logger.NewNop())

	text, err := e.Extract([]byte("this is definitely not a pdf"))
	assert.NoError(t, err, "parse failures must not escape the boundary")
	assert.Empty(t, text)
}

func TestExtractTruncatedPDFDegradesToEmpty(t *testing.T) {
	e := NewPDFExtractor(logger.NewNop())

	// Valid magic bytes, garbage body: exercises the parser error path.
	text, err := e.Extract([]byte("%PDF-1.7\ngarbage"))
	assert.NoError(t, err)
	assert.Empty(t, text)
}
