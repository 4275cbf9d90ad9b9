// Package clipboard exports search results to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	sysclip "github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"

	"github.com/f3rmion/sentences/internal/sentences"
)

// CopiedDuration is how long the "copied" confirmation stays visible.
const CopiedDuration = 2 * time.Second

// FailureMessage is shown when the clipboard write fails.
const FailureMessage = "Failed to copy to clipboard"

// Writer puts text on a clipboard.
type Writer interface {
	Write(text string) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(text string) error

// Write calls f(text).
func (f WriterFunc) Write(text string) error { return f(text) }

// SystemWriter writes to the native clipboard and falls back to an OSC 52
// escape sequence (understood by most terminal emulators, also over SSH)
// when no native clipboard tool is present.
type SystemWriter struct {
	Terminal io.Writer // Destination of the OSC 52 sequence, os.Stderr if nil
}

// Write copies text to the system clipboard.
func (w SystemWriter) Write(text string) error {
	if !sysclip.Unsupported {
		if err := sysclip.WriteAll(text); err == nil {
			return nil
		}
	}

	out := w.Terminal
	if out == nil {
		out = os.Stderr
	}
	if _, err := osc52.New(text).WriteTo(out); err != nil {
		return fmt.Errorf("writing osc52 sequence: %w", err)
	}
	return nil
}

// Serialize renders examples as copyable text. Sentences already in the
// reference language contribute only their target line; all others
// contribute target, pronunciation and English on separate lines. Examples
// are separated by a blank line.
func Serialize(result *sentences.Result, referenceLanguage string) string {
	if result == nil || len(result.Examples) == 0 {
		return ""
	}

	targetOnly := sentences.SameLanguage(result.DetectedLanguage, referenceLanguage)

	blocks := make([]string, 0, len(result.Examples))
	for _, ex := range result.Examples {
		if targetOnly {
			blocks = append(blocks, ex.Target)
			continue
		}
		blocks = append(blocks, ex.Target+"\n"+ex.Pronunciation+"\n"+ex.English)
	}
	return strings.Join(blocks, "\n\n")
}

// ErrNothingToCopy is returned by Copy when the result has no examples.
var ErrNothingToCopy = errors.New("nothing to copy")

// Exporter serializes results and writes them to a clipboard.
type Exporter struct {
	writer    Writer
	reference string
}

// NewExporter creates an exporter for viewers whose own language is
// referenceLanguage.
func NewExporter(w Writer, referenceLanguage string) *Exporter {
	return &Exporter{writer: w, reference: referenceLanguage}
}

// Text returns the serialized form of result.
func (e *Exporter) Text(result *sentences.Result) string {
	return Serialize(result, e.reference)
}

// Copy writes result to the clipboard. Nothing is written for an empty
// result and ErrNothingToCopy is returned.
func (e *Exporter) Copy(result *sentences.Result) error {
	text := e.Text(result)
	if text == "" {
		return ErrNothingToCopy
	}
	if err := e.writer.Write(text); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	return nil
}
