// Package pinyin renders Chinese text as tone-marked pinyin.
package pinyin

import (
	"strings"
	"unicode"

	"github.com/f3rmion/sentences/internal/sentences"
	gopinyin "github.com/mozillazg/go-pinyin"
)

// chineseNames are the language names the service reports for Chinese text.
var chineseNames = []string{"chinese", "mandarin", "chinese (mandarin)", "simplified chinese", "traditional chinese"}

// Romanizer converts Han characters to pinyin.
type Romanizer struct {
	args gopinyin.Args
}

// NewRomanizer creates a new romanizer producing tone marks (zhōng).
func NewRomanizer() *Romanizer {
	args := gopinyin.NewArgs()
	args.Style = gopinyin.Tone
	return &Romanizer{args: args}
}

// Romanize converts every run of Han characters in text to space separated
// pinyin syllables. Everything else is kept as it is.
func (r *Romanizer) Romanize(text string) string {
	var parts []string
	var han, other strings.Builder

	flushHan := func() {
		if han.Len() == 0 {
			return
		}
		if syllables := gopinyin.LazyPinyin(han.String(), r.args); len(syllables) > 0 {
			parts = append(parts, strings.Join(syllables, " "))
		}
		han.Reset()
	}
	flushOther := func() {
		if s := strings.TrimSpace(other.String()); s != "" {
			parts = append(parts, s)
		}
		other.Reset()
	}

	for _, c := range text {
		if unicode.Is(unicode.Han, c) {
			flushOther()
			han.WriteRune(c)
			continue
		}
		flushHan()
		other.WriteRune(c)
	}
	flushHan()
	flushOther()

	return joinParts(parts)
}

// joinParts joins segments with spaces but keeps punctuation attached to the
// preceding segment.
func joinParts(parts []string) string {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 && !startsWithPunct(p) {
			b.WriteString(" ")
		}
		b.WriteString(p)
	}
	return b.String()
}

func startsWithPunct(s string) bool {
	for _, c := range s {
		return unicode.IsPunct(c)
	}
	return false
}

// ContainsHan reports whether s has at least one Han character.
func ContainsHan(s string) bool {
	for _, c := range s {
		if unicode.Is(unicode.Han, c) {
			return true
		}
	}
	return false
}

// IsChinese reports whether a detected language name refers to Chinese.
func IsChinese(language string) bool {
	language = strings.ToLower(strings.TrimSpace(language))
	for _, name := range chineseNames {
		if language == name {
			return true
		}
	}
	return false
}

// Pronounce returns the pronunciation to display for ex. The received
// pronunciation wins; an empty one on a Chinese sentence falls back to
// generated pinyin. A nil Romanizer never generates.
func (r *Romanizer) Pronounce(language string, ex sentences.Example) string {
	if r == nil || strings.TrimSpace(ex.Pronunciation) != "" {
		return ex.Pronunciation
	}
	if !IsChinese(language) || !ContainsHan(ex.Target) {
		return ex.Pronunciation
	}
	return r.Romanize(ex.Target)
}
