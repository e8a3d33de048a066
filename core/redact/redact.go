// Package redact implements strings that may embed secret spans. Secrets
// travel the same path as public text with no out-of-band tracking
// structure; formatting a redacted string never exposes the hidden spans.
package redact

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel runes delimit a redacted span within the internal buffer. They
// sit in the Unicode "tag" block (U+E0000-U+E007F), far outside the
// printable-ASCII range that redacted spans are restricted to, so they can
// never collide with real content.
const (
	sentinelStart = '\U000E0001'
	sentinelEnd   = '\U000E0002'
)

// ErrNonPrintableASCII is returned by PushRedacted when the given text is
// not printable ASCII (0x20-0x7E).
var ErrNonPrintableASCII = errors.New("redact: redacted span must be printable ASCII")

// String is an opaque sequence of characters partitioned into public and
// redacted spans. It is immutable once constructed; the builder methods
// (Push, PushRedacted) are only valid before the String is shared.
type String struct {
	buf strings.Builder
	// built caches the final buffer once any read method is called, so
	// reads are stable even if a caller (incorrectly) keeps writing.
	built string
	done  bool
}

// New returns an empty redacted string builder.
func New() *String {
	return &String{}
}

// Push appends public (non-secret) text verbatim.
func (s *String) Push(text string) {
	s.mustBuilding()
	s.buf.WriteString(text)
}

// PushRedacted appends a redacted span. The text must be printable ASCII
// (0x20-0x7E); anything else fails the operation without mutating s.
func (s *String) PushRedacted(text string) error {
	s.mustBuilding()
	for _, r := range text {
		if r < 0x20 || r > 0x7E {
			return fmt.Errorf("%w: %q", ErrNonPrintableASCII, text)
		}
	}
	if text == "" {
		return nil
	}
	s.buf.WriteRune(sentinelStart)
	s.buf.WriteString(text)
	s.buf.WriteRune(sentinelEnd)
	return nil
}

func (s *String) mustBuilding() {
	if s.done {
		panic("redact: String is already finalized; cannot push further")
	}
}

func (s *String) finalize() string {
	if !s.done {
		s.built = s.buf.String()
		s.done = true
	}
	return s.built
}

// Chunk is one (public, redacted) pair produced by Chunks. Redacted is
// empty when the chunk carries only public text.
type Chunk struct {
	Public   string
	Redacted string
}

// Chunks returns the (public, redacted) pairs making up s, in order.
func (s *String) Chunks() []Chunk {
	raw := s.finalize()
	var chunks []Chunk
	var public strings.Builder
	runes := []rune(raw)
	i := 0
	for i < len(runes) {
		if runes[i] == sentinelStart {
			i++
			var redacted strings.Builder
			for i < len(runes) && runes[i] != sentinelEnd {
				redacted.WriteRune(runes[i])
				i++
			}
			if i < len(runes) {
				i++ // skip sentinelEnd
			}
			chunks = append(chunks, Chunk{Public: public.String(), Redacted: redacted.String()})
			public.Reset()
			continue
		}
		public.WriteRune(runes[i])
		i++
	}
	if public.Len() > 0 || len(chunks) == 0 {
		chunks = append(chunks, Chunk{Public: public.String()})
	}
	return chunks
}

// Display renders s with every non-empty redacted span replaced by "***".
func (s *String) Display() string {
	var out strings.Builder
	for _, c := range s.Chunks() {
		out.WriteString(c.Public)
		if c.Redacted != "" {
			out.WriteString("***")
		}
	}
	return out.String()
}

// String implements fmt.Stringer via Display, so accidental fmt.Println
// calls stay safe by construction.
func (s *String) String() string {
	return s.Display()
}

// ToExposed concatenates every public and redacted character, revealing
// secrets. Reserved for internal comparisons (startsWith, contains, ==);
// must never reach user-visible output.
func (s *String) ToExposed() string {
	var out strings.Builder
	for _, c := range s.Chunks() {
		out.WriteString(c.Public)
		out.WriteString(c.Redacted)
	}
	return out.String()
}

// Len returns the number of exposed runes (public + redacted), used for
// truthiness (empty string is falsy).
func (s *String) Len() int {
	return len([]rune(s.ToExposed()))
}

// HasRedacted reports whether s contains at least one non-empty redacted
// span.
func (s *String) HasRedacted() bool {
	for _, c := range s.Chunks() {
		if c.Redacted != "" {
			return true
		}
	}
	return false
}

// Equal compares the raw internal encoding of two redacted strings,
// including sentinel placement, so a public "***" never compares equal to
// an actually-redacted span with the same exposed text.
func (s *String) Equal(other *String) bool {
	return s.finalize() == other.finalize()
}

// Plain builds a redacted String containing only public text.
func Plain(text string) *String {
	s := New()
	s.Push(text)
	return s
}
