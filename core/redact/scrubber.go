package redact

import (
	"encoding/base64"
	"encoding/hex"
	"io"
	"strings"
	"sync"
)

// Scrubber wraps an io.Writer (typically a child process's stdout/stderr)
// and redacts any registered secret that reaches the stream verbatim,
// hex-encoded, or base64-encoded. This is defense in depth on top of the
// structural redacted-string contract: it only matters for secrets that
// escape the Value tree, such as a child process echoing an env var it
// received.
type Scrubber struct {
	mu      sync.Mutex
	w       io.Writer
	needles []string
	carry   []byte
}

// NewScrubber wraps w; secrets can be registered before or during writes
// via Register.
func NewScrubber(w io.Writer) *Scrubber {
	return &Scrubber{w: w}
}

// Register adds secret (and its hex/base64 encodings) to the redaction
// set. Safe to call concurrently with Write.
func (s *Scrubber) Register(secret string) {
	if secret == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.needles = appendUnique(s.needles, secret)
	s.needles = appendUnique(s.needles, hex.EncodeToString([]byte(secret)))
	s.needles = appendUnique(s.needles, base64.StdEncoding.EncodeToString([]byte(secret)))
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

// longestNeedle bounds how much of a previous write we must carry forward
// so a needle split across two Write calls is still caught.
func (s *Scrubber) longestNeedle() int {
	max := 0
	for _, n := range s.needles {
		if len(n) > max {
			max = len(n)
		}
	}
	return max
}

// Write implements io.Writer, scrubbing registered secrets before they
// reach the wrapped writer.
func (s *Scrubber) Write(p []byte) (int, error) {
	s.mu.Lock()
	needles := make([]string, len(s.needles))
	copy(needles, s.needles)
	keep := s.longestNeedle() - 1
	buf := append(s.carry, p...)
	s.mu.Unlock()

	if len(needles) == 0 {
		n, err := s.w.Write(p)
		return n, err
	}

	scrubbed := buf
	for _, needle := range needles {
		if needle == "" {
			continue
		}
		scrubbed = []byte(strings.ReplaceAll(string(scrubbed), needle, "***"))
	}

	if keep < 0 {
		keep = 0
	}
	flush := scrubbed
	var carry []byte
	if keep > 0 && len(scrubbed) > keep {
		flush = scrubbed[:len(scrubbed)-keep]
		carry = append(carry, scrubbed[len(scrubbed)-keep:]...)
	} else if keep > 0 {
		flush = nil
		carry = scrubbed
	}

	s.mu.Lock()
	s.carry = carry
	s.mu.Unlock()

	if len(flush) == 0 {
		return len(p), nil
	}
	if _, err := s.w.Write(flush); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Flush writes any carried-over partial match verbatim; call once at
// stream close so the last few bytes of output are not silently dropped.
func (s *Scrubber) Flush() error {
	s.mu.Lock()
	carry := s.carry
	s.carry = nil
	s.mu.Unlock()
	if len(carry) == 0 {
		return nil
	}
	_, err := s.w.Write(carry)
	return err
}
