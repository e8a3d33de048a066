package redact_test

import (
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brindlewood/actcore/core/redact"
)

func TestPushAndDisplay(t *testing.T) {
	s := redact.New()
	s.Push("hi ")
	require.NoError(t, s.PushRedacted("s3cret"))
	s.Push(" world")

	require.Equal(t, "hi *** world", s.Display())
	require.Equal(t, "hi s3cret world", s.ToExposed())
}

func TestPushRedactedRejectsNonPrintableASCII(t *testing.T) {
	s := redact.New()
	require.Error(t, s.PushRedacted("bad\nvalue"))
	require.ErrorIs(t, s.PushRedacted("bad\nvalue"), redact.ErrNonPrintableASCII)
	require.Error(t, s.PushRedacted("unicode→"))
}

func TestPushRedactedEmptyIsNoOp(t *testing.T) {
	s := redact.New()
	s.Push("a")
	require.NoError(t, s.PushRedacted(""))
	s.Push("b")
	require.Equal(t, "ab", s.Display())
	require.False(t, s.HasRedacted())
}

func TestDisplayNeverLeaksSentinelsOrSecret(t *testing.T) {
	s := redact.New()
	require.NoError(t, s.PushRedacted("topsecret"))
	out := s.Display()
	require.NotContains(t, out, "topsecret")
	require.NotContains(t, out, "\U000E0001")
	require.NotContains(t, out, "\U000E0002")
}

func TestEqualUsesRawEncoding(t *testing.T) {
	a := redact.New()
	a.Push("x")
	require.NoError(t, a.PushRedacted("y"))

	b := redact.Plain("x***")

	require.False(t, a.Equal(b))
}

func TestLenCountsExposedRunes(t *testing.T) {
	s := redact.New()
	s.Push("ab")
	require.NoError(t, s.PushRedacted("cd"))
	require.Equal(t, 4, s.Len())

	empty := redact.New()
	require.Equal(t, 0, empty.Len())
}

func TestFingerprintDoesNotRevealSecret(t *testing.T) {
	fp := redact.Fingerprint("super-secret-token")
	require.NotContains(t, fp, "super-secret-token")
	require.NotEmpty(t, fp)
	// deterministic
	require.Equal(t, fp, redact.Fingerprint("super-secret-token"))
}

func TestScrubberRedactsVerbatimHexAndBase64(t *testing.T) {
	var out []byte
	sink := &sliceWriter{&out}
	sc := redact.NewScrubber(sink)
	sc.Register("s3cret")

	_, err := sc.Write([]byte("token is s3cret here"))
	require.NoError(t, err)
	hexSecret := hex.EncodeToString([]byte("s3cret"))
	b64Secret := base64.StdEncoding.EncodeToString([]byte("s3cret"))
	_, err = sc.Write([]byte(" hex " + hexSecret + " b64 " + b64Secret))
	require.NoError(t, err)
	require.NoError(t, sc.Flush())
	require.NotContains(t, string(out), "s3cret")
	require.NotContains(t, string(out), hexSecret)
	require.NotContains(t, string(out), b64Secret)
	require.Contains(t, string(out), "***")
}

type sliceWriter struct {
	buf *[]byte
}

func (w *sliceWriter) Write(p []byte) (int, error) {
	*w.buf = append(*w.buf, p...)
	return len(p), nil
}
