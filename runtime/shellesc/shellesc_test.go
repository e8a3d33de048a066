package shellesc_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/brindlewood/actcore/runtime/shellesc"
)

func TestBashEscapesEmbeddedQuote(t *testing.T) {
	require.Equal(t, `'it'\''s'`, shellesc.Bash{}.Escape("it's"))
}

func TestPowerShellEscapesEmbeddedQuote(t *testing.T) {
	require.Equal(t, `'it''s'`, shellesc.PowerShell{}.Escape("it's"))
}

func TestForShellFallsBackToBash(t *testing.T) {
	require.IsType(t, shellesc.Bash{}, shellesc.ForShell("zsh"))
	require.IsType(t, shellesc.PowerShell{}, shellesc.ForShell("pwsh"))
}
