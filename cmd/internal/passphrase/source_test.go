package passphrase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func scripted(answers ...string) func(string) (string, error) {
	return func(string) (string, error) {
		if len(answers) == 0 {
			return "", errNoTerminal
		}
		next := answers[0]
		answers = answers[1:]
		return next, nil
	}
}

func TestSourceReadsEnvironmentOnce(t *testing.T) {
	t.Setenv("MCASH_TEST_PASS", "hunter2")
	src := NewSource(Options{EnvVar: " MCASH_TEST_PASS "})

	got, err := src.Get()
	require.NoError(t, err)
	require.Equal(t, "hunter2", got)

	t.Setenv("MCASH_TEST_PASS", "changed")
	got, err = src.Get()
	require.NoError(t, err)
	require.Equal(t, "hunter2", got)
}

func TestSourceRejectsBlankEnvironment(t *testing.T) {
	t.Setenv("MCASH_TEST_PASS", "   ")
	_, err := NewSource(Options{EnvVar: "MCASH_TEST_PASS"}).Get()
	require.ErrorContains(t, err, "MCASH_TEST_PASS is set but empty")
}

func TestSourceReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pass")
	require.NoError(t, os.WriteFile(path, []byte(" spaced secret \r\n"), 0o600))

	got, err := NewSource(Options{EnvVar: "MCASH_TEST_UNSET_PASS", File: path}).Get()
	require.NoError(t, err)
	require.Equal(t, " spaced secret ", got)

	t.Setenv("MCASH_TEST_PASS", "from-env")
	got, err = NewSource(Options{EnvVar: "MCASH_TEST_PASS", File: path}).Get()
	require.NoError(t, err)
	require.Equal(t, "from-env", got)

	require.NoError(t, os.WriteFile(path, []byte("\n"), 0o600))
	_, err = NewSource(Options{File: path}).Get()
	require.ErrorContains(t, err, "is empty")
}

func TestSourcePromptConfirmation(t *testing.T) {
	src := NewSource(Options{Confirm: true})
	src.prompt = scripted("s3cret", "s3cret")
	got, err := src.Get()
	require.NoError(t, err)
	require.Equal(t, "s3cret", got)

	src = NewSource(Options{Confirm: true})
	src.prompt = scripted("s3cret", "typo")
	_, err = src.Get()
	require.EqualError(t, err, "passphrases do not match")

	src = NewSource(Options{})
	src.prompt = scripted("  ")
	_, err = src.Get()
	require.EqualError(t, err, "keystore passphrase cannot be empty")
}

func TestSourceWithoutTerminal(t *testing.T) {
	src := NewSource(Options{EnvVar: "MCASH_TEST_UNSET_PASS"})
	src.prompt = scripted()
	_, err := src.Get()
	require.ErrorContains(t, err, "set MCASH_TEST_UNSET_PASS, PassphraseFile, or run interactively")
}
