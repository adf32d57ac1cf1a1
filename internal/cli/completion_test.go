package cli

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execCompletion(shell string) (string, error) {
	stdout := new(bytes.Buffer)
	cmd := completionCmd
	cmd.SetOut(stdout)
	err := runCompletion(cmd, shell)
	return stdout.String(), err
}

func TestCompletionShells(t *testing.T) {
	for _, shell := range validShells {
		stdout, err := execCompletion(shell)
		assert.NoError(t, err, shell)
		assert.Contains(t, stdout, "tripbtoz", shell)
	}
}

func TestCompletionInvalidShell(t *testing.T) {
	_, err := execCompletion("invalid")
	assert.ErrorContains(t, err, "unsupported shell: invalid")
}

func TestCompletionAutoDetect(t *testing.T) {
	t.Setenv("SHELL", "/bin/zsh")
	stdout := new(bytes.Buffer)
	cmd := newCompletionCmd()
	cmd.SetOut(stdout)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.NotEmpty(t, stdout.String())
}

func TestCompletionAutoDetectUnknown(t *testing.T) {
	t.Setenv("SHELL", "/bin/csh")
	cmd := newCompletionCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	assert.ErrorContains(t, err, "could not detect shell")
}

func TestFlagCompletions(t *testing.T) {
	fn, ok := searchCmd.GetFlagCompletionFunc("check-in")
	require.True(t, ok)
	values, directive := fn(searchCmd, nil, "")
	assert.Contains(t, values, "tomorrow")
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)

	fn, ok = serveCmd.GetFlagCompletionFunc("log-level")
	require.True(t, ok)
	values, _ = fn(serveCmd, nil, "")
	assert.Equal(t, logLevels, values)
}
