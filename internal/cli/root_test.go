package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the root command with args and returns stdout.
// Diagnostics go to a separate buffer so stdout stays parseable.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "necroledger", cmd.Use)
	assert.Contains(t, cmd.Long, "race-results ledger")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"record"},
		{"results"},
		{"user", "find"},
		{"user", "register"},
		{"user", "import"},
		{"user", "prefs"},
		{"user", "alerts"},
		{"user", "set"},
		{"daily", "create"},
		{"daily", "show"},
		{"daily", "message"},
		{"daily", "register"},
		{"daily", "withdraw"},
		{"daily", "submit"},
		{"daily", "status"},
		{"daily", "times"},
		{"leaderboard", "fastest"},
		{"leaderboard", "most"},
		{"leaderboard", "history"},
		{"leaderboard", "stats"},
		{"leaderboard", "latest"},
		{"rating", "get"},
		{"rating", "set"},
	}

	for _, path := range commands {
		name := path[len(path)-1]
		t.Run(filepath.Join(path...), func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "", dbFlag.DefValue)
}

func TestLeaderboardFlags(t *testing.T) {
	cmd := NewRootCommand()
	fastest, _, err := cmd.Find([]string{"leaderboard", "fastest"})
	require.NoError(t, err)

	limit := fastest.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "20", limit.DefValue)
	assert.NotNil(t, fastest.Flags().Lookup("amplified"))

	alias, _, err := cmd.Find([]string{"lb", "most"})
	require.NoError(t, err)
	assert.Equal(t, "most", alias.Name())
}

func TestInvalidFormat(t *testing.T) {
	_, err := executeCommand(t, "--format", "xml", "--db", filepath.Join(t.TempDir(), "test.db"), "user", "find")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestMissingDatabase(t *testing.T) {
	t.Setenv(EnvDatabase, "")

	_, err := executeCommand(t, "user", "find")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestDatabaseFromEnvironment(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "env.db")
	t.Setenv(EnvDatabase, dbPath)

	_, err := executeCommand(t, "user", "register", "1", "incnone")
	require.NoError(t, err)

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database created at the path from the environment")
}

func TestUnreachableDatabaseIsCommandError(t *testing.T) {
	_, err := executeCommand(t, "--db", "/nonexistent/dir/test.db", "user", "find")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestExecute_Success(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	dbPath := filepath.Join(t.TempDir(), "test.db")

	code := Execute(context.Background(), []string{"--db", dbPath, "user", "register", "1", "incnone"}, stdout, stderr)
	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "Registered 1 as incnone\n", stdout.String())
}

func TestExecute_TextErrorGoesToStderr(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	dbPath := filepath.Join(t.TempDir(), "test.db")

	code := Execute(context.Background(), []string{"--db", dbPath, "results", "zero"}, stdout, stderr)
	assert.Equal(t, ExitCommandError, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), `Error [E008]: invalid race id "zero"`)
}

func TestExecute_JSONErrorEnvelope(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	dbPath := filepath.Join(t.TempDir(), "test.db")

	code := Execute(context.Background(), []string{"--db", dbPath, "--format", "json", "rating", "get", "5"}, stdout, stderr)
	assert.Equal(t, ExitFailure, code)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeGeneric, resp.Error.Code)
	assert.Equal(t, "no rating for 5", resp.Error.Message)
}
