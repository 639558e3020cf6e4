package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var checksTestdata = filepath.Join("..", "checks", "testdata")

func executeCheck(t *testing.T, opts *RootOptions, args ...string) (string, string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd := NewCheckCommand(opts)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append([]string{}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCheckPassingFile(t *testing.T) {
	out, _, err := executeCheck(t, &RootOptions{Format: "text", Color: "never"},
		filepath.Join(checksTestdata, "service.check.yaml"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "service config\n"), out)
	assert.Contains(t, out, "  ✓ config['server']['port'] equals 8080\n")
	assert.Contains(t, out, "  ✓ int('abc') raises NumError\n")
	assert.Contains(t, out, "Ran 8 tests in ")
	assert.Contains(t, out, "(successful=8, failed=0, errors=0)")
	assert.NotContains(t, out, "\x1b[")
}

func TestCheckFailingFile(t *testing.T) {
	out, _, err := executeCheck(t, &RootOptions{Format: "text", Color: "never"},
		filepath.Join(checksTestdata, "failing.check.json"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "4 of 4 checks did not pass")

	assert.Contains(t, out, "  ✗ value['a'] doesn't equal 2\n")
	assert.Contains(t, out, "  \"value['missing']\" raised a KeyError. Traceback:\n")
	assert.Contains(t, out, "(successful=0, failed=2, errors=2)")
	assert.NotContains(t, out, "int64", "diffs are shown only in verbose mode")
}

func TestCheckVerboseShowsDiff(t *testing.T) {
	out, stderr, err := executeCheck(t, &RootOptions{Format: "text", Color: "never", Verbose: true},
		filepath.Join(checksTestdata, "failing.check.json"))
	require.Error(t, err)

	assert.Contains(t, out, "  ✗ value['a'] doesn't equal 2\n    ")
	assert.Contains(t, out, "int64")
	assert.Contains(t, stderr, "Found 1 check file(s)")
	assert.Contains(t, stderr, "assertion failed")
}

func TestCheckJSONFormat(t *testing.T) {
	out, _, err := executeCheck(t, &RootOptions{Format: "json"},
		filepath.Join(checksTestdata, "service.check.yaml"))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 10) // subject, 8 outcomes, finished

	var first, last map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &last))

	assert.Equal(t, "subject", first["event"])
	assert.Equal(t, "service config", first["name"])
	assert.Equal(t, "finished", last["event"])
	assert.Equal(t, float64(8), last["successful"])
	assert.Equal(t, true, last["was_successful"])
	assert.NotEmpty(t, last["run_id"])
}

func TestCheckReportFile(t *testing.T) {
	report := filepath.Join(t.TempDir(), "report.jsonl")

	out, _, err := executeCheck(t, &RootOptions{Format: "text", Color: "never", ReportFile: report},
		filepath.Join(checksTestdata, "cue", "inline.check.cue"))
	require.NoError(t, err)
	assert.Contains(t, out, "  ✓ svc['port'] equals 8080\n")

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], `"message":"svc['port'] equals 8080"`)
	assert.Contains(t, lines[3], `"event":"finished"`)
}

func TestCheckReportFileUnwritable(t *testing.T) {
	report := filepath.Join(t.TempDir(), "missing", "report.jsonl")

	_, _, err := executeCheck(t, &RootOptions{Format: "text", Color: "never", ReportFile: report},
		filepath.Join(checksTestdata, "service.check.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCheckFilter(t *testing.T) {
	out, _, err := executeCheck(t, &RootOptions{Format: "text", Color: "never"},
		checksTestdata, "--filter", "service*")
	require.NoError(t, err)
	assert.Contains(t, out, "Ran 8 tests in ")
	assert.NotContains(t, out, "failing")
}

func TestCheckLoadErrors(t *testing.T) {
	_, stderr, err := executeCheck(t, &RootOptions{Format: "text", Color: "never"},
		filepath.Join(checksTestdata, "invalid"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "3 check file(s) could not be loaded")

	assert.Contains(t, stderr, "Error [E004]")
	assert.Contains(t, stderr, "typo.check.yaml")
	assert.Contains(t, stderr, "both.check.yaml")
}

func TestCheckLoadErrorsJSONCarryRunID(t *testing.T) {
	out, stderr, err := executeCheck(t, &RootOptions{Format: "json"},
		filepath.Join(checksTestdata, "invalid", "typo.check.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var finished map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out)), &finished))
	assert.Equal(t, "finished", finished["event"])

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(stderr)), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeLoadFailed, resp.Error.Code)
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, finished["run_id"], resp.RunID)
}

func TestCheckNonExistentPath(t *testing.T) {
	_, stderr, err := executeCheck(t, &RootOptions{Format: "text"}, "/nonexistent/checks")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E005")
	assert.Contains(t, stderr, "path not found")
}

func TestCheckEmptyDirectory(t *testing.T) {
	_, _, err := executeCheck(t, &RootOptions{Format: "text"}, t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E003")
}

func TestCheckRequiresPath(t *testing.T) {
	_, _, err := executeCheck(t, &RootOptions{Format: "text"})
	require.Error(t, err)
}
