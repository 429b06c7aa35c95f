package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}
	require.NoError(t, f.Success(map[string]any{"id": "abc"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}
	require.NoError(t, f.Error("VALIDATION", "bad recipient"))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION", resp.Error.Code)
}

func TestOutputFormatter_TextError(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}
	require.NoError(t, f.Error("SERVER", "try later"))
	assert.Contains(t, buf.String(), "Error [SERVER]: try later")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf, Verbose: false}
	f.VerboseLog("hidden %d", 1)
	assert.Empty(t, buf.String())

	f.Verbose = true
	f.VerboseLog("shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "bad flag", nil)))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestFilterFlags_Parse(t *testing.T) {
	ff := filterFlags{from: "2025-12-05", to: "2025-12-07", event: "market"}
	f, err := ff.parse()
	require.NoError(t, err)
	require.NotNil(t, f.Start)
	require.NotNil(t, f.End)
	assert.Equal(t, "market", f.EventID)
	assert.Equal(t, 5, f.Start.Day())
}

func TestFilterFlags_BadDate(t *testing.T) {
	ff := filterFlags{from: "05.12.2025"}
	_, err := ff.parse()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRootCommand_RejectsUnknownFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "xml", "catalog", "list"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
