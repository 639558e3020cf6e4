package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuncsText(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewFuncsCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	names := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Contains(t, names, "len")
	assert.Contains(t, names, "contains")
	assert.IsIncreasing(t, names)
}

func TestFuncsJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewFuncsCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string      `json:"status"`
		Data   FuncsResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Contains(t, resp.Data.Funcs, "duration")
}
