package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/bracket"
	"github.com/preston-bernstein/nba-playoffs-service/internal/playoffs/roster"
	"github.com/preston-bernstein/nba-playoffs-service/internal/testutil"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestBracketPrintsEverySeries(t *testing.T) {
	out, err := run(t, "bracket", "--seed", "7")
	require.NoError(t, err)

	assert.Contains(t, out, "east-r1-1")
	assert.Contains(t, out, "west-r1-4")
	assert.Contains(t, out, "finals")
	assert.Contains(t, out, "TBD")
}

func TestBracketJSON(t *testing.T) {
	out, err := run(t, "bracket", "-o", "json")
	require.NoError(t, err)

	var view bracket.View
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Len(t, view.Series, 15)
	assert.Nil(t, view.Champion)
}

func TestSeriesPrintsSlots(t *testing.T) {
	out, err := run(t, "series", "east-r1-1")
	require.NoError(t, err)

	assert.Contains(t, out, "east-r1-1")
	assert.Contains(t, out, "game 1")
	assert.Contains(t, out, "game 7")
}

func TestSeriesUnknownID(t *testing.T) {
	_, err := run(t, "series", "nope")
	require.Error(t, err)
}

func TestValidateDefaultRosterIsLegal(t *testing.T) {
	out, err := run(t, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "roster is legal")
}

func TestValidateRejectsInjuredStarter(t *testing.T) {
	r := testutil.LegalRoster("bos")
	r.Players[0].Injured = true
	raw, err := json.Marshal(r)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "roster.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	out, err := run(t, "validate", "--file", path)
	require.Error(t, err)

	rejection, ok := roster.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, roster.KindInjuredStarters, rejection.Kind)
	assert.Contains(t, out, "rejected:")
	assert.Contains(t, out, roster.HintInjuredStarters)
}

func TestSimulateRound(t *testing.T) {
	out, err := run(t, "simulate", "--scope", "round")
	require.NoError(t, err)
	assert.Contains(t, out, "simulated round")
}

func TestSimulateUnknownScope(t *testing.T) {
	_, err := run(t, "simulate", "--scope", "season")
	require.Error(t, err)
}

func TestSimulateFinishCrownsChampion(t *testing.T) {
	out, err := run(t, "simulate", "--finish", "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "champion:")
}

func TestUnknownOutputFormat(t *testing.T) {
	_, err := run(t, "bracket", "-o", "yaml")
	require.Error(t, err)
}
