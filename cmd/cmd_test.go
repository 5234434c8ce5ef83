package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetsim/core/model"
	"github.com/kilianp07/fleetsim/core/stats"
	"github.com/kilianp07/fleetsim/infra/statestore"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		simulateFormat = "table"
		cfgPath = "config.yaml"
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSimulateScenario(t *testing.T) {
	out, err := execute(t, "simulate", "../qa/scenarios/basic.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "completed 2")
}

func TestSimulateFailedExpectation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`name: wrong
vehicles: 1
ticks: 1
jobs:
  - {at_tick: 0, name: a, processing_time: 0.5, profit: 1, deadline: 1, flexibility: strict}
expected:
  completed: []
`), 0o600))
	_, err := execute(t, "simulate", "--format", "json", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrong")
}

func TestSimulateCSV(t *testing.T) {
	out, err := execute(t, "simulate", "-f", "csv", "../qa/scenarios/basic.yaml")
	require.NoError(t, err)
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 4)
	assert.Equal(t, "id", rows[0][0])
}

func TestStateShow(t *testing.T) {
	dir := t.TempDir()
	statePath := filepath.Join(dir, "state.json")
	store, err := statestore.NewFileStore(statePath)
	require.NoError(t, err)
	job, err := model.NewJob("j1", model.JobInput{Name: "a", ProcessingTime: 2, Profit: 4, Deadline: 3, Flexibility: model.Flexible})
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), model.StateView{FreeVehicles: 2, Queued: []model.Job{job}}))

	cfgFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("state:\n  type: file\n  conf:\n    path: "+statePath+"\n"), 0o600))

	out, err := execute(t, "state", "show", "-c", cfgFile)
	require.NoError(t, err)
	var v model.StateView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, 2, v.FreeVehicles)
	require.Len(t, v.Queued, 1)
	assert.Equal(t, "j1", v.Queued[0].ID)

	out, err = execute(t, "state", "stats", "-c", cfgFile)
	require.NoError(t, err)
	var s stats.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 1, s.Queued)
	assert.Equal(t, 4.0, s.PendingProfit)
}

func TestStateShowEmptyStore(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("state:\n  type: memory\n"), 0o600))
	_, err := execute(t, "state", "show", "-c", cfgFile)
	assert.Error(t, err)
}
