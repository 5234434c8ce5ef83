package jobstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fleetsim/core/model"
)

func job(name string, time float64) model.Job {
	return model.Job{Name: name, ProcessingTime: time, Flexibility: model.Strict}
}

func TestSubmitSortsQueue(t *testing.T) {
	s := New(nil)
	for _, d := range []float64{10, 5, 20} {
		j := job("d", 1)
		j.Deadline = d
		s.Submit(j)
	}
	snap := s.Snapshot()
	require.Len(t, snap.Queued, 3)
	assert.Equal(t, 5.0, snap.Queued[0].Deadline)
	assert.Equal(t, 10.0, snap.Queued[1].Deadline)
	assert.Equal(t, 20.0, snap.Queued[2].Deadline)
	assert.Empty(t, snap.Ongoing)
	assert.Empty(t, snap.Completed)
}

func TestPromoteNeedsVehicleAndJob(t *testing.T) {
	s := New(nil)
	_, ok := s.Promote()
	assert.False(t, ok)

	s.Submit(job("a", 1))
	_, ok = s.Promote()
	assert.False(t, ok, "no vehicle available")

	assert.Equal(t, 1, s.AddVehicle())
	j, ok := s.Promote()
	require.True(t, ok)
	assert.Equal(t, "a", j.Name)
	assert.Equal(t, 0, s.FreeVehicles())
}

func TestCollectCompletedKeepsOrder(t *testing.T) {
	s := New(nil)
	s.AddVehicle()
	s.AddVehicle()
	s.AddVehicle()
	for _, j := range []model.Job{job("a", 1), job("b", 3), job("c", 1)} {
		s.Submit(j)
		_, ok := s.Promote()
		require.True(t, ok)
	}
	s.Advance(1)
	done := s.CollectCompleted()
	require.Len(t, done, 2)
	assert.Equal(t, "a", done[0].Name)
	assert.Equal(t, "c", done[1].Name)

	snap := s.Snapshot()
	assert.Equal(t, 2, snap.FreeVehicles)
	require.Len(t, snap.Ongoing, 1)
	assert.Equal(t, "b", snap.Ongoing[0].Name)
	assert.Len(t, snap.Completed, 2)
}

func TestSnapshotIsCopy(t *testing.T) {
	s := New(nil)
	s.Submit(job("a", 1))
	snap := s.Snapshot()
	snap.Queued[0].Name = "mutated"
	assert.Equal(t, "a", s.Snapshot().Queued[0].Name)
	assert.Equal(t, s.Snapshot(), s.Snapshot())
}

func TestRestoreRejectsInconsistentState(t *testing.T) {
	s := New(nil)
	s.AddVehicle()
	bad := []model.StateView{
		{FreeVehicles: -1},
		{Queued: []model.Job{{Name: "x", ProcessingTime: 0, Flexibility: model.Strict}}},
		{Ongoing: []model.Job{{Name: "x", ProcessingTime: 1, ProcessingTimeCompleted: 1, Flexibility: model.Strict}}},
		{Completed: []model.Job{{Name: "x", ProcessingTime: 1, Flexibility: model.Strict}}},
		{Queued: []model.Job{{Name: "x", ProcessingTime: 1, Flexibility: "other"}}},
	}
	for _, v := range bad {
		assert.Error(t, s.Restore(v))
	}
	assert.Equal(t, 1, s.FreeVehicles(), "failed restore must not change state")
}

func TestRestoreSeedsState(t *testing.T) {
	s := New(nil)
	v := model.StateView{
		FreeVehicles: 2,
		Queued:       []model.Job{job("q", 1)},
		Ongoing:      []model.Job{{Name: "o", ProcessingTime: 2, ProcessingTimeCompleted: 1, Flexibility: model.Flexible}},
		Completed:    []model.Job{{Name: "c", ProcessingTime: 1, ProcessingTimeCompleted: 1.5, Flexibility: model.Flexible}},
	}
	require.NoError(t, s.Restore(v))
	assert.Equal(t, v, s.Snapshot())
}

func TestCountsAndPosition(t *testing.T) {
	s := New(nil)
	s.AddVehicle()
	for _, n := range []string{"a", "b"} {
		j, err := model.NewJob(n, model.JobInput{Name: n, ProcessingTime: 1, Profit: 1, Deadline: 5, Flexibility: model.Strict})
		require.NoError(t, err)
		s.Submit(j)
	}
	_, ok := s.Promote()
	require.True(t, ok)
	assert.Equal(t, Counts{Queued: 1, Ongoing: 1}, s.Counts())
	assert.Equal(t, 0, s.Position(s.Snapshot().Queued[0].ID))
	assert.Equal(t, -1, s.Position("missing"))
}
