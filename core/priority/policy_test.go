package priority

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/fleetsim/core/model"
)

func names(jobs []model.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.Name
	}
	return out
}

func strict(name string, deadline float64) model.Job {
	return model.Job{Name: name, Flexibility: model.Strict, Deadline: deadline, ProcessingTime: 1}
}

func flexible(name string, profit, time float64) model.Job {
	return model.Job{Name: name, Flexibility: model.Flexible, Profit: profit, ProcessingTime: time, ProfitToTimeRatio: profit / time}
}

func TestExchangeStrictEarliestDeadlineFirst(t *testing.T) {
	q := []model.Job{strict("d10", 10), strict("d5", 5), strict("d20", 20)}
	Exchange{}.Sort(q)
	assert.Equal(t, []string{"d5", "d10", "d20"}, names(q))
}

func TestExchangeFlexibleHighestRatioFirst(t *testing.T) {
	q := []model.Job{flexible("r1", 10, 10), flexible("r5", 50, 10), flexible("r3", 30, 10)}
	Exchange{}.Sort(q)
	assert.Equal(t, []string{"r5", "r3", "r1"}, names(q))
}

func TestExchangeTiesKeepSubmissionOrder(t *testing.T) {
	c, d := flexible("c", 10, 1), flexible("d", 10, 1)
	c.Deadline, d.Deadline = 10, 10
	q := []model.Job{strict("a", 5), strict("b", 5), c, d}
	Exchange{}.Sort(q)
	assert.Equal(t, []string{"a", "b", "c", "d"}, names(q))
}

// F1 is flexible with ratio 10 and sits left of S1, so F1's ratio rule decides.
func TestExchangeMixedFlexibleLeftOfStrict(t *testing.T) {
	f1 := flexible("F1", 100, 10)
	s1 := strict("S1", 1)
	s1.Profit, s1.ProcessingTime, s1.ProfitToTimeRatio = 10, 10, 1

	q := []model.Job{f1, s1}
	Exchange{}.Sort(q)
	assert.Equal(t, []string{"F1", "S1"}, names(q), "S1 has the earlier deadline but F1's ratio rule keeps it first")

	s1.Profit, s1.ProfitToTimeRatio = 500, 50
	q = []model.Job{f1, s1}
	Exchange{}.Sort(q)
	assert.Equal(t, []string{"S1", "F1"}, names(q), "a higher ratio on S1 makes F1 move after it")
}

// A strict job whose deadline is later than a flexible neighbour with a lower
// ratio would trade places forever without the shrinking pass bound.
func TestExchangeTerminatesOnPositionalCycle(t *testing.T) {
	a := strict("A", 5)
	a.Profit, a.ProcessingTime, a.ProfitToTimeRatio = 2, 1, 2
	b := flexible("B", 1, 1)
	b.Deadline = 1

	assert.True(t, ShouldSwap(a, b))
	assert.True(t, ShouldSwap(b, a))

	q := []model.Job{a, b}
	Exchange{}.Sort(q)
	assert.Equal(t, []string{"B", "A"}, names(q))
}

func TestExchangeDiffersFromKeySort(t *testing.T) {
	// Deadline-then-ratio key ordering would put S2 first; the exchange
	// procedure never compares S2 with the flexible head by deadline.
	f := flexible("F", 10, 1)
	f.Deadline = 100
	s1 := strict("S1", 50)
	s2 := strict("S2", 1)

	q := []model.Job{f, s1, s2}
	Exchange{}.Sort(q)
	assert.Equal(t, []string{"F", "S2", "S1"}, names(q))
}

func TestExchangeEmptyAndSingle(t *testing.T) {
	Exchange{}.Sort(nil)
	q := []model.Job{strict("only", 1)}
	Exchange{}.Sort(q)
	assert.Equal(t, []string{"only"}, names(q))
}
