package priority

import "github.com/kilianp07/fleetsim/core/model"

// Policy reorders a queue in place.
type Policy interface {
	Sort(queue []model.Job)
}

// Exchange is the default Policy.
type Exchange struct{}

// ShouldSwap reports whether left must move after right according to the
// rule selected by left's flexibility.
func ShouldSwap(left, right model.Job) bool {
	if left.Flexibility == model.Strict {
		return left.Deadline > right.Deadline
	}
	return left.ProfitToTimeRatio < right.ProfitToTimeRatio
}

// Sort swaps adjacent pairs until a pass makes no swap. The scanned prefix
// shrinks by one after every pass, which bounds the number of passes even
// when the positional rule would let two jobs trade places forever.
func (Exchange) Sort(queue []model.Job) {
	n := len(queue)
	for {
		swapped := false
		for i := 1; i < n; i++ {
			if ShouldSwap(queue[i-1], queue[i]) {
				queue[i-1], queue[i] = queue[i], queue[i-1]
				swapped = true
			}
		}
		n--
		if !swapped {
			return
		}
	}
}
