package main

import (
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/kilianp07/fleetsim/core/model"
)

// Generator produces random job submissions.
type Generator struct {
	rng        *rand.Rand
	strictPct  float64
	invalidPct float64
	seq        int
}

func NewGenerator(seed int64, strictPct, invalidPct float64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed)), strictPct: strictPct, invalidPct: invalidPct}
}

// Next returns the next job. Processing times are multiples of half a tick.
func (g *Generator) Next() model.JobInput {
	g.seq++
	flex := model.Flexible
	if g.rng.Float64() < g.strictPct {
		flex = model.Strict
	}
	return model.JobInput{
		Name:           fmt.Sprintf("job%04d", g.seq),
		ProcessingTime: float64(1+g.rng.Intn(10)) / 2,
		Profit:         float64(1 + g.rng.Intn(20)),
		Deadline:       float64(1 + g.rng.Intn(30)),
		Flexibility:    flex,
	}
}

// Payload returns the wire form of the next submission. A share of the
// payloads drops the profit field so the rejection path sees traffic.
func (g *Generator) Payload() ([]byte, error) {
	in := g.Next()
	body := map[string]any{
		"name":           in.Name,
		"processingTime": in.ProcessingTime,
		"profit":         in.Profit,
		"deadline":       in.Deadline,
		"flexibility":    in.Flexibility,
	}
	if g.rng.Float64() < g.invalidPct {
		delete(body, "profit")
	}
	return json.Marshal(body)
}
