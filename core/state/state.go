// Package state defines how the engine snapshot is persisted between runs.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kilianp07/fleetsim/core/factory"
	"github.com/kilianp07/fleetsim/core/model"
)

// ErrNotFound is returned by Load when no blob has been written yet.
var ErrNotFound = errors.New("state not found")

// DeserializationError reports a persisted blob that could not be decoded
// into a consistent state.
type DeserializationError struct {
	Source string
	Err    error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("decode state from %s: %v", e.Source, e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

// Store loads and saves the snapshot blob.
type Store interface {
	Load(ctx context.Context) (model.StateView, error)
	Save(ctx context.Context, v model.StateView) error
	Close() error
}

// Encode serializes v in the persisted layout.
func Encode(v model.StateView) ([]byte, error) {
	return json.Marshal(v.Clone())
}

// Decode parses a persisted blob. Any failure is a *DeserializationError.
func Decode(source string, data []byte) (model.StateView, error) {
	var v model.StateView
	if err := json.Unmarshal(data, &v); err != nil {
		return model.StateView{}, &DeserializationError{Source: source, Err: err}
	}
	return v.Clone(), nil
}

var registry = factory.NewRegistry[Store]()

// Register adds a store factory identified by name.
func Register(name string, f factory.Factory[Store]) error {
	return registry.Register(name, f)
}

// New builds the store described by cfg. An empty type selects "none".
func New(cfg factory.ModuleConfig) (Store, error) {
	if cfg.Type == "" {
		cfg.Type = "none"
	}
	return registry.Create(cfg)
}

// Types lists the registered store types.
func Types() []string { return registry.Types() }
