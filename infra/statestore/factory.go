// Package statestore implements the persisted state backends.
package statestore

import (
	"github.com/kilianp07/fleetsim/core/factory"
	"github.com/kilianp07/fleetsim/core/state"
)

// init registers built-in state stores.
func init() {
	_ = state.Register("none", func(map[string]any) (state.Store, error) {
		return NopStore{}, nil
	})
	_ = state.Register("memory", func(map[string]any) (state.Store, error) {
		return NewMemoryStore(), nil
	})
	_ = state.Register("file", func(conf map[string]any) (state.Store, error) {
		var c struct {
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			c.Path = "state.json"
		}
		return NewFileStore(c.Path)
	})
	_ = state.Register("redis", func(conf map[string]any) (state.Store, error) {
		var c struct {
			URL string `json:"url"`
			Key string `json:"key"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewRedisStore(c.URL, c.Key)
	})
}
