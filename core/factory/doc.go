// Package factory provides the generic registry used to build pluggable
// modules (state stores, metrics sinks) from configuration. A module is
// described by a type name and a map of raw settings; factories decode the
// settings into typed structs with Decode and return the implementation.
//
//	reg := factory.NewRegistry[state.Store]()
//	_ = reg.Register("file", func(conf map[string]any) (state.Store, error) {
//	    var c struct{ Path string `json:"path"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return statestore.NewFileStore(c.Path)
//	})
//	st, err := reg.Create(factory.ModuleConfig{Type: "file", Conf: map[string]any{"path": "state.json"}})
package factory
