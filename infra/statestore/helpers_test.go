package statestore

import "github.com/kilianp07/fleetsim/core/factory"

func factoryConfig(typ string, conf map[string]any) factory.ModuleConfig {
	return factory.ModuleConfig{Type: typ, Conf: conf}
}
