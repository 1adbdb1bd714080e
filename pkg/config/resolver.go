package config

import (
	"github.com/tauraamui/dragoneye/internal/config"
	"github.com/tauraamui/dragoneye/pkg/configdef"
)

type Resolver interface {
	configdef.Resolver
}

func DefaultResolver() Resolver {
	return config.DefaultResolver()
}

// EnvKey names the variable that overrides the config file location.
const EnvKey = config.EnvKey
