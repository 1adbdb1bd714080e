package config

import (
	"github.com/tauraamui/dragoneye/internal/config"
	"github.com/tauraamui/dragoneye/pkg/configdef"
)

type Creator interface {
	configdef.Creator
}

func DefaultCreator() Creator {
	return config.DefaultCreator()
}
