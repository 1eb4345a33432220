package app

import (
	"github.com/specialistvlad/devicefarm/internal/registry"
	"github.com/specialistvlad/devicefarm/modules/device"
	"github.com/specialistvlad/devicefarm/modules/files"
	"github.com/specialistvlad/devicefarm/modules/framework"
	"github.com/specialistvlad/devicefarm/modules/parameters"
	"github.com/specialistvlad/devicefarm/modules/project"
	"github.com/specialistvlad/devicefarm/modules/testrun"
)

// coreModules is the definitive list of all action modules compiled into
// the binary.
func coreModules(cfg *Config) []registry.Module {
	return []registry.Module{
		&project.Module{},
		&framework.Module{},
		&device.Module{},
		&parameters.Module{},
		&files.Module{},
		&testrun.Module{Interval: cfg.PollInterval, Timeout: &cfg.PollTimeout},
	}
}
