package app

import (
	"github.com/specialistvlad/burstdsl/internal/registry"
	"github.com/specialistvlad/burstdsl/modules/arithmetic"
	"github.com/specialistvlad/burstdsl/modules/collections"
	"github.com/specialistvlad/burstdsl/modules/comparison"
	"github.com/specialistvlad/burstdsl/modules/env_vars"
	"github.com/specialistvlad/burstdsl/modules/feeds"
	"github.com/specialistvlad/burstdsl/modules/logic"
	"github.com/specialistvlad/burstdsl/modules/mathfuncs"
	"github.com/specialistvlad/burstdsl/modules/timeframe"
)

// coreModules is the definitive list of all modules that are compiled into
// the burstdsl binary.
var coreModules = []registry.Module{
	&arithmetic.Module{},
	&comparison.Module{},
	&logic.Module{},
	&collections.Module{},
	&mathfuncs.Module{},
	&timeframe.Module{},
	&env_vars.Module{},
	&feeds.Module{},
}
