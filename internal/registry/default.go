package registry

import "github.com/specialistvlad/burstdsl/internal/operator"

// Default is the process-wide registry used by the package-level helpers.
var Default = New()

// Register adds classes to the Default registry.
func Register(classes ...*operator.Class) {
	Default.Register(classes...)
}

// GetAllOperators queries the Default registry.
func GetAllOperators(libraries ...string) []*operator.Class {
	return Default.GetAllOperators(libraries...)
}

// ClearGetAllOperatorsCache clears the Default registry's memo.
func ClearGetAllOperatorsCache() {
	Default.ClearGetAllOperatorsCache()
}
