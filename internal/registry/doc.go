// Package registry provides the central "glue" for the operator system.
//
// The Registry maps the names used in formulas (e.g. "Add" or
// "time_frame_to_seconds") to the operator classes that implement them.
// Classes are grouped into libraries; a name is unique within its library.
//
// Modules populate a registry explicitly at startup through Register. The
// interpreter then asks for the classes of the libraries it wants with
// GetAllOperators, whose results are memoized until
// ClearGetAllOperatorsCache is called.
package registry
