// Package hcl provides the HCL implementation of config.Loader. It is
// responsible for file discovery and parsing, type expressions, and the
// translation of decoded blocks into the format-agnostic model.
package hcl
