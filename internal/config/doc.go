// Package config defines the format-agnostic model of a formula file set:
// the feeds that supply external values and the formulas computed from
// them, along with the Loader interface implemented by concrete formats.
//
// The `config.Model` is the single source of truth for the `app` package.
// The HCL implementation lives in internal/hcl.
package config
