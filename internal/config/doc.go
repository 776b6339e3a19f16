// Package config defines the format-agnostic run settings of the analyzer,
// along with the Loader interface implemented by concrete settings file
// formats.
//
// `config.Settings` is the single source of truth for the `builder`, `report`
// and `app` packages. The HCL implementation lives in the `hcl` package; CLI
// flags are merged on top of a loaded value by the `cli` package.
package config
