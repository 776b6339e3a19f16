// Package hcl provides the concrete HCL implementation of the config.Loader
// interface. It is responsible for parsing the settings file, evaluating its
// expressions against the unit variables, and binding the resulting cty values
// onto config.Settings.
package hcl
