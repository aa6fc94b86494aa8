// Package catalog loads simulation inputs from disk: statute catalogs
// written in CUE and population rosters written in YAML.
//
// CUE gives statute authors schema checking and file composition for
// free; the compiler here only has to map the evaluated value onto the
// law package's condition and effect types. All loader errors carry a
// stable E-prefixed code and, where available, a source position.
package catalog
