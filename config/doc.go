// Package config holds the run configuration of the lvdist drivers: grid
// shape, problem size, blocksize, Trmm routing and logging. A Config is read
// from a TOML or YAML file with Load, or built from Default and adjusted by
// command-line flags, and checked with Validate before use.
package config
