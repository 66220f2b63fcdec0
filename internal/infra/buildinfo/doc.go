// Package buildinfo provides build-time version information for plume-cli.
package buildinfo
