// Package output provides output formatting for plume-cli.
//
// This package handles all CLI output formatting:
//
//   - formatter.go: Formatter interface and factory
//   - table.go: Table rendering with wide mode support
//   - json.go: JSON output formatting
//   - yaml.go: YAML output formatting
//   - spinner.go: Progress animation for network operations
//
// Formatters support multiple output formats (table, json, yaml), a
// wide mode for additional columns, and machine-readable output for
// scripting.
package output
