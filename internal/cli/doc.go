// Package cli defines the Cobra command tree for the extinstall CLI. Each file
// in this package registers one top-level command (list, install, status, etc.)
// with the root command. Commands delegate to the extension and installer
// packages and only handle flag parsing, output formatting, and prompts.
package cli
