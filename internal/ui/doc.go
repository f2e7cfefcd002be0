// Package ui renders the styled, run-once output of the mini subcommands.
//
// Everything here is built with Lipgloss and written through a Printer. The
// chat screen itself is drawn by package render; this package only serves
// commands that print and exit (scan, config, version, setup results).
//
// # Components
//
//   - Header: command banner with ordered key/value details
//   - Success and error boxes, the latter with troubleshooting tips
//   - Relay table for discovered relays
//
// # Usage Pattern
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader("Relay Scan", "mini scan", []ui.Detail{{Key: "Timeout", Value: "5s"}})
//	p.PrintRelays(relays)
//
// Widths come from golang.org/x/term and are clamped between
// MinTerminalWidth and MaxContentWidth so boxes stay readable when stdout is
// not a terminal.
package ui
