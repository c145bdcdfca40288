// Package ui renders the output of the direct (non-interactive) commands:
// command headers, success and failure boxes, validation messages and the
// product listing. Prompter fills in values a command was not given as
// flags.
//
// The palette and layout helpers are shared with the interactive TUI.
//
// Logging stays silent unless ARTESANATO_LOG_LEVEL is set, so the styled
// output is all the user sees.
package ui
