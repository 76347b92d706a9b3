// Package ui renders recommendation results and pipeline progress for the terminal.
//
// Styling comes from a [Palette] of lipgloss styles. The package-level functions use the default
// palette; output degrades to plain text when the terminal has no color support.
package ui
