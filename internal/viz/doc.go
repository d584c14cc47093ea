// Package viz renders comparison reports.
//
// Two sinks are provided:
//
//   - [PNGRenderer]: one gonum/plot figure per solution method, the regimes
//     overlaid with distinct dash patterns
//   - [TerminalRenderer]: asciigraph charts with a lipgloss summary table
//
// Both report failures as *dynamo.RenderError.
package viz
