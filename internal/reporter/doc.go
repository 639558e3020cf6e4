// Package reporter provides the run.Reporter implementations used by skin.
//
//   - Terminal prints the human-readable report, optionally coloured
//   - JSON writes one canonical JSON event per line
//   - Recorder keeps events in memory for tests and tooling
//   - Multi fans events out to several reporters
package reporter
