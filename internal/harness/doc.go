// Package harness runs command scenarios: a YAML file naming a type
// catalog, a world, an actor and a command, plus the expected outcome.
//
// Scenarios run through command.Runner with a fixed invocation id and a
// fresh logical clock, so the same scenario always produces the same
// result. RunWithGolden additionally compares the canonical JSON of the
// outcome against testdata/golden/<name>.golden.
//
// A scenario either evaluates an in-memory world snapshot or, with
// pushdown set, imports the world into a scratch SQLite store and lets the
// runner render portable pipelines as SQL. Both must produce the same
// golden output except for the reported mode.
package harness
