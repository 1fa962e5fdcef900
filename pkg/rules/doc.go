// Package rules defines the rule data model and its file-backed store.
//
// A rule pairs a condition expression (see the condition subpackage)
// with a typed action and a priority. The store keeps two files in step:
// the technical rule set evaluated by the engine, and a parallel list of
// human-readable descriptions surfaced to the approval layer. Loading is
// fail-soft (a missing or corrupt file is an empty rule set) because
// rules are optional on first run and condition validity is only
// discovered at evaluation time.
package rules
