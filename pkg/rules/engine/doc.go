// Package engine decides which action applies to a file by evaluating
// the rule set against the file's resolved variable context.
//
// Evaluation is first-match-wins over rules sorted by descending
// priority; ties preserve storage order. Malformed conditions never
// abort a decision; the offending rule is simply skipped.
package engine
