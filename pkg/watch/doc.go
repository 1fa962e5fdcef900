// Package watch is the event side of the pipeline: it monitors the
// configured directories, deduplicates creation events, tags new files
// with their source application, and hands each file to the rule
// engine and router.
package watch
