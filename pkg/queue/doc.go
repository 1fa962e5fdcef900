// Package queue implements the durable file-backed mailboxes between
// the background watcher and the foreground approval step.
//
// Each queue is one JSON file with rewrite-whole-file semantics and an
// explicit single-writer discipline (a per-queue in-process mutex; there
// is no cross-process locking, a known limitation of the single-host
// model). The typed Queue[T] contract is Load / Append / ReplaceAll.
// The package also owns the ProcessedSet used for creation-event
// deduplication.
package queue
