// Package classify resolves the per-file variable context rules are
// evaluated against, consulting an external AI collaborator for values
// that cannot be derived locally.
//
// Resolution is staged. The broad pass builds built-ins and fills every
// placeholder any rule template references, so expensive collaborator
// calls happen once per file. The narrow pass (ResolveTemplate) runs
// later against the matched rule's specific template and is the only
// place a missing variable becomes a hard error.
package classify
