// Package metrics exposes prometheus collectors for the watcher,
// router, classifier and deletion scheduler. All recording methods are
// nil-receiver safe so components can run without a registry in tests.
package metrics
