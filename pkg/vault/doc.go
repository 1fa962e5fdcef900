// Package vault provides the file encryption capability behind the
// encrypt and decrypt queues.
package vault
