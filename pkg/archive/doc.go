// Package archive implements the zip-based compress and extract
// capabilities.
package archive
