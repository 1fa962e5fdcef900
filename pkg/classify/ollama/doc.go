// Package ollama implements the classify.Collaborator capability
// against a local Ollama instance's /api/generate endpoint.
package ollama
