// Package rulegen converts natural-language rule descriptions into
// structured rules using the AI collaborator.
package rulegen
