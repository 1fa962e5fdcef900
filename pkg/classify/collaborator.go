package classify

import "context"

// WindowInfo is the provenance captured when a file appears: the process
// that owned the foreground window and that window's title.
type WindowInfo struct {
	ProcessName string
	WindowTitle string
}

// Collaborator is the external AI capability the resolver consults for
// values it cannot derive locally. Implementations are synchronous and
// expected to bound each call with their own timeout; the resolver
// treats every failure as recoverable and substitutes a safe default.
//
// The core must not depend on any particular backend's request or
// response shape, only on these calls.
type Collaborator interface {
	// ClassifyApplication labels the source application given its
	// process name and window title, choosing from categories.
	ClassifyApplication(ctx context.Context, processName, windowTitle string, categories []string) (string, error)

	// ClassifyImage labels a file by its image content, choosing from
	// categories.
	ClassifyImage(ctx context.Context, imagePath string, categories []string) (string, error)

	// AnalyzeWindowTitle extracts the game name from a window title.
	AnalyzeWindowTitle(ctx context.Context, title string) (string, error)

	// GenerateValue produces a value for an arbitrary template variable
	// from the file's context.
	GenerateValue(ctx context.Context, name string, vars map[string]string) (string, error)
}

// FallbackLabel is substituted whenever classification fails or the
// collaborator is unavailable.
const FallbackLabel = "other"
