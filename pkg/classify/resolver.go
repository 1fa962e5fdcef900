package classify

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"tidy-hq/vesta/pkg/rules"
)

// Resolver assembles the variable context a rule condition is evaluated
// against. Built-ins come straight from the path and window provenance;
// everything else is filled by the Collaborator, degrading to safe
// defaults on failure.
type Resolver struct {
	collab Collaborator
	logger *slog.Logger
}

// NewResolver creates a resolver. collab may be nil, in which case every
// AI-derived variable falls back to its default. That is the mode used
// by tests and by runs without a classifier backend.
func NewResolver(collab Collaborator, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		collab: collab,
		logger: logger.With("component", "classify.resolver"),
	}
}

// Resolve builds the full context for one file: built-ins, the
// classifier-derived source_category and category, and any variables the
// rule set's templates reference that are not yet present.
//
// Classification failures never propagate; they degrade to the fallback
// label so routing can continue.
func (r *Resolver) Resolve(ctx context.Context, path string, win WindowInfo, ruleSet []rules.Rule) map[string]string {
	vars := map[string]string{
		"filename":     filepath.Base(path),
		"filetype":     strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")),
		"source_app":   win.ProcessName,
		"window_title": win.WindowTitle,
	}
	if vars["source_app"] == "" {
		vars["source_app"] = "unknown"
	}

	categories := rules.Categories(ruleSet)
	vars["source_category"] = r.classifyApplication(ctx, win, categories)
	vars["category"] = r.determineCategory(ctx, path, vars["source_category"], categories)

	r.fillTemplateVariables(ctx, path, ruleSet, vars)
	return vars
}

func (r *Resolver) classifyApplication(ctx context.Context, win WindowInfo, categories []string) string {
	if r.collab == nil {
		return FallbackLabel
	}
	label, err := r.collab.ClassifyApplication(ctx, win.ProcessName, win.WindowTitle, categories)
	if err != nil {
		r.logger.Warn("application classification failed, using fallback",
			"process", win.ProcessName,
			"error", err,
		)
		return FallbackLabel
	}
	return normalizeLabel(label)
}

// determineCategory computes the final category. Browser-sourced files
// are re-classified from image content: the process name alone says
// nothing about what a browser screenshot actually shows.
func (r *Resolver) determineCategory(ctx context.Context, path, sourceCategory string, categories []string) string {
	if sourceCategory != "browser" {
		return sourceCategory
	}
	if r.collab == nil {
		return FallbackLabel
	}
	label, err := r.collab.ClassifyImage(ctx, path, categories)
	if err != nil {
		r.logger.Warn("image classification failed, using fallback",
			"path", path,
			"error", err,
		)
		return FallbackLabel
	}
	return normalizeLabel(label)
}

// fillTemplateVariables scans every rule's target template for
// placeholders missing from vars and fills them: well-known names get
// dedicated classifier sub-calls, anything else goes through
// GenerateValue. This is the broad pass; ResolveTemplate performs the
// narrow template-specific pass later.
func (r *Resolver) fillTemplateVariables(ctx context.Context, path string, ruleSet []rules.Rule, vars map[string]string) {
	required := make(map[string]struct{})
	for _, rule := range ruleSet {
		for _, name := range Placeholders(rule.Action.TargetPath) {
			if _, ok := vars[name]; !ok {
				required[name] = struct{}{}
			}
		}
	}
	if len(required) == 0 || r.collab == nil {
		return
	}

	for name := range required {
		switch name {
		case "game_name":
			title := vars["window_title"]
			value, err := r.collab.AnalyzeWindowTitle(ctx, title)
			if err != nil {
				r.logger.Warn("window title analysis failed", "error", err)
				continue
			}
			vars[name] = normalizeLabel(value)

		case "content_type":
			value, err := r.collab.ClassifyImage(ctx, path, nil)
			if err != nil {
				r.logger.Warn("content type analysis failed", "path", path, "error", err)
				continue
			}
			vars[name] = normalizeLabel(value)

		default:
			value, err := r.collab.GenerateValue(ctx, name, vars)
			if err != nil {
				r.logger.Warn("variable generation failed", "variable", name, "error", err)
				continue
			}
			if value = strings.TrimSpace(value); value != "" {
				vars[name] = value
			}
		}
	}
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
