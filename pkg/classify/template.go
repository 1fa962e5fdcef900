package classify

import (
	"context"
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)

// Placeholders returns the variable names referenced by a target
// template, in order of first appearance.
func Placeholders(template string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}

// ResolveTemplate substitutes {variable} placeholders in template using
// vars. This is the narrow second pass, run only against the matched
// rule's template: a placeholder still missing triggers one more
// GenerateValue call, and if that also comes up empty the resolution
// fails with UnresolvedVariableError rather than silently substituting
// an empty string. vars is not modified.
func (r *Resolver) ResolveTemplate(ctx context.Context, template string, vars map[string]string) (string, error) {
	resolved := make(map[string]string, len(vars))
	for k, v := range vars {
		resolved[k] = v
	}

	for _, name := range Placeholders(template) {
		if _, ok := resolved[name]; ok {
			continue
		}
		if r.collab != nil {
			value, err := r.collab.GenerateValue(ctx, name, resolved)
			if err != nil {
				r.logger.Warn("last-mile variable generation failed",
					"variable", name,
					"error", err,
				)
			} else if value = strings.TrimSpace(value); value != "" {
				resolved[name] = value
				continue
			}
		}
		return "", &UnresolvedVariableError{Template: template, Variable: name}
	}

	return placeholderPattern.ReplaceAllStringFunc(template, func(m string) string {
		return resolved[m[1:len(m)-1]]
	}), nil
}
