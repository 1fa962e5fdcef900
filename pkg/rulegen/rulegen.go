package rulegen

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"tidy-hq/vesta/pkg/rules"
)

// Completer produces a text completion for a prompt. The Ollama client
// satisfies this.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generator turns a natural-language description into a structured
// rule via the AI collaborator.
type Generator struct {
	completer Completer
	logger    *slog.Logger
}

// New creates a generator.
func New(completer Completer, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		completer: completer,
		logger:    logger.With("component", "rulegen"),
	}
}

const promptTemplate = `Convert this file sorting rule description into a JSON rule.

Description: %s

Respond with ONLY a JSON object in this exact format:
{
  "condition": "<boolean expression over variables like filetype, category, source_app, using ==, !=, and, or, not>",
  "action": {
    "type": "<one of: move, copy, delete, encrypt, decrypt, compress, extract, no_action>",
    "target_path": "<target path template, may contain {placeholders}; empty if not applicable>",
    "time": "<retention like '3 days' for delete actions; empty otherwise>"
  },
  "priority": <integer, higher runs first>
}`

// Generate produces a rule from text. It returns the rule together
// with the original description, which is stored alongside the rule
// for display.
func (g *Generator) Generate(ctx context.Context, text string) (rules.Rule, string, error) {
	raw, err := g.completer.Complete(ctx, fmt.Sprintf(promptTemplate, text))
	if err != nil {
		return rules.Rule{}, "", fmt.Errorf("rule generation failed: %w", err)
	}

	var rule rules.Rule
	if err := json.Unmarshal([]byte(stripFences(raw)), &rule); err != nil {
		return rules.Rule{}, "", &MalformedRuleError{Response: raw, Cause: err}
	}
	if rule.Condition == "" {
		return rules.Rule{}, "", &MalformedRuleError{Response: raw, Cause: fmt.Errorf("empty condition")}
	}
	if !rule.Action.Type.Valid() {
		return rules.Rule{}, "", &MalformedRuleError{Response: raw, Cause: fmt.Errorf("unknown action type %q", rule.Action.Type)}
	}

	g.logger.Info("generated rule", "condition", rule.Condition, "action", rule.Action.Type)
	return rule, text, nil
}

// stripFences removes a markdown code fence wrapper, which models emit
// even when told not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
