package engine

import (
	"log/slog"
	"sort"

	"tidy-hq/vesta/pkg/rules"
	"tidy-hq/vesta/pkg/rules/condition"
)

// Decision is the outcome of evaluating a rule set against one file's
// context.
type Decision struct {
	// Action is the matched rule's action, or ActionNone when nothing
	// matched.
	Action rules.Action

	// Rule is the matched rule; nil when nothing matched.
	Rule *rules.Rule

	// Matched reports whether any rule matched.
	Matched bool
}

// Engine evaluates rules against a variable context in priority order.
type Engine struct {
	logger *slog.Logger
}

// New creates a rule engine.
func New(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger.With("component", "rules.engine")}
}

// Decide returns the action of the highest-priority rule whose condition
// evaluates true against vars. Rules are sorted by priority descending
// with a stable sort, so storage order breaks ties. A condition that
// fails to parse or evaluate is treated as false and skipped; evaluation
// never aborts on a malformed rule. When no rule matches the decision is
// ActionNone.
func (e *Engine) Decide(ruleSet []rules.Rule, vars map[string]string) Decision {
	ordered := make([]rules.Rule, len(ruleSet))
	copy(ordered, ruleSet)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EffectivePriority() > ordered[j].EffectivePriority()
	})

	for i := range ordered {
		rule := &ordered[i]
		matched, err := condition.Evaluate(rule.Condition, vars)
		if err != nil {
			e.logger.Debug("skipping rule with failing condition",
				"condition", rule.Condition,
				"error", err,
			)
			continue
		}
		if matched {
			e.logger.Debug("rule matched",
				"condition", rule.Condition,
				"action", rule.Action.Type,
				"priority", rule.EffectivePriority(),
			)
			return Decision{Action: rule.Action, Rule: rule, Matched: true}
		}
	}

	return Decision{Action: rules.Action{Type: rules.ActionNone}}
}
