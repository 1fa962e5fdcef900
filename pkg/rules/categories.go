package rules

import (
	"regexp"
	"sort"
)

// categoryPattern matches category comparisons inside rule conditions.
// It deliberately also matches the tail of source_category comparisons:
// both feed the candidate label set handed to the classifier.
var categoryPattern = regexp.MustCompile(`category\s*==\s*['"]([\w-]+)['"]`)

// Categories extracts the distinct category literals referenced by the
// rule conditions, in sorted order. These become the candidate labels
// offered to the classifier collaborator.
func Categories(ruleSet []Rule) []string {
	seen := make(map[string]struct{})
	for _, rule := range ruleSet {
		for _, m := range categoryPattern.FindAllStringSubmatch(rule.Condition, -1) {
			seen[m[1]] = struct{}{}
		}
	}

	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	return categories
}
