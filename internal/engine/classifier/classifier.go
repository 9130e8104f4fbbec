package classifier

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/hejijunhao/botdeck/internal/model"
)

// Rule maps a set of keywords to a category.
type Rule struct {
	Category model.Category
	Keywords []string
}

// DefaultRules returns the keyword rules in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{Category: model.CategoryError, Keywords: []string{"error", "exception", "failed"}},
		{Category: model.CategoryWarning, Keywords: []string{"warning", "warn"}},
		{Category: model.CategorySuccess, Keywords: []string{"success", "completed", "ok"}},
		{Category: model.CategoryInfo, Keywords: []string{"info", "debug"}},
	}
}

// Classifier assigns a display category to a log line by keyword search.
// Safe for concurrent use.
type Classifier struct {
	rules []Rule
}

// New creates a Classifier. With no rules, DefaultRules is used.
func New(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	folded := make([]Rule, len(rules))
	for i, r := range rules {
		kw := make([]string, len(r.Keywords))
		for j, k := range r.Keywords {
			kw[j] = fold(k)
		}
		folded[i] = Rule{Category: r.Category, Keywords: kw}
	}
	return &Classifier{rules: folded}
}

// Classify returns the category of the first rule with a keyword contained in
// line, ignoring case. Lines matching no rule are CategoryNone.
func (c *Classifier) Classify(line string) model.Category {
	text := fold(line)
	for _, r := range c.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(text, kw) {
				return r.Category
			}
		}
	}
	return model.CategoryNone
}

// fold normalizes s to NFC and applies Unicode case folding.
// A Caser is stateful, so one is created per call.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
