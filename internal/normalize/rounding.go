package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"goldenapi/internal/config"
)

// Rewrite is one literal or regular-expression substitution.
type Rewrite struct {
	Find    string
	Replace string
	re      *regexp.Regexp
}

// Literal returns a literal rewrite.
func Literal(find, replace string) Rewrite {
	return Rewrite{Find: find, Replace: replace}
}

// Regex returns a regular-expression rewrite. Replace may use $1 style
// references.
func Regex(pattern, replace string) (Rewrite, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rewrite{}, fmt.Errorf("invalid rewrite pattern %q: %w", pattern, err)
	}
	return Rewrite{Find: pattern, Replace: replace, re: re}, nil
}

// Apply runs the rewrite once.
func (r Rewrite) Apply(text string) string {
	if r.re != nil {
		return r.re.ReplaceAllString(text, r.Replace)
	}
	return strings.ReplaceAll(text, r.Find, r.Replace)
}

// RoundingTable canonicalizes floating point rounding artifacts.
type RoundingTable []Rewrite

// DefaultRounding is the rounding table used unless a suite overrides it.
func DefaultRounding() RoundingTable {
	return RoundingTable{
		Literal(".000000</l", "</l"),
		Literal(".00</revenue>", "</revenue>"),
		Literal(".1</revenue>", "</revenue>"),
		Literal(".11</revenue>", "</revenue>"),
	}
}

// MySQLiRounding is appended when the database adapter is MYSQLI, which
// returns revenues with two decimals.
func MySQLiRounding() RoundingTable {
	return RoundingTable{
		{Find: `<revenue>([0-9]+)\.00</revenue>`, Replace: "<revenue>$1</revenue>", re: regexp.MustCompile(`<revenue>([0-9]+)\.00</revenue>`)},
	}
}

// RoundingFromConfig builds a table from suite rewrite rules.
func RoundingFromConfig(rules []config.RewriteRule) (RoundingTable, error) {
	table := make(RoundingTable, 0, len(rules))
	for _, rule := range rules {
		if !rule.Regex {
			table = append(table, Literal(rule.Find, rule.Replace))
			continue
		}
		rw, err := Regex(rule.Find, rule.Replace)
		if err != nil {
			return nil, &config.ConfigurationError{Key: "rounding", Message: err.Error()}
		}
		table = append(table, rw)
	}
	return table, nil
}

// Apply runs every rewrite in order.
func (t RoundingTable) Apply(text string) string {
	for _, rw := range t {
		text = rw.Apply(text)
	}
	return text
}
