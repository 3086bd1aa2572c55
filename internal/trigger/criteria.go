// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package trigger

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/gobwas/glob"
	"github.com/samber/oops"
)

// Criterion is one parsed trigger condition: subject, operator, predicate.
// Criteria read like `%speech% contains "gold"` or `%elapsed% gte 10`;
// all criteria on a trigger must hold for the script to fire.
type Criterion struct {
	Subject   *Value `parser:"@@"`
	Op        string `parser:"@('is' | 'not' | 'contains' | 'matches' | 'gt' | 'lt' | 'gte' | 'lte')"`
	Predicate *Value `parser:"@@"`

	// compiled glob for a literal `matches` predicate, built at parse time.
	pattern glob.Glob
	text    string
}

// Value is a criterion operand: a quoted string, a number, a %var%
// reference resolved against the firing actor's variables, or a bare word.
type Value struct {
	Str  *string  `parser:"@String"`
	Num  *float64 `parser:"| @Float | @Int"`
	Var  *string  `parser:"| '%' @Ident '%'"`
	Word *string  `parser:"| @Ident"`
}

var criterionParser = participle.MustBuild[Criterion](
	participle.Unquote("String"),
)

// ParseCriterion parses one criterion expression. A literal glob predicate
// for `matches` is compiled once here, not per evaluation.
func ParseCriterion(text string) (*Criterion, error) {
	c, err := criterionParser.ParseString("", text)
	if err != nil {
		return nil, oops.Code(CodeBadCriteria).
			With("criterion", text).
			Wrapf(err, "parsing trigger criterion")
	}
	c.text = text
	if c.Op == "matches" {
		if lit := c.Predicate.literal(); lit != nil {
			g, gerr := glob.Compile(*lit)
			if gerr != nil {
				return nil, oops.Code(CodeBadCriteria).
					With("criterion", text).
					Wrapf(gerr, "compiling match pattern")
			}
			c.pattern = g
		}
	}
	return c, nil
}

// String returns the original criterion text.
func (c *Criterion) String() string {
	return c.text
}

// Eval evaluates the criterion against the firing variables. Unknown
// variables resolve to the empty string.
func (c *Criterion) Eval(vars map[string]string) bool {
	subject := c.Subject.resolve(vars)
	predicate := c.Predicate.resolve(vars)

	switch c.Op {
	case "is":
		return strings.EqualFold(subject, predicate)
	case "not":
		return !strings.EqualFold(subject, predicate)
	case "contains":
		return strings.Contains(strings.ToLower(subject), strings.ToLower(predicate))
	case "matches":
		g := c.pattern
		if g == nil {
			var err error
			g, err = glob.Compile(predicate)
			if err != nil {
				return false
			}
		}
		return g.Match(subject)
	case "gt", "lt", "gte", "lte":
		return compareNumeric(c.Op, subject, predicate)
	default:
		return false
	}
}

func compareNumeric(op, subject, predicate string) bool {
	s, err1 := strconv.ParseFloat(strings.TrimSpace(subject), 64)
	p, err2 := strconv.ParseFloat(strings.TrimSpace(predicate), 64)
	if err1 != nil || err2 != nil {
		return false
	}
	switch op {
	case "gt":
		return s > p
	case "lt":
		return s < p
	case "gte":
		return s >= p
	case "lte":
		return s <= p
	default:
		return false
	}
}

// resolve renders the operand to a string for comparison.
func (v *Value) resolve(vars map[string]string) string {
	switch {
	case v.Str != nil:
		return *v.Str
	case v.Num != nil:
		return strconv.FormatFloat(*v.Num, 'f', -1, 64)
	case v.Var != nil:
		return vars[*v.Var]
	case v.Word != nil:
		return *v.Word
	default:
		return ""
	}
}

// literal returns the operand text when it is a compile-time constant.
func (v *Value) literal() *string {
	if v.Str != nil {
		return v.Str
	}
	return v.Word
}

// DescribeCriteria renders a human-readable summary of a criteria list for
// the begin-marker payload.
func DescribeCriteria(criteria []*Criterion) string {
	if len(criteria) == 0 {
		return "always"
	}
	parts := make([]string, len(criteria))
	for i, c := range criteria {
		parts[i] = c.String()
	}
	return strings.Join(parts, " and ")
}

// ParseCriteria parses a list of criterion expressions.
func ParseCriteria(exprs []string) ([]*Criterion, error) {
	criteria := make([]*Criterion, 0, len(exprs))
	for _, e := range exprs {
		c, err := ParseCriterion(e)
		if err != nil {
			return nil, err
		}
		criteria = append(criteria, c)
	}
	return criteria, nil
}
