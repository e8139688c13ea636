package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition renders a WHERE fragment. paramIndex is the number of the first
// $n placeholder the condition may use; it returns one argument per
// placeholder it consumed.
type Condition interface {
	SQL(paramIndex int) (string, []any)
}

type compareCondition struct {
	field string
	op    string
	value any
}

func (c *compareCondition) SQL(paramIndex int) (string, []any) {
	return fmt.Sprintf("%s %s $%d", c.field, c.op, paramIndex), []any{c.value}
}

// Eq generates "field = $n".
func Eq(field string, value any) Condition {
	return &compareCondition{field: field, op: "=", value: value}
}

func Gte(field string, value any) Condition {
	return &compareCondition{field: field, op: ">=", value: value}
}

func Lte(field string, value any) Condition {
	return &compareCondition{field: field, op: "<=", value: value}
}

type isNullCondition struct {
	field string
	not   bool
}

func (c *isNullCondition) SQL(int) (string, []any) {
	if c.not {
		return c.field + " IS NOT NULL", nil
	}
	return c.field + " IS NULL", nil
}

func IsNull(field string) Condition {
	return &isNullCondition{field: field}
}

func IsNotNull(field string) Condition {
	return &isNullCondition{field: field, not: true}
}

type anyCondition struct {
	field  string
	values any
}

func (c *anyCondition) SQL(paramIndex int) (string, []any) {
	return fmt.Sprintf("%s = ANY($%d)", c.field, paramIndex), []any{c.values}
}

// Any generates "field = ANY($n)" with values bound as one array argument.
func Any(field string, values any) Condition {
	return &anyCondition{field: field, values: values}
}

type iLikeCondition struct {
	fields []string
	term   string
}

func (c *iLikeCondition) SQL(paramIndex int) (string, []any) {
	parts := make([]string, 0, len(c.fields))
	for _, f := range c.fields {
		parts = append(parts, fmt.Sprintf("%s ILIKE $%d", f, paramIndex))
	}
	return "(" + strings.Join(parts, " OR ") + ")", []any{"%" + escapeLike(c.term) + "%"}
}

// ILikeAny matches term as a substring of any of fields. The term is bound
// once and LIKE wildcards inside it are escaped.
func ILikeAny(term string, fields ...string) Condition {
	return &iLikeCondition{fields: fields, term: term}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

type rawCondition struct {
	fragment string
	args     []any
}

func (c *rawCondition) SQL(paramIndex int) (string, []any) {
	var sb strings.Builder
	n := paramIndex
	for _, r := range c.fragment {
		if r == '?' {
			sb.WriteString("$" + strconv.Itoa(n))
			n++
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String(), c.args
}

// Expr is a trusted SQL fragment in which each '?' becomes the next $n
// placeholder, bound to args in order.
func Expr(fragment string, args ...any) Condition {
	return &rawCondition{fragment: fragment, args: args}
}
