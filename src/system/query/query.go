// Package query implements the intersection query language: a small,
// whitespace-separated column grammar that selects, multiplies and filters
// registered sets, then folds each resulting tuple into a single
// intersected result via sets.Set.Intersect.
//
// There's no grammar library worth pulling in for a DSL this small (two
// bracket kinds, comma lists, no nesting), so parsing is hand-rolled with
// regexp/strings rather than a parser generator.
package query

import (
	"fmt"
	"regexp"
	"strings"
)

// Attr is a single matcher inside an attrList: either an exact id lookup
// ("#id") or a name, optionally with a value ("name" or "name=value").
type Attr struct {
	ID       string
	HasID    bool
	Name     string
	Value    string
	HasValue bool
}

func (a Attr) String() string {
	if a.HasID {
		return "#" + a.ID
	}
	if a.HasValue {
		return fmt.Sprintf("%s=%s", a.Name, a.Value)
	}
	return a.Name
}

// SelectionQuery is one whitespace-separated column: an optional primary
// selector, zero or more multiplyAttr ("[...]") groups applied during
// selection, and zero or more filterAttr ("(...)") groups applied after
// intersection.
type SelectionQuery struct {
	PrimaryID      string
	HasPrimaryID   bool
	PrimaryType    string
	HasPrimaryType bool
	Multiply       [][]Attr
	Filter         []Attr
}

// Query is a parsed intersectionQuery: one SelectionQuery per column.
type Query []SelectionQuery

var groupPattern = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)`)

// Parse tokenizes a raw query string into its column/group structure. It
// never consults a registry; Evaluate does that.
func Parse(raw string) (Query, error) {
	var q Query
	for _, col := range strings.Fields(raw) {
		sq, err := parseColumn(col)
		if err != nil {
			return nil, fmt.Errorf("query: column %q: %w", col, err)
		}
		q = append(q, sq)
	}
	return q, nil
}

func parseColumn(col string) (SelectionQuery, error) {
	var sq SelectionQuery

	if err := checkBalanced(col); err != nil {
		return sq, err
	}

	firstGroup := groupPattern.FindStringIndex(col)
	primaryRaw := col
	rest := ""
	if firstGroup != nil {
		primaryRaw = col[:firstGroup[0]]
		rest = col[firstGroup[0]:]
	}

	primaryRaw = strings.TrimSpace(primaryRaw)
	if primaryRaw != "" {
		if strings.HasPrefix(primaryRaw, "#") {
			sq.HasPrimaryID = true
			sq.PrimaryID = primaryRaw[1:]
		} else {
			sq.HasPrimaryType = true
			sq.PrimaryType = primaryRaw
		}
	}

	for _, g := range groupPattern.FindAllString(rest, -1) {
		body := g[1 : len(g)-1]
		attrs, err := parseAttrList(body)
		if err != nil {
			return sq, err
		}
		if strings.HasPrefix(g, "[") {
			sq.Multiply = append(sq.Multiply, attrs)
		} else {
			sq.Filter = append(sq.Filter, attrs...)
		}
	}
	return sq, nil
}

// checkBalanced rejects a column carrying an unclosed or stray bracket
// before the grammar tries to match groups out of it. The grammar has no
// nesting, so at most one bracket can be open at a time.
func checkBalanced(col string) error {
	var open rune
	for _, r := range col {
		switch r {
		case '[', '(':
			if open != 0 {
				return fmt.Errorf("unbalanced brackets: %q opened before %q closed", string(r), string(open))
			}
			open = r
		case ']':
			if open != '[' {
				return fmt.Errorf("unbalanced brackets: unexpected ']'")
			}
			open = 0
		case ')':
			if open != '(' {
				return fmt.Errorf("unbalanced brackets: unexpected ')'")
			}
			open = 0
		}
	}
	if open != 0 {
		return fmt.Errorf("unbalanced brackets: %q never closed", string(open))
	}
	return nil
}

func parseAttrList(body string) ([]Attr, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, nil
	}
	var out []Attr
	for _, item := range strings.Split(body, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if strings.HasPrefix(item, "#") {
			out = append(out, Attr{ID: item[1:], HasID: true})
			continue
		}
		if eq := strings.IndexByte(item, '='); eq >= 0 {
			out = append(out, Attr{Name: item[:eq], Value: item[eq+1:], HasValue: true})
			continue
		}
		out = append(out, Attr{Name: item})
	}
	return out, nil
}
