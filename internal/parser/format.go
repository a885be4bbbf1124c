package parser

import (
	"fmt"
	"strings"
)

// ExpandFormats expands a parenthesised format control list into one control
// per subfield.
//
// Repeat prefixes and groups are flattened:
//
//	(A,3I(2))       -> A, I(2), I(2), I(2)
//	(b11,2(A,b14))  -> b11, A, b14, A, b14
func ExpandFormats(controls string) ([]string, error) {
	s := strings.TrimSpace(controls)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return nil, fmt.Errorf("format controls %q missing brackets", controls)
	}
	return expandList(s[1 : len(s)-1])
}

func expandList(s string) ([]string, error) {
	items, err := splitTopLevel(s)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		rep := 0
		i := 0
		for i < len(item) && item[i] >= '0' && item[i] <= '9' {
			rep = rep*10 + int(item[i]-'0')
			i++
		}
		if i == 0 {
			rep = 1
		}
		body := item[i:]
		if body == "" {
			return nil, fmt.Errorf("repeat count %q without a format", item)
		}
		if rep == 0 {
			return nil, fmt.Errorf("zero repeat count in %q", item)
		}

		var expanded []string
		if body[0] == '(' {
			if body[len(body)-1] != ')' {
				return nil, fmt.Errorf("unbalanced group %q", item)
			}
			if expanded, err = expandList(body[1 : len(body)-1]); err != nil {
				return nil, err
			}
		} else {
			expanded = []string{body}
		}
		for ; rep > 0; rep-- {
			out = append(out, expanded...)
		}
	}
	return out, nil
}

// splitTopLevel splits on commas that are not nested inside parentheses.
func splitTopLevel(s string) ([]string, error) {
	var items []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parentheses in %q", s)
			}
		case ',':
			if depth == 0 {
				items = append(items, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parentheses in %q", s)
	}
	return append(items, s[start:]), nil
}
