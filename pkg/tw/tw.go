// Package tw joins and merges Tailwind CSS class lists.
//
// CN joins class names, dropping empties. Merge additionally resolves
// conflicts between utilities of the same group, keeping the last one:
//
//	tw.Merge("px-6 py-10 border-input", "py-[4.25rem] border-primary")
//	// "px-6 py-[4.25rem] border-primary"
//
// Conflicts are tracked per variant prefix, so "hover:bg-primary" does not
// replace "bg-primary". Utilities outside the known groups are kept as-is
// apart from exact duplicates.
package tw

import "strings"

// CN joins class names, filtering empty strings.
func CN(classes ...string) string {
	var result []string
	for _, c := range classes {
		if c = strings.TrimSpace(c); c != "" {
			result = append(result, c)
		}
	}
	return strings.Join(result, " ")
}

// If returns class when cond is true and "" otherwise.
func If(cond bool, class string) string {
	if cond {
		return class
	}
	return ""
}

// Merge joins the class lists and removes utilities overridden by a later
// utility of the same group.
func Merge(classes ...string) string {
	tokens := strings.Fields(CN(classes...))
	if len(tokens) < 2 {
		return strings.Join(tokens, " ")
	}

	claimed := make(map[string]bool, len(tokens))
	kept := make([]string, 0, len(tokens))
	for i := len(tokens) - 1; i >= 0; i-- {
		tok := tokens[i]
		variant, utility := splitVariant(tok)
		group, covers := classify(utility)

		key := variant + group
		if claimed[key] {
			continue
		}
		claimed[key] = true
		for _, c := range covers {
			claimed[variant+c] = true
		}
		kept = append(kept, tok)
	}

	for l, r := 0, len(kept)-1; l < r; l, r = l+1, r-1 {
		kept[l], kept[r] = kept[r], kept[l]
	}
	return strings.Join(kept, " ")
}

// splitVariant separates "md:hover:" from the utility, ignoring colons
// inside arbitrary values like "bg-[url(a:b)]".
func splitVariant(tok string) (string, string) {
	depth := 0
	last := -1
	for i, r := range tok {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ':':
			if depth == 0 {
				last = i
			}
		}
	}
	if last < 0 {
		return "", tok
	}
	return tok[:last+1], tok[last+1:]
}
