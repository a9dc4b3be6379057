package tw

import "strings"

var spacingAxes = map[string][]string{
	"":  {"x", "y", "t", "r", "b", "l", "s", "e"},
	"x": {"l", "r", "s", "e"},
	"y": {"t", "b"},
}

var displays = set("block", "inline-block", "inline", "flex", "inline-flex", "grid",
	"inline-grid", "contents", "hidden", "table", "flow-root")

var positions = set("static", "fixed", "absolute", "relative", "sticky")

var flexDirections = set("flex-row", "flex-row-reverse", "flex-col", "flex-col-reverse")

var fontWeights = set("font-thin", "font-extralight", "font-light", "font-normal",
	"font-medium", "font-semibold", "font-bold", "font-extrabold", "font-black")

var textSizes = set("xs", "sm", "base", "lg", "xl", "2xl", "3xl", "4xl", "5xl",
	"6xl", "7xl", "8xl", "9xl")

var textAligns = set("left", "center", "right", "justify", "start", "end")

var borderStyles = set("solid", "dashed", "dotted", "double", "hidden", "none")

var bgNonColor = []string{"fixed", "local", "scroll", "clip-", "origin-", "repeat",
	"no-repeat", "cover", "contain", "auto", "center", "top", "bottom", "left",
	"right", "gradient-", "none", "blend-", "[url("}

// classify returns the conflict group of a utility and the narrower groups
// it overrides. Unknown utilities group by their own name.
func classify(utility string) (string, []string) {
	u := strings.TrimPrefix(utility, "!")
	u = strings.TrimPrefix(u, "-")

	switch {
	case displays[u]:
		return "display", nil
	case positions[u]:
		return "position", nil
	case flexDirections[u]:
		return "flex-direction", nil
	case fontWeights[u]:
		return "font-weight", nil
	}

	if g, covers, ok := spacing(u, "p"); ok {
		return g, covers
	}
	if g, covers, ok := spacing(u, "m"); ok {
		return g, covers
	}

	prefix, rest, _ := strings.Cut(u, "-")
	switch prefix {
	case "w", "h", "z", "opacity", "overflow", "items", "justify", "gap", "rounded", "inset", "top", "left", "right", "bottom", "duration", "ease", "transition", "shadow":
		if rest == "" && prefix != "transition" && prefix != "rounded" && prefix != "shadow" {
			break
		}
		return prefix, nil
	case "min", "max":
		axis, _, _ := strings.Cut(rest, "-")
		return prefix + "-" + axis, nil
	case "bg":
		if hasAnyPrefix(rest, bgNonColor) {
			return u, nil
		}
		return "bg-color", nil
	case "text":
		switch {
		case textSizes[rest]:
			return "text-size", nil
		case textAligns[rest]:
			return "text-align", nil
		}
		return "text-color", nil
	case "border":
		if rest == "" {
			return "border-w", nil
		}
		return border(rest)
	}
	return u, nil
}

// spacing recognises p-4, px-2, pt-[3px] and the m equivalents.
func spacing(u, kind string) (string, []string, bool) {
	if !strings.HasPrefix(u, kind) {
		return "", nil, false
	}
	name, _, ok := strings.Cut(u, "-")
	if !ok {
		return "", nil, false
	}
	axis := strings.TrimPrefix(name, kind)
	if len(axis) > 1 {
		return "", nil, false
	}
	if axis != "" && !strings.Contains("xytrblse", axis) {
		return "", nil, false
	}
	var covers []string
	for _, a := range spacingAxes[axis] {
		covers = append(covers, kind+a)
	}
	return kind + axis, covers, true
}

func border(rest string) (string, []string) {
	switch {
	case borderStyles[rest]:
		return "border-style", nil
	case rest == "0" || rest == "2" || rest == "4" || rest == "8" || strings.HasPrefix(rest, "[") && strings.HasSuffix(rest, "px]"):
		return "border-w", nil
	}
	if side, width, ok := strings.Cut(rest, "-"); ok && len(side) == 1 && strings.Contains("xytrblse", side) {
		if width == "0" || width == "2" || width == "4" || width == "8" {
			return "border-w-" + side, nil
		}
	}
	if len(rest) == 1 && strings.Contains("xytrblse", rest) {
		return "border-w-" + rest, nil
	}
	return "border-color", nil
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func set(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}
