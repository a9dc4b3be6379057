// Package ui holds small presentational components shared by widgets.
package ui

import (
	. "github.com/vango-dev/dropzone/pkg/vdom"

	"github.com/vango-dev/dropzone/pkg/tw"
)

// SpinnerOption configures a Spinner component.
type SpinnerOption func(*spinnerConfig)

type spinnerConfig struct {
	className string
	label     string
}

// SpinnerClass adds CSS classes, overriding conflicting defaults.
func SpinnerClass(className string) SpinnerOption {
	return func(c *spinnerConfig) {
		c.className = className
	}
}

// SpinnerLabel sets screen-reader text and marks the spinner as a status.
func SpinnerLabel(label string) SpinnerOption {
	return func(c *spinnerConfig) {
		c.label = label
	}
}

// Spinner renders an animated loading indicator: a faint full ring with a
// quarter arc on top that rotates.
func Spinner(opts ...SpinnerOption) *VNode {
	var cfg spinnerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	svg := Svg(
		Class(tw.Merge("h-7 w-7 animate-spin text-primary", cfg.className)),
		ViewBox("0 0 24 24"),
		Xmlns("http://www.w3.org/2000/svg"),
		AttrIf(cfg.label == "", AriaHidden(true)),
		G(
			Class("origin-center"),
			Circle(
				Class("opacity-25"),
				Cx("12"), Cy("12"), R("9"),
				Stroke("currentColor"),
				StrokeWidth("3"),
				Fill("none"),
			),
			Path(
				Class("opacity-75"),
				Fill("none"),
				Stroke("currentColor"),
				StrokeWidth("3"),
				StrokeLinecap("round"),
				D("M12 3C7.02944 3 3 7.02944 3 12"),
			),
		),
	)

	if cfg.label == "" {
		return svg
	}
	return Span(
		Role("status"),
		Class("inline-flex items-center"),
		svg,
		Span(Class("sr-only"), Text(cfg.label)),
	)
}
