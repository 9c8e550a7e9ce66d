// internal/fixture/values.go
package fixture

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xkilldash9x/boxlayout/pkg/layout"
)

// -- Scalar Values --

// parseDimension accepts auto, unitless or px lengths and percentages.
func parseDimension(value string) (layout.Dimension, error) {
	value = strings.TrimSpace(value)
	switch {
	case value == "auto":
		return layout.Auto, nil
	case strings.HasSuffix(value, "%"):
		n, err := parseNumber(strings.TrimSuffix(value, "%"))
		if err != nil {
			return layout.Auto, err
		}
		return layout.Percent(n / 100), nil
	case strings.HasSuffix(value, "px"):
		n, err := parseNumber(strings.TrimSuffix(value, "px"))
		if err != nil {
			return layout.Auto, err
		}
		return layout.Length(n), nil
	}
	n, err := parseNumber(value)
	if err != nil {
		return layout.Auto, fmt.Errorf("not a length: %w", err)
	}
	return layout.Length(n), nil
}

// parseLengthPercentage is parseDimension without auto.
func parseLengthPercentage(value string) (layout.Dimension, error) {
	d, err := parseDimension(value)
	if err != nil {
		return d, err
	}
	if d.IsAuto() {
		return d, fmt.Errorf("auto is not allowed here")
	}
	return d, nil
}

func parseNumber(value string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(value), 64)
}

// parseAspectRatio accepts "w / h" or a single number.
func parseAspectRatio(value string) (layout.Opt, error) {
	if value == "auto" {
		return layout.Opt{}, nil
	}
	if w, h, ok := strings.Cut(value, "/"); ok {
		num, err := parseNumber(w)
		if err != nil {
			return layout.Opt{}, err
		}
		den, err := parseNumber(h)
		if err != nil {
			return layout.Opt{}, err
		}
		if den == 0 {
			return layout.Opt{}, fmt.Errorf("zero denominator")
		}
		return layout.Some(num / den), nil
	}
	n, err := parseNumber(value)
	if err != nil {
		return layout.Opt{}, err
	}
	return layout.Some(n), nil
}

// -- Keywords --

func lookup[T any](table map[string]T, value string) (T, error) {
	v, ok := table[strings.TrimSpace(value)]
	if !ok {
		var zero T
		return zero, fmt.Errorf("unknown keyword")
	}
	return v, nil
}

var displays = map[string]layout.Display{
	"block":    layout.DisplayBlock,
	"flex":     layout.DisplayFlex,
	"grid":     layout.DisplayGrid,
	"none":     layout.DisplayNone,
	"contents": layout.DisplayContents,
}

var positions = map[string]layout.Position{
	"relative": layout.PositionRelative,
	"static":   layout.PositionRelative,
	"absolute": layout.PositionAbsolute,
}

var boxSizings = map[string]layout.BoxSizing{
	"border-box":  layout.BoxSizingBorderBox,
	"content-box": layout.BoxSizingContentBox,
}

var overflows = map[string]layout.Overflow{
	"visible": layout.OverflowVisible,
	"clip":    layout.OverflowClip,
	"hidden":  layout.OverflowHidden,
	"scroll":  layout.OverflowScroll,
	"auto":    layout.OverflowScroll,
}

var alignItems = map[string]layout.AlignItems{
	"normal":     layout.AlignNormal,
	"start":      layout.AlignStart,
	"self-start": layout.AlignStart,
	"end":        layout.AlignEnd,
	"self-end":   layout.AlignEnd,
	"flex-start": layout.AlignFlexStart,
	"flex-end":   layout.AlignFlexEnd,
	"center":     layout.AlignCenter,
	"baseline":   layout.AlignBaseline,
	"stretch":    layout.AlignStretch,
}

var alignContents = map[string]layout.AlignContent{
	"normal":        layout.ContentNormal,
	"start":         layout.ContentStart,
	"end":           layout.ContentEnd,
	"flex-start":    layout.ContentFlexStart,
	"flex-end":      layout.ContentFlexEnd,
	"center":        layout.ContentCenter,
	"stretch":       layout.ContentStretch,
	"space-between": layout.ContentSpaceBetween,
	"space-around":  layout.ContentSpaceAround,
	"space-evenly":  layout.ContentSpaceEvenly,
}

var flexDirections = map[string]layout.FlexDirection{
	"row":            layout.FlexDirectionRow,
	"row-reverse":    layout.FlexDirectionRowReverse,
	"column":         layout.FlexDirectionColumn,
	"column-reverse": layout.FlexDirectionColumnReverse,
}

var flexWraps = map[string]layout.FlexWrap{
	"nowrap":       layout.FlexNoWrap,
	"wrap":         layout.FlexWrapWrap,
	"wrap-reverse": layout.FlexWrapReverse,
}

func parseAutoFlow(value string) (layout.GridAutoFlow, error) {
	fields := strings.Fields(value)
	column, dense := false, false
	for _, f := range fields {
		switch f {
		case "row":
		case "column":
			column = true
		case "dense":
			dense = true
		default:
			return layout.GridAutoFlowRow, fmt.Errorf("unknown keyword %q", f)
		}
	}
	switch {
	case column && dense:
		return layout.GridAutoFlowColumnDense, nil
	case column:
		return layout.GridAutoFlowColumn, nil
	case dense:
		return layout.GridAutoFlowRowDense, nil
	}
	return layout.GridAutoFlowRow, nil
}

// -- Shorthands --

// expandShorthands rewrites shorthand properties into their longhands.
// Longhands given explicitly win over the shorthand.
func expandShorthands(props map[string]string) {
	expandFlexShorthand(props)
	expand1To4Shorthand(props, "margin", "margin-top", "margin-right", "margin-bottom", "margin-left")
	expand1To4Shorthand(props, "padding", "padding-top", "padding-right", "padding-bottom", "padding-left")
	expand1To4Shorthand(props, "border-width", "border-top-width", "border-right-width", "border-bottom-width", "border-left-width")
	expand1To4Shorthand(props, "inset", "top", "right", "bottom", "left")

	if border, ok := props["border"]; ok {
		for _, part := range strings.Fields(border) {
			if _, err := parseLengthPercentage(part); err == nil {
				setDefault(props, "border-top-width", part)
				setDefault(props, "border-right-width", part)
				setDefault(props, "border-bottom-width", part)
				setDefault(props, "border-left-width", part)
				break
			}
		}
		delete(props, "border")
	}
	if gap, ok := props["gap"]; ok {
		parts := strings.Fields(gap)
		if len(parts) == 1 {
			parts = append(parts, parts[0])
		}
		setDefault(props, "row-gap", parts[0])
		setDefault(props, "column-gap", parts[len(parts)-1])
		delete(props, "gap")
	}
	if overflow, ok := props["overflow"]; ok {
		parts := strings.Fields(overflow)
		if len(parts) == 1 {
			parts = append(parts, parts[0])
		}
		setDefault(props, "overflow-x", parts[0])
		setDefault(props, "overflow-y", parts[len(parts)-1])
		delete(props, "overflow")
	}
}

func setDefault(props map[string]string, key, value string) {
	if _, ok := props[key]; !ok {
		props[key] = value
	}
}

func expand1To4Shorthand(props map[string]string, shorthand, top, right, bottom, left string) {
	val, ok := props[shorthand]
	if !ok {
		return
	}
	delete(props, shorthand)
	parts := strings.Fields(val)
	var t, r, b, l string
	switch len(parts) {
	case 1:
		t, r, b, l = parts[0], parts[0], parts[0], parts[0]
	case 2:
		t, r, b, l = parts[0], parts[1], parts[0], parts[1]
	case 3:
		t, r, b, l = parts[0], parts[1], parts[2], parts[1]
	case 4:
		t, r, b, l = parts[0], parts[1], parts[2], parts[3]
	default:
		// Leave the malformed shorthand for the caller to report.
		props[shorthand] = val
		return
	}
	setDefault(props, top, t)
	setDefault(props, right, r)
	setDefault(props, bottom, b)
	setDefault(props, left, l)
}

func expandFlexShorthand(props map[string]string) {
	flexVal, ok := props["flex"]
	if !ok {
		return
	}
	delete(props, "flex")
	grow, shrink, basis := "0", "1", "auto"
	parts := strings.Fields(flexVal)
	isNumber := func(s string) bool {
		_, err := parseNumber(s)
		return err == nil
	}

	switch len(parts) {
	case 1:
		switch parts[0] {
		case "none":
			grow, shrink, basis = "0", "0", "auto"
		case "auto":
			grow, shrink, basis = "1", "1", "auto"
		default:
			if isNumber(parts[0]) {
				grow, basis = parts[0], "0"
			} else {
				grow, basis = "1", parts[0]
			}
		}
	case 2:
		grow = parts[0]
		if isNumber(parts[1]) {
			shrink, basis = parts[1], "0"
		} else {
			basis = parts[1]
		}
	default:
		grow, shrink, basis = parts[0], parts[1], parts[2]
	}

	setDefault(props, "flex-grow", grow)
	setDefault(props, "flex-shrink", shrink)
	setDefault(props, "flex-basis", basis)
}
