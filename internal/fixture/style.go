// internal/fixture/style.go
package fixture

import (
	"fmt"
	"sort"

	"github.com/xkilldash9x/boxlayout/pkg/layout"
)

// gridNames are the explicit line names of a grid container, used to
// resolve named placements of its children.
type gridNames struct {
	rows, cols lineNames
}

// propertyError pairs a property with the reason its value was rejected.
type propertyError struct {
	property, value string
	err             error
}

func (e *propertyError) Error() string {
	return fmt.Sprintf("%s: %q: %v", e.property, e.value, e.err)
}

func (e *propertyError) Unwrap() error { return e.err }

// parseStyle builds a style from CSS-like properties, starting from the
// initial values. parent holds the line names of the containing grid.
func parseStyle(raw map[string]string, parent gridNames) (layout.Style, gridNames, error) {
	props := make(map[string]string, len(raw))
	for k, v := range raw {
		props[k] = v
	}
	expandShorthands(props)

	s := layout.DefaultStyle()
	var own gridNames

	// Sorted keys keep errors deterministic and let longhands such as
	// grid-row-start override their shorthand.
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := props[key]
		var err error
		switch key {
		case "display":
			s.Display, err = lookup(displays, value)
		case "position":
			s.Position, err = lookup(positions, value)
		case "box-sizing":
			s.BoxSizing, err = lookup(boxSizings, value)
		case "overflow-x":
			s.Overflow.X, err = lookup(overflows, value)
		case "overflow-y":
			s.Overflow.Y, err = lookup(overflows, value)
		case "aspect-ratio":
			s.AspectRatio, err = parseAspectRatio(value)

		case "width":
			s.Size.Width, err = parseDimension(value)
		case "height":
			s.Size.Height, err = parseDimension(value)
		case "min-width":
			s.MinSize.Width, err = parseDimension(value)
		case "min-height":
			s.MinSize.Height, err = parseDimension(value)
		case "max-width":
			s.MaxSize.Width, err = parseMaxDimension(value)
		case "max-height":
			s.MaxSize.Height, err = parseMaxDimension(value)

		case "top":
			s.Inset.Top, err = parseDimension(value)
		case "right":
			s.Inset.Right, err = parseDimension(value)
		case "bottom":
			s.Inset.Bottom, err = parseDimension(value)
		case "left":
			s.Inset.Left, err = parseDimension(value)
		case "margin-top":
			s.Margin.Top, err = parseDimension(value)
		case "margin-right":
			s.Margin.Right, err = parseDimension(value)
		case "margin-bottom":
			s.Margin.Bottom, err = parseDimension(value)
		case "margin-left":
			s.Margin.Left, err = parseDimension(value)
		case "padding-top":
			s.Padding.Top, err = parseLengthPercentage(value)
		case "padding-right":
			s.Padding.Right, err = parseLengthPercentage(value)
		case "padding-bottom":
			s.Padding.Bottom, err = parseLengthPercentage(value)
		case "padding-left":
			s.Padding.Left, err = parseLengthPercentage(value)
		case "border-top-width":
			s.Border.Top, err = parseLengthPercentage(value)
		case "border-right-width":
			s.Border.Right, err = parseLengthPercentage(value)
		case "border-bottom-width":
			s.Border.Bottom, err = parseLengthPercentage(value)
		case "border-left-width":
			s.Border.Left, err = parseLengthPercentage(value)

		case "row-gap":
			s.Gap.Height, err = parseLengthPercentage(value)
		case "column-gap":
			s.Gap.Width, err = parseLengthPercentage(value)
		case "align-items":
			s.AlignItems, err = lookup(alignItems, value)
		case "align-self":
			s.AlignSelf, err = lookup(alignItems, value)
		case "justify-items":
			s.JustifyItems, err = lookup(alignItems, value)
		case "justify-self":
			s.JustifySelf, err = lookup(alignItems, value)
		case "align-content":
			s.AlignContent, err = lookup(alignContents, value)
		case "justify-content":
			s.JustifyContent, err = lookup(alignContents, value)

		case "flex-direction":
			s.FlexDirection, err = lookup(flexDirections, value)
		case "flex-wrap":
			s.FlexWrap, err = lookup(flexWraps, value)
		case "flex-basis":
			s.FlexBasis, err = parseFlexBasis(value)
		case "flex-grow":
			s.FlexGrow, err = parseNonNegative(value)
		case "flex-shrink":
			s.FlexShrink, err = parseNonNegative(value)

		case "grid-template-rows":
			s.GridTemplateRows, own.rows, err = parseTemplate(value)
		case "grid-template-columns":
			s.GridTemplateColumns, own.cols, err = parseTemplate(value)
		case "grid-auto-rows":
			s.GridAutoRows, err = parseTrackList(value)
		case "grid-auto-columns":
			s.GridAutoColumns, err = parseTrackList(value)
		case "grid-auto-flow":
			s.GridAutoFlow, err = parseAutoFlow(value)
		case "grid-row":
			s.GridRow, err = parseGridSpan(value, parent.rows)
		case "grid-column":
			s.GridColumn, err = parseGridSpan(value, parent.cols)
		case "grid-row-start":
			s.GridRow.Start, err = parseGridLine(value, parent.rows)
		case "grid-row-end":
			s.GridRow.End, err = parseGridLine(value, parent.rows)
		case "grid-column-start":
			s.GridColumn.Start, err = parseGridLine(value, parent.cols)
		case "grid-column-end":
			s.GridColumn.End, err = parseGridLine(value, parent.cols)

		default:
			err = fmt.Errorf("unknown property: %w", ErrUnsupported)
		}
		if err != nil {
			return s, own, &propertyError{property: key, value: value, err: err}
		}
	}
	return s, own, nil
}

func parseMaxDimension(value string) (layout.Dimension, error) {
	if value == "none" {
		return layout.Auto, nil
	}
	return parseDimension(value)
}

func parseFlexBasis(value string) (layout.Dimension, error) {
	if value == "content" {
		return layout.Auto, nil
	}
	return parseDimension(value)
}

func parseNonNegative(value string) (float64, error) {
	n, err := parseNumber(value)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return n, nil
}
