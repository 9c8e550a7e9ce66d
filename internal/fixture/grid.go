// internal/fixture/grid.go
package fixture

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xkilldash9x/boxlayout/pkg/layout"
)

// lineNames holds the names attached to each line of an explicit grid axis.
// Index 0 is line 1.
type lineNames [][]string

// resolve returns the 1-based line number of the nth line called name.
// Negative n counts from the last line.
func (ln lineNames) resolve(name string, n int) (int, bool) {
	if n == 0 {
		n = 1
	}
	seen := 0
	if n > 0 {
		for i, names := range ln {
			if contains(names, name) {
				seen++
				if seen == n {
					return i + 1, true
				}
			}
		}
		return 0, false
	}
	for i := len(ln) - 1; i >= 0; i-- {
		if contains(ln[i], name) {
			seen--
			if seen == n {
				return i + 1, true
			}
		}
	}
	return 0, false
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func isWhitespace(r byte) bool {
	return r == ' ' || r == '\t' || r == '\n'
}

// tokenizeGridTracks splits a track list on top-level whitespace, keeping
// bracketed name groups and parenthesized functions whole.
func tokenizeGridTracks(value string) []string {
	var tokens []string
	for i := 0; i < len(value); {
		if isWhitespace(value[i]) {
			i++
			continue
		}
		if value[i] == '[' {
			start := i
			end := strings.IndexByte(value[start:], ']')
			if end == -1 {
				tokens = append(tokens, value[start:])
				break
			}
			tokens = append(tokens, value[start:start+end+1])
			i = start + end + 1
			continue
		}
		start := i
		depth := 0
		for ; i < len(value); i++ {
			c := value[i]
			if c == '(' {
				depth++
			} else if c == ')' {
				depth--
			} else if (isWhitespace(c) || c == '[') && depth == 0 {
				break
			}
		}
		tokens = append(tokens, value[start:i])
	}
	return tokens
}

// splitArgs splits a function argument list on top-level commas.
func splitArgs(s string) []string {
	var args []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(args, strings.TrimSpace(s[start:]))
}

// functionArgs returns the arguments of name(...) or ok=false.
func functionArgs(token, name string) ([]string, bool) {
	if !strings.HasPrefix(token, name+"(") || !strings.HasSuffix(token, ")") {
		return nil, false
	}
	return splitArgs(token[len(name)+1 : len(token)-1]), true
}

// parseTemplate parses grid-template-rows/columns into entries and the
// names of each explicit line.
func parseTemplate(value string) ([]layout.TemplateEntry, lineNames, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "none" {
		return nil, nil, nil
	}
	var entries []layout.TemplateEntry
	names := lineNames{nil}
	for _, token := range tokenizeGridTracks(value) {
		if strings.HasPrefix(token, "[") {
			last := len(names) - 1
			names[last] = append(names[last], strings.Fields(strings.Trim(token, "[]"))...)
			continue
		}
		if args, ok := functionArgs(token, "repeat"); ok {
			entry, inner, err := parseRepeat(args)
			if err != nil {
				return nil, nil, err
			}
			entries = append(entries, entry)
			for i := 0; i < entry.Count; i++ {
				last := len(names) - 1
				names[last] = append(names[last], inner[0]...)
				names = append(names, inner[1:]...)
			}
			continue
		}
		track, err := parseTrack(token)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, layout.Single(track))
		names = append(names, nil)
	}
	return entries, names, nil
}

// parseRepeat handles repeat(<count>, <tracks>). inner holds the names of
// one repetition's lines, inner[0] being its first line.
func parseRepeat(args []string) (layout.TemplateEntry, lineNames, error) {
	if len(args) != 2 {
		return layout.TemplateEntry{}, nil, fmt.Errorf("repeat() takes two arguments")
	}
	count, err := strconv.Atoi(args[0])
	if err != nil {
		if args[0] == "auto-fill" || args[0] == "auto-fit" {
			return layout.TemplateEntry{}, nil, fmt.Errorf("repeat(%s): %w", args[0], ErrUnsupported)
		}
		return layout.TemplateEntry{}, nil, fmt.Errorf("repeat count: %w", err)
	}
	if count < 1 {
		return layout.TemplateEntry{}, nil, fmt.Errorf("repeat count must be positive")
	}
	var tracks []layout.TrackSizingFunction
	inner := lineNames{nil}
	for _, token := range tokenizeGridTracks(args[1]) {
		if strings.HasPrefix(token, "[") {
			last := len(inner) - 1
			inner[last] = append(inner[last], strings.Fields(strings.Trim(token, "[]"))...)
			continue
		}
		track, err := parseTrack(token)
		if err != nil {
			return layout.TemplateEntry{}, nil, err
		}
		tracks = append(tracks, track)
		inner = append(inner, nil)
	}
	if len(tracks) == 0 {
		return layout.TemplateEntry{}, nil, fmt.Errorf("repeat() without tracks")
	}
	return layout.Repeat(count, tracks...), inner, nil
}

// parseTrackList parses grid-auto-rows/columns.
func parseTrackList(value string) ([]layout.TrackSizingFunction, error) {
	var tracks []layout.TrackSizingFunction
	for _, token := range tokenizeGridTracks(value) {
		track, err := parseTrack(token)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}

func parseTrack(token string) (layout.TrackSizingFunction, error) {
	if args, ok := functionArgs(token, "minmax"); ok {
		if len(args) != 2 {
			return layout.AutoTrack, fmt.Errorf("minmax() takes two arguments")
		}
		lo, err := parseMinSizing(args[0])
		if err != nil {
			return layout.AutoTrack, err
		}
		hi, err := parseMaxSizing(args[1])
		if err != nil {
			return layout.AutoTrack, err
		}
		return layout.MinMaxTrack(lo, hi), nil
	}
	if args, ok := functionArgs(token, "fit-content"); ok {
		if len(args) != 1 {
			return layout.AutoTrack, fmt.Errorf("fit-content() takes one argument")
		}
		limit, err := parseLengthPercentage(args[0])
		if err != nil {
			return layout.AutoTrack, err
		}
		return layout.FitContentTrack(limit), nil
	}
	switch token {
	case "auto":
		return layout.AutoTrack, nil
	case "min-content":
		return layout.MinContentTrack, nil
	case "max-content":
		return layout.MaxContentTrack, nil
	}
	if strings.HasSuffix(token, "fr") {
		flex, err := parseNumber(strings.TrimSuffix(token, "fr"))
		if err != nil || flex < 0 {
			return layout.AutoTrack, fmt.Errorf("invalid flex factor %q", token)
		}
		return layout.FrTrack(flex), nil
	}
	d, err := parseLengthPercentage(token)
	if err != nil {
		return layout.AutoTrack, fmt.Errorf("invalid track %q: %w", token, err)
	}
	return layout.FixedTrack(d), nil
}

func parseMinSizing(value string) (layout.MinTrackSizing, error) {
	switch value {
	case "auto":
		return layout.MinTrackSizing{Kind: layout.MinTrackAuto}, nil
	case "min-content":
		return layout.MinTrackSizing{Kind: layout.MinTrackMinContent}, nil
	case "max-content":
		return layout.MinTrackSizing{Kind: layout.MinTrackMaxContent}, nil
	}
	d, err := parseLengthPercentage(value)
	if err != nil {
		return layout.MinTrackSizing{}, fmt.Errorf("invalid minimum %q: %w", value, err)
	}
	return layout.MinTrackSizing{Kind: layout.MinTrackFixed, Value: d}, nil
}

func parseMaxSizing(value string) (layout.MaxTrackSizing, error) {
	switch value {
	case "auto":
		return layout.MaxTrackSizing{Kind: layout.MaxTrackAuto}, nil
	case "min-content":
		return layout.MaxTrackSizing{Kind: layout.MaxTrackMinContent}, nil
	case "max-content":
		return layout.MaxTrackSizing{Kind: layout.MaxTrackMaxContent}, nil
	}
	if strings.HasSuffix(value, "fr") {
		flex, err := parseNumber(strings.TrimSuffix(value, "fr"))
		if err != nil || flex < 0 {
			return layout.MaxTrackSizing{}, fmt.Errorf("invalid flex factor %q", value)
		}
		return layout.MaxTrackSizing{Kind: layout.MaxTrackFraction, Flex: flex}, nil
	}
	d, err := parseLengthPercentage(value)
	if err != nil {
		return layout.MaxTrackSizing{}, fmt.Errorf("invalid maximum %q: %w", value, err)
	}
	return layout.MaxTrackSizing{Kind: layout.MaxTrackFixed, Value: d}, nil
}

// -- Placement --

// parseGridLine parses one side of grid-row/grid-column. Named lines are
// resolved against names, the parent's explicit lines for that axis.
func parseGridLine(value string, names lineNames) (layout.GridPlacement, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "auto" {
		return layout.GridPlacement{}, nil
	}
	fields := strings.Fields(value)
	if fields[0] == "span" {
		if len(fields) != 2 {
			return layout.GridPlacement{}, fmt.Errorf("span takes one argument")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return layout.GridPlacement{}, fmt.Errorf("named span %q: %w", fields[1], ErrUnsupported)
		}
		return layout.GridSpan(n), nil
	}
	if n, err := strconv.Atoi(value); err == nil {
		if n == 0 {
			return layout.GridPlacement{}, fmt.Errorf("line 0 does not exist")
		}
		return layout.GridLine(n), nil
	}

	// <name> or <integer> <name> / <name> <integer>
	name, nth := fields[0], 1
	if len(fields) == 2 {
		if n, err := strconv.Atoi(fields[0]); err == nil {
			name, nth = fields[1], n
		} else if n, err := strconv.Atoi(fields[1]); err == nil {
			nth = n
		} else {
			return layout.GridPlacement{}, fmt.Errorf("invalid grid line")
		}
	} else if len(fields) > 2 {
		return layout.GridPlacement{}, fmt.Errorf("invalid grid line")
	}
	line, ok := names.resolve(name, nth)
	if !ok {
		return layout.GridPlacement{}, fmt.Errorf("no line named %q", name)
	}
	return layout.GridLine(line), nil
}

// parseGridSpan parses the grid-row/grid-column shorthand.
func parseGridSpan(value string, names lineNames) (layout.Line[layout.GridPlacement], error) {
	start, end, hasEnd := strings.Cut(value, "/")
	var out layout.Line[layout.GridPlacement]
	var err error
	if out.Start, err = parseGridLine(start, names); err != nil {
		return out, err
	}
	if hasEnd {
		if out.End, err = parseGridLine(end, names); err != nil {
			return out, err
		}
	} else if _, named := names.resolve(strings.TrimSpace(start), 1); named {
		// A lone name sets both sides to the same named line.
		out.End = out.Start
	}
	return out, nil
}
