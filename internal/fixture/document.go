// internal/fixture/document.go
package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/json-iterator/go"
	"github.com/mitchellh/go-homedir"
	"github.com/xkilldash9x/boxlayout/internal/observability"
	"github.com/xkilldash9x/boxlayout/pkg/boxtree"
	"github.com/xkilldash9x/boxlayout/pkg/layout"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Document is a declarative layout fixture: a viewport and a styled tree.
type Document struct {
	Name     string   `yaml:"name" json:"name"`
	Viewport Viewport `yaml:"viewport" json:"viewport"`
	Root     Node     `yaml:"root" json:"root"`
}

// Viewport gives the root's available space per axis: a number of pixels,
// "min-content" or "max-content". Missing axes are max-content.
type Viewport struct {
	Width  any `yaml:"width,omitempty" json:"width,omitempty"`
	Height any `yaml:"height,omitempty" json:"height,omitempty"`
}

// Node is one box. Style values are CSS-like strings or numbers; numbers
// are pixels. A node with Text is a text leaf and must not have children.
type Node struct {
	ID       string         `yaml:"id,omitempty" json:"id,omitempty"`
	Style    map[string]any `yaml:"style,omitempty" json:"style,omitempty"`
	Text     string         `yaml:"text,omitempty" json:"text,omitempty"`
	Children []Node         `yaml:"children,omitempty" json:"children,omitempty"`
}

// Format is a fixture encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatForPath picks the encoding from the file extension. YAML is the
// default since it also accepts JSON.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Load reads and decodes the fixture at path. A leading ~ is expanded.
func Load(path string) (*Document, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand fixture path %q: %w", path, err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	doc, err := Decode(data, FormatForPath(expanded))
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Source = expanded
		}
		return nil, err
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(expanded), filepath.Ext(expanded))
	}
	observability.GetLogger().Debug("Loaded fixture.", zap.String("path", expanded), zap.String("name", doc.Name))
	return doc, nil
}

// strictJSON rejects unknown keys, matching the YAML decoder.
var strictJSON = json.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	DisallowUnknownFields:  true,
}.Froze()

// Decode parses a fixture document. Unknown keys are an error in either
// format.
func Decode(data []byte, format Format) (*Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatJSON:
		err = strictJSON.Unmarshal(data, &doc)
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&doc)
	}
	if err != nil {
		return nil, &ParseError{Path: "document", Err: err}
	}
	return &doc, nil
}

// AvailableSpace converts the viewport into the root's available space.
func (d *Document) AvailableSpace() (layout.Size[layout.AvailableSpace], error) {
	w, err := parseAvailable(d.Viewport.Width)
	if err != nil {
		return layout.MaxContentSize, &ParseError{Path: "viewport", Property: "width", Value: fmt.Sprint(d.Viewport.Width), Err: err}
	}
	h, err := parseAvailable(d.Viewport.Height)
	if err != nil {
		return layout.MaxContentSize, &ParseError{Path: "viewport", Property: "height", Value: fmt.Sprint(d.Viewport.Height), Err: err}
	}
	return layout.Size[layout.AvailableSpace]{Width: w, Height: h}, nil
}

// ParseAvailableSpace parses a viewport axis value as given on a command line.
func ParseAvailableSpace(value string) (layout.AvailableSpace, error) {
	return parseAvailable(value)
}

func parseAvailable(v any) (layout.AvailableSpace, error) {
	if v == nil {
		return layout.MaxContent, nil
	}
	switch s := strings.TrimSpace(fmt.Sprint(v)); s {
	case "", "max-content":
		return layout.MaxContent, nil
	case "min-content":
		return layout.MinContent, nil
	default:
		d, err := parseLengthPercentage(s)
		if err != nil || d.Kind != layout.DimLength {
			return layout.MaxContent, fmt.Errorf("expected pixels, min-content or max-content")
		}
		return layout.Definite(d.Value), nil
	}
}

// -- Tree Construction --

// Built maps fixture ids to the nodes created for them.
type Built struct {
	Root NodeId
	IDs  map[string]NodeId
}

// NodeId is re-exported for callers that only import fixture.
type NodeId = boxtree.NodeId

// Build creates the document's nodes in tree. Text leaves carry a *Text
// context; lay them out with ComputeLayoutWithMeasure and a Metrics.Measure.
func (d *Document) Build(tree *boxtree.Tree) (*Built, error) {
	b := &Built{IDs: make(map[string]NodeId)}
	root, err := b.build(tree, &d.Root, "root", gridNames{})
	if err != nil {
		return nil, err
	}
	b.Root = root
	return b, nil
}

func (b *Built) build(tree *boxtree.Tree, n *Node, path string, parent gridNames) (NodeId, error) {
	props := make(map[string]string, len(n.Style))
	for k, v := range n.Style {
		props[k] = fmt.Sprint(v)
	}
	style, own, err := parseStyle(props, parent)
	if err != nil {
		perr := &ParseError{Path: path, Err: err}
		var prop *propertyError
		if errors.As(err, &prop) {
			perr.Property, perr.Value, perr.Err = prop.property, prop.value, prop.err
		}
		return 0, perr
	}
	// display:contents children are placed in the grandparent's grid.
	if style.Display == layout.DisplayContents {
		own = parent
	}

	var id NodeId
	switch {
	case n.Text != "":
		if len(n.Children) > 0 {
			return 0, &ParseError{Path: path, Err: errors.New("a text node cannot have children")}
		}
		id = tree.NewLeafWithContext(style, &Text{Content: n.Text})
	case len(n.Children) == 0:
		id = tree.NewLeaf(style)
	default:
		children := make([]NodeId, 0, len(n.Children))
		for i := range n.Children {
			c, err := b.build(tree, &n.Children[i], fmt.Sprintf("%s.children[%d]", path, i), own)
			if err != nil {
				return 0, err
			}
			children = append(children, c)
		}
		if id, err = tree.NewWithChildren(style, children...); err != nil {
			return 0, err
		}
	}

	if n.ID != "" {
		if _, dup := b.IDs[n.ID]; dup {
			return 0, &ParseError{Path: path, Property: "id", Value: n.ID, Err: errors.New("duplicate id")}
		}
		b.IDs[n.ID] = id
	}
	return id, nil
}
