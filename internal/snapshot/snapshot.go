// internal/snapshot/snapshot.go
package snapshot

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	json "github.com/json-iterator/go"
	"github.com/mitchellh/go-homedir"
	"go.uber.org/zap"

	"github.com/xkilldash9x/boxlayout/internal/reporting"
)

// ErrMismatch is returned when a run does not match its snapshot.
var ErrMismatch = errors.New("layouts differ from snapshot")

// Options controls what counts as a layout change.
type Options struct {
	// Tolerance is the largest absolute difference between two coordinates
	// that still compares equal.
	Tolerance float64

	// IgnoreNodeNumbers skips node handles, which shift whenever a fixture
	// gains or loses boxes.
	IgnoreNodeNumbers bool
	IgnorePaths       bool
}

// DefaultOptions tolerates sub-pixel noise and ignores node handles and
// fixture paths.
func DefaultOptions() Options {
	return Options{Tolerance: 0.01, IgnoreNodeNumbers: true, IgnorePaths: true}
}

// Status is the outcome of comparing one fixture.
type Status int

const (
	StatusMatch Status = iota
	StatusChanged
	StatusNew
	StatusRemoved
)

func (s Status) String() string {
	switch s {
	case StatusMatch:
		return "ok"
	case StatusChanged:
		return "changed"
	case StatusNew:
		return "new"
	case StatusRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Comparison is the result for a single fixture. Diff is go-cmp output
// with the snapshot as "-" and the new layout as "+".
type Comparison struct {
	Name   string
	Status Status
	Diff   string
}

// Comparer diffs layout documents against stored snapshots.
type Comparer struct {
	logger *zap.Logger
	opts   Options
}

// NewComparer creates a Comparer.
func NewComparer(logger *zap.Logger, opts Options) *Comparer {
	return &Comparer{logger: logger.Named("snapshot"), opts: opts}
}

// Compare diffs one document against its snapshot.
func (c *Comparer) Compare(expected, actual *reporting.Document) Comparison {
	res := Comparison{Name: actual.Name, Status: StatusMatch}
	if diff := cmp.Diff(expected, actual, c.cmpOptions()...); diff != "" {
		res.Status = StatusChanged
		res.Diff = diff
	}
	return res
}

// CompareAll diffs every actual document against the snapshot of the same
// name. Results follow the order of actual, then snapshots no longer
// produced, sorted by name.
func (c *Comparer) CompareAll(expected map[string]*reporting.Document, actual []*reporting.Document) []Comparison {
	seen := make(map[string]bool, len(actual))
	out := make([]Comparison, 0, len(actual))
	for _, doc := range actual {
		seen[doc.Name] = true
		want, ok := expected[doc.Name]
		if !ok {
			out = append(out, Comparison{Name: doc.Name, Status: StatusNew})
			continue
		}
		res := c.Compare(want, doc)
		if res.Status != StatusMatch {
			c.logger.Debug("Layout changed.", zap.String("fixture", doc.Name))
		}
		out = append(out, res)
	}

	var removed []string
	for name := range expected {
		if !seen[name] {
			removed = append(removed, name)
		}
	}
	sort.Strings(removed)
	for _, name := range removed {
		out = append(out, Comparison{Name: name, Status: StatusRemoved})
	}
	return out
}

func (c *Comparer) cmpOptions() cmp.Options {
	opts := cmp.Options{
		cmpopts.EquateEmpty(),
		cmpopts.IgnoreFields(reporting.Document{}, "RunID"),
	}
	if c.opts.Tolerance > 0 {
		opts = append(opts, cmpopts.EquateApprox(0, c.opts.Tolerance))
	}
	if c.opts.IgnoreNodeNumbers {
		opts = append(opts, cmpopts.IgnoreFields(reporting.Node{}, "Node"))
	}
	if c.opts.IgnorePaths {
		opts = append(opts, cmpopts.IgnoreFields(reporting.Document{}, "Path"))
	}
	return opts
}

// Load reads a snapshot written by the JSON reporter: one document per
// line, keyed by fixture name.
func Load(r io.Reader) (map[string]*reporting.Document, error) {
	docs := make(map[string]*reporting.Document)
	dec := json.NewDecoder(bufio.NewReader(r))
	for {
		var doc reporting.Document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode snapshot entry %d: %w", len(docs)+1, err)
		}
		if _, dup := docs[doc.Name]; dup {
			return nil, fmt.Errorf("duplicate snapshot entry %q", doc.Name)
		}
		docs[doc.Name] = &doc
	}
}

// LoadFile reads the snapshot at path. A leading ~ is expanded.
func LoadFile(path string) (map[string]*reporting.Document, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand snapshot path %s: %w", path, err)
	}
	f, err := os.Open(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Recorder is a reporting.Reporter that keeps documents in memory.
type Recorder struct {
	Documents []*reporting.Document
}

var _ reporting.Reporter = (*Recorder)(nil)

func (r *Recorder) Write(result *reporting.Result) error {
	doc, err := reporting.NewDocument(result)
	if err != nil {
		return err
	}
	r.Documents = append(r.Documents, doc)
	return nil
}

func (r *Recorder) Close() error { return nil }
