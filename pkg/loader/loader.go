// Package loader reads event documents and fills an event index with them.
//
// A document is YAML (or JSON) of the form
//
//	events:
//	  - id: deploy-42
//	    start: 2024-01-03T10:00:00Z
//	    end: 2024-01-03T10:20:00Z
//	    labels:
//	      kind: deploy
//
// Start and end are parsed by the unit of the index. An event without an
// end is an instant and ends where it starts.
package loader

import (
	"bytes"
	"io"
	"os"

	"github.com/henderiw/evtindex/pkg/eventindex"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Document struct {
	Events []EventSpec `yaml:"events" json:"events"`
}

type EventSpec struct {
	ID     string            `yaml:"id" json:"id"`
	Start  Value             `yaml:"start" json:"start"`
	End    Value             `yaml:"end,omitempty" json:"end,omitempty"`
	Labels map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`
}

// Value is the raw text of a start or end scalar, whatever its YAML type.
type Value string

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: expected a scalar value", node.Line)
	}
	*v = Value(node.Value)
	return nil
}

func Parse(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read event document")
	}
	doc := &Document{}
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, errors.Wrap(err, "decode event document")
	}
	return doc, nil
}

func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return doc, nil
}

// Load adds every event of doc to idx and returns how many were added. It
// stops at the first event that cannot be parsed or added.
func Load[V any](doc *Document, idx eventindex.Index[V]) (int, error) {
	u := idx.Unit()
	for i, spec := range doc.Events {
		if spec.ID == "" {
			return i, errors.Errorf("event %d: missing id", i)
		}
		start, err := u.Parse(string(spec.Start))
		if err != nil {
			return i, errors.Wrapf(err, "event %s: start", spec.ID)
		}
		end := start
		if spec.End != "" {
			end, err = u.Parse(string(spec.End))
			if err != nil {
				return i, errors.Wrapf(err, "event %s: end", spec.ID)
			}
		}
		if u.Compare(end, start) < 0 {
			return i, errors.Errorf("event %s: end %s is before start %s", spec.ID, u.Format(end), u.Format(start))
		}
		if err := idx.Add(eventindex.NewEvent(spec.ID, start, end, spec.Labels)); err != nil {
			return i, errors.Wrapf(err, "event %d", i)
		}
	}
	return len(doc.Events), nil
}

func LoadFile[V any](path string, idx eventindex.Index[V]) (int, error) {
	doc, err := ReadFile(path)
	if err != nil {
		return 0, err
	}
	return Load(doc, idx)
}
