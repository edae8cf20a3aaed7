// Package initdata loads the init-data mapping handed to a component tree at
// attachment: model name to initial state.
//
// Files are YAML with a single top-level "models" mapping:
//
//	models:
//	  slider:
//	    min: 0
//	    max: 100
//	  track:
//	    scaleVisible: true
//
// Model names are NFC-normalized on load and on lookup. Entries are kept as
// parsed YAML nodes until a model decodes its own entry with Decode, so each
// model sees its state type's field names and defaults.
package initdata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Data maps model names to initial-state values.
type Data map[string]any

// Lookup returns the entry for name after normalization.
func (d Data) Lookup(name string) (any, bool) {
	v, ok := d[NormalizeName(name)]
	return v, ok
}

// Names returns the model names in no particular order.
func (d Data) Names() []string {
	names := make([]string, 0, len(d))
	for n := range d {
		names = append(names, n)
	}
	return names
}

// NormalizeName returns the canonical form of a model name.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// document is the on-disk layout.
type document struct {
	Models map[string]yaml.Node `yaml:"models"`
}

// ErrNoModels is returned when a file has no "models" mapping.
var ErrNoModels = errors.New("init data has no models")

// Load reads an init-data file.
func Load(path string) (Data, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open init data: %w", err)
	}
	defer f.Close()

	data, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// Parse decodes init data from r. Unknown top-level keys are rejected.
func Parse(r io.Reader) (Data, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoModels
		}
		return nil, fmt.Errorf("parse init data: %w", err)
	}
	if len(doc.Models) == 0 {
		return nil, ErrNoModels
	}

	data := make(Data, len(doc.Models))
	for name, node := range doc.Models {
		key := NormalizeName(name)
		if key == "" {
			return nil, fmt.Errorf("parse init data: empty model name")
		}
		if _, dup := data[key]; dup {
			return nil, fmt.Errorf("parse init data: model %q listed twice after normalization", key)
		}
		n := node
		data[key] = &n
	}
	return data, nil
}

// Decode converts an init-data entry into S.
//
// The entry may already be an S (programmatic callers), a YAML node (file
// callers) or any value YAML can marshal, such as map[string]any.
func Decode[S any](entry any) (S, error) {
	var s S
	switch v := entry.(type) {
	case nil:
		return s, fmt.Errorf("decode init data: nil entry")
	case *yaml.Node:
		if err := v.Decode(&s); err != nil {
			return s, fmt.Errorf("decode init data: %w", err)
		}
		return s, nil
	case yaml.Node:
		if err := v.Decode(&s); err != nil {
			return s, fmt.Errorf("decode init data: %w", err)
		}
		return s, nil
	case S:
		return v, nil
	}

	raw, err := yaml.Marshal(entry)
	if err != nil {
		return s, fmt.Errorf("decode init data: %w", err)
	}
	if err := yaml.NewDecoder(bytes.NewReader(raw)).Decode(&s); err != nil {
		return s, fmt.Errorf("decode init data: %w", err)
	}
	return s, nil
}

// Plain converts every entry into plain Go values (maps, slices, scalars),
// the shape CUE validation and JSON output expect.
func (d Data) Plain() (map[string]any, error) {
	out := make(map[string]any, len(d))
	for name, entry := range d {
		v, err := plain(entry)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

// plain round-trips entry through YAML so that structs come out as maps
// keyed by their yaml field names.
func plain(entry any) (any, error) {
	var out any
	switch v := entry.(type) {
	case nil:
		return nil, fmt.Errorf("decode init data: nil entry")
	case *yaml.Node:
		if err := v.Decode(&out); err != nil {
			return nil, fmt.Errorf("decode init data: %w", err)
		}
		return out, nil
	case yaml.Node:
		if err := v.Decode(&out); err != nil {
			return nil, fmt.Errorf("decode init data: %w", err)
		}
		return out, nil
	}

	raw, err := yaml.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("decode init data: %w", err)
	}
	if err := yaml.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode init data: %w", err)
	}
	return out, nil
}
