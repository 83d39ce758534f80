package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/davecgh/go-spew/spew"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Encoder writes a dump tree (see Tree) in one output format.
type Encoder interface {
	// Name returns the format name used by --format and the config file.
	Name() string

	// Encode writes tree to w.
	Encode(w io.Writer, tree map[string]any) error
}

var encoders = map[string]Encoder{}

// RegisterEncoder adds an encoder to the registry, replacing any encoder
// with the same name.
func RegisterEncoder(e Encoder) {
	encoders[e.Name()] = e
}

// LookupEncoder returns the encoder registered under name.
func LookupEncoder(name string) (Encoder, error) {
	e, ok := encoders[name]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (have %v)", name, Formats())
	}
	return e, nil
}

// Formats returns the registered format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	RegisterEncoder(JSON{Indent: "  "})
	RegisterEncoder(YAML{})
	RegisterEncoder(Msgpack{})
	RegisterEncoder(Spew{})
}

// JSON encodes the tree as JSON. An empty Indent writes compact output.
type JSON struct {
	Indent string
}

func (JSON) Name() string { return "json" }

func (j JSON) Encode(w io.Writer, tree map[string]any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if j.Indent != "" {
		enc.SetIndent("", j.Indent)
	}
	return enc.Encode(tree)
}

// YAML encodes the tree as a YAML document.
type YAML struct{}

func (YAML) Name() string { return "yaml" }

func (YAML) Encode(w io.Writer, tree map[string]any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(tree); err != nil {
		return err
	}
	return enc.Close()
}

// Msgpack encodes the tree as MessagePack with sorted map keys.
type Msgpack struct{}

func (Msgpack) Name() string { return "msgpack" }

func (Msgpack) Encode(w io.Writer, tree map[string]any) error {
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	return enc.Encode(tree)
}

// Spew writes a Go-syntax inspection dump.
type Spew struct{}

func (Spew) Name() string { return "spew" }

func (Spew) Encode(w io.Writer, tree map[string]any) error {
	cfg := spew.ConfigState{
		Indent:                  "  ",
		SortKeys:                true,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
	}
	cfg.Fdump(w, tree)
	return nil
}
