package modelfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/spanlane/pkg/core/model"
	"github.com/matzehuels/spanlane/pkg/errors"
	"github.com/matzehuels/spanlane/pkg/models"
)

// Supported file formats.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Node kinds accepted in files, in addition to the [model.Kind] names.
const (
	KindGap  = "gap"
	KindCall = "call"
)

// Spec describes one node and its children.
type Spec struct {
	Label      string            `toml:"label" yaml:"label" json:"label"`
	Kind       string            `toml:"kind" yaml:"kind" json:"kind"`
	Span       *bool             `toml:"span" yaml:"span" json:"span,omitempty"`
	Service    string            `toml:"service" yaml:"service" json:"service,omitempty"`
	Attributes map[string]string `toml:"attributes" yaml:"attributes" json:"attributes,omitempty"`
	Duration   *float64          `toml:"duration" yaml:"duration" json:"duration,omitempty"`
	Mean       *float64          `toml:"mean" yaml:"mean" json:"mean,omitempty"`
	StdDev     float64           `toml:"std_dev" yaml:"std_dev" json:"std_dev,omitempty"`
	Overhead   *float64          `toml:"overhead" yaml:"overhead" json:"overhead,omitempty"`
	Children   []Spec            `toml:"children" yaml:"children" json:"children,omitempty"`
}

// Definition is a named model file.
type Definition struct {
	Name        string `toml:"name" yaml:"name" json:"name"`
	Description string `toml:"description" yaml:"description" json:"description,omitempty"`
	Spec        `yaml:",inline"`
}

// FormatFor returns the format implied by a file extension.
func FormatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported model file extension %q (want .toml, .yaml, .yml or .json)", filepath.Ext(path))
}

// IsModelFile reports whether path has a supported extension.
func IsModelFile(path string) bool {
	_, err := FormatFor(path)
	return err == nil
}

// Load reads and decodes a model file. A missing name defaults to the file
// name without extension.
func Load(path string) (Definition, error) {
	if err := errors.ValidatePath(path); err != nil {
		return Definition{}, err
	}
	format, err := FormatFor(path)
	if err != nil {
		return Definition{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Definition{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "model file %s", path)
		}
		return Definition{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	def, err := Decode(data, format)
	if err != nil {
		return Definition{}, fmt.Errorf("%s: %w", path, err)
	}
	if def.Name == "" {
		def.Name = strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}
	return def, nil
}

// LoadDir loads every model file directly inside dir, sorted by name.
// Files that fail to load are reported together in the returned error; the
// definitions that did load are still returned.
func LoadDir(dir string) ([]Definition, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve model dir")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read model dir %s", dir)
	}

	var defs []Definition
	var failed []string
	for _, e := range entries {
		if e.IsDir() || !IsModelFile(e.Name()) {
			continue
		}
		def, err := Load(filepath.Join(dir, e.Name()))
		if err != nil {
			failed = append(failed, err.Error())
			continue
		}
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	if len(failed) > 0 {
		return defs, errors.New(errors.ErrCodeInvalidModel, "%d model file(s) failed: %s", len(failed), strings.Join(failed, "; "))
	}
	return defs, nil
}

// Decode parses data in the given format.
func Decode(data []byte, format string) (Definition, error) {
	var def Definition
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &def)
		if err != nil {
			return Definition{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Definition{}, errors.New(errors.ErrCodeInvalidFormat, "unknown key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return Definition{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode yaml")
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&def); err != nil {
			return Definition{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
	default:
		return Definition{}, errors.New(errors.ErrCodeInvalidFormat, "unknown model file format %q", format)
	}
	if def.Name != "" {
		if err := errors.ValidateModelName(def.Name); err != nil {
			return Definition{}, err
		}
	}
	return def, nil
}

// Builder converts the definition's root node into a model builder.
func (d Definition) Builder() (model.Builder, error) {
	return d.Spec.Builder()
}

// Builder converts s and its children into a model builder. Structural
// mistakes (unknown kinds, missing durations, children on leaves) are
// reported here; value checks such as negative durations are left to the
// model constructors.
func (s Spec) Builder() (model.Builder, error) {
	return s.builder("root")
}

func (s Spec) builder(path string) (model.Builder, error) {
	if s.Label != "" {
		path = path + "/" + s.Label
	}

	var opts []model.Option
	if s.Span != nil {
		if *s.Span {
			opts = append(opts, model.WithSpan())
		} else {
			opts = append(opts, model.WithoutSpan())
		}
	}
	if s.Service != "" {
		opts = append(opts, model.WithService(s.Service))
	}
	for _, k := range slices.Sorted(maps.Keys(s.Attributes)) {
		opts = append(opts, model.WithAttribute(k, s.Attributes[k]))
	}

	switch s.Kind {
	case "constant", KindGap:
		if s.Duration == nil {
			return nil, errors.New(errors.ErrCodeInvalidModel, "%s: %s node needs a duration", path, s.Kind)
		}
		if err := s.noChildren(path); err != nil {
			return nil, err
		}
		if s.Kind == KindGap {
			label := s.Label
			if label == "" {
				label = models.GapLabel
			}
			return model.Constant(label, *s.Duration, append([]model.Option{model.WithoutSpan()}, opts...)...), nil
		}
		return model.Constant(s.Label, *s.Duration, opts...), nil

	case "normal":
		if s.Mean == nil {
			return nil, errors.New(errors.ErrCodeInvalidModel, "%s: normal node needs a mean", path)
		}
		if err := s.noChildren(path); err != nil {
			return nil, err
		}
		return model.Normal(s.Label, *s.Mean, s.StdDev, opts...), nil

	case "serial", "parallel", KindCall:
		children, err := s.children(path)
		if err != nil {
			return nil, err
		}
		switch s.Kind {
		case "serial":
			return model.Serial(s.Label, children, opts...), nil
		case "parallel":
			return model.Parallel(s.Label, children, opts...), nil
		}
		overhead := models.DefaultDuration
		if s.Overhead != nil {
			overhead = *s.Overhead
		}
		return models.WithOverhead(s.Label, overhead, children, append([]model.Option{model.WithSpan()}, opts...)...), nil

	case "":
		return nil, errors.New(errors.ErrCodeInvalidModel, "%s: missing kind", path)
	}
	return nil, errors.New(errors.ErrCodeInvalidModel, "%s: unknown kind %q", path, s.Kind)
}

func (s Spec) noChildren(path string) error {
	if len(s.Children) > 0 {
		return errors.New(errors.ErrCodeInvalidModel, "%s: %s node cannot have children", path, s.Kind)
	}
	return nil
}

func (s Spec) children(path string) ([]model.Builder, error) {
	out := make([]model.Builder, 0, len(s.Children))
	for i, c := range s.Children {
		b, err := c.builder(path + "[" + strconv.Itoa(i) + "]")
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// Entry converts the definition into a catalog entry.
func (d Definition) Entry() (models.Entry, error) {
	b, err := d.Builder()
	if err != nil {
		return models.Entry{}, err
	}
	return models.Entry{Name: d.Name, Description: d.Description, Builder: b}, nil
}
