package resource

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"go-admin-panel/internal/model"
)

//go:embed resources.yaml
var defaultDefinitions []byte

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

type Registry struct {
	resources []*Resource
	byName    map[string]*Resource
}

type document struct {
	Resources []*Resource `yaml:"resources"`
}

// Default returns the registry compiled into the binary.
func Default() (*Registry, error) {
	return Load(bytes.NewReader(defaultDefinitions))
}

// LoadFile reads definitions from path, or the built-in set when path is empty.
func LoadFile(path string) (*Registry, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open resource definitions: %w", err)
	}
	defer f.Close()

	return Load(f)
}

func Load(r io.Reader) (*Registry, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode resource definitions: %w", err)
	}

	return New(doc.Resources...)
}

func New(resources ...*Resource) (*Registry, error) {
	reg := &Registry{byName: make(map[string]*Resource, len(resources))}

	var errs []error
	for _, res := range resources {
		normalize(res)
		if err := validate(res); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, exists := reg.byName[res.Name]; exists {
			errs = append(errs, fmt.Errorf("resource %q declared twice", res.Name))
			continue
		}

		reg.byName[res.Name] = res
		reg.resources = append(reg.resources, res)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return reg, nil
}

func (r *Registry) Get(name string) (*Resource, error) {
	res, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrUnknownResource, name)
	}

	return res, nil
}

// All returns resources in declaration order.
func (r *Registry) All() []*Resource {
	out := make([]*Resource, len(r.resources))
	copy(out, r.resources)
	return out
}

func normalize(res *Resource) {
	res.Name = strings.ToLower(strings.TrimSpace(res.Name))
	if res.Table == "" {
		res.Table = res.Name
	}
	if res.Title == "" && res.Name != "" {
		res.Title = strings.ToUpper(res.Name[:1]) + strings.ReplaceAll(res.Name[1:], "_", " ")
	}
	for i := range res.Fields {
		if res.Fields[i].Type == "" {
			res.Fields[i].Type = FieldText
		}
	}
	for i := range res.Columns {
		if res.Columns[i].Type == "" {
			res.Columns[i].Type = model.ColumnText
		}
		if res.Columns[i].Label == "" {
			res.Columns[i].Label = res.Columns[i].Key
		}
	}
	for i := range res.Actions {
		if res.Actions[i].Method == "" {
			res.Actions[i].Method = "GET"
		}
	}
}

func validate(res *Resource) error {
	if res.Name == "" {
		return errors.New("resource without a name")
	}

	var problems []string
	if !identifierPattern.MatchString(res.Table) {
		problems = append(problems, fmt.Sprintf("table %q is not a plain identifier", res.Table))
	}

	for _, f := range res.Fields {
		if !identifierPattern.MatchString(f.Name) {
			problems = append(problems, fmt.Sprintf("field %q is not a plain identifier", f.Name))
		}
		switch f.Type {
		case FieldText, FieldInt, FieldFloat, FieldBool, FieldTimestamp:
		default:
			problems = append(problems, fmt.Sprintf("field %q has unknown type %q", f.Name, f.Type))
		}
	}

	for _, c := range res.Columns {
		if !res.Known(c.Key) {
			problems = append(problems, fmt.Sprintf("column %q is not a field", c.Key))
		}
		switch c.Type {
		case model.ColumnText, model.ColumnStatus, model.ColumnDate:
		case model.ColumnTitleDescription:
			if c.SecondaryKey != "" && !res.Known(c.SecondaryKey) {
				problems = append(problems, fmt.Sprintf("column %q secondary key %q is not a field", c.Key, c.SecondaryKey))
			}
		default:
			problems = append(problems, fmt.Sprintf("column %q has unknown type %q", c.Key, c.Type))
		}
	}

	for _, name := range res.SearchFields {
		f, ok := res.Field(name)
		if !ok || f.Type != FieldText {
			problems = append(problems, fmt.Sprintf("search field %q is not a text field", name))
		}
	}

	for _, name := range res.FilterFields {
		if !res.Known(name) {
			problems = append(problems, fmt.Sprintf("filter field %q is not a field", name))
		}
	}

	if res.LabelField != "" && !res.Known(res.LabelField) {
		problems = append(problems, fmt.Sprintf("label field %q is not a field", res.LabelField))
	}

	if res.OrderField != "" && !res.Known(res.OrderField) {
		problems = append(problems, fmt.Sprintf("order field %q is not a field", res.OrderField))
	}

	if len(problems) > 0 {
		return fmt.Errorf("resource %q: %s", res.Name, strings.Join(problems, "; "))
	}

	return nil
}
