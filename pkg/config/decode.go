package config

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/tribble/pkg/domain"
	"github.com/aretw0/tribble/pkg/schema"
)

const (
	keyLanguages = "languages"
	keyWorkflows = "workflows"
	keyErrMsg    = "input_err_msg"
	keySchema    = "$schema"
	rootPath     = "(root)"
)

// rawProgression is a progression element as written in YAML.
type rawProgression struct {
	Text string   `mapstructure:"text"`
	Link string   `mapstructure:"link"`
	Tags []string `mapstructure:"tags"`
}

// rawInput covers both input shapes. The presence of options selects the
// select variant.
type rawInput struct {
	ID       string   `mapstructure:"id"`
	Label    string   `mapstructure:"label"`
	Optional bool     `mapstructure:"optional"`
	Default  any      `mapstructure:"default"`
	Type     string   `mapstructure:"type"`
	Min      *int     `mapstructure:"min"`
	Max      *int     `mapstructure:"max"`
	Tags     []string `mapstructure:"tags"`
	Options  []any    `mapstructure:"options"`
	Multiple bool     `mapstructure:"can_select_multiple"`
}

type rawOption struct {
	Text string   `mapstructure:"text"`
	Tags []string `mapstructure:"tags"`
}

type rawReport struct {
	Preamble string `mapstructure:"preamble"`
	Text     string `mapstructure:"text"`
}

// decoder walks a YAML node tree and collects every shape problem it finds.
type decoder struct {
	errs schema.AggregateError
}

func (d *decoder) fail(path string, n *yaml.Node, reason string) {
	if n != nil && n.Line > 0 {
		reason = fmt.Sprintf("%s (line %d)", reason, n.Line)
	}
	d.errs.Add(path, reason, nil)
}

type pair struct {
	key   string
	value *yaml.Node
}

// pairs returns the entries of a mapping node in document order.
func pairs(n *yaml.Node) []pair {
	out := make([]pair, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		out = append(out, pair{key: n.Content[i].Value, value: resolve(n.Content[i+1])})
	}
	return out
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// isString reports whether n is a string scalar. Unquoted numbers and
// booleans are not strings.
func isString(n *yaml.Node) bool {
	return n != nil && n.Kind == yaml.ScalarNode && n.Tag == "!!str"
}

func (d *decoder) expect(path string, n *yaml.Node, kind yaml.Kind, what string) bool {
	if n == nil || n.Kind != kind {
		d.fail(path, n, "expected "+what)
		return false
	}
	return true
}

func (d *decoder) scalar(path string, n *yaml.Node) (string, bool) {
	if !isString(n) {
		d.fail(path, n, "expected a string")
		return "", false
	}
	return n.Value, true
}

func (d *decoder) strings(path string, n *yaml.Node) []string {
	if !d.expect(path, n, yaml.SequenceNode, "a list of strings") {
		return nil
	}
	out := make([]string, 0, len(n.Content))
	for i, item := range n.Content {
		if s, ok := d.scalar(fmt.Sprintf("%s[%d]", path, i), resolve(item)); ok {
			out = append(out, s)
		}
	}
	return out
}

func (d *decoder) unknown(path string, p pair) {
	d.fail(path, p.value, fmt.Sprintf("unknown key %q", p.key))
}

func (d *decoder) document(n *yaml.Node) *domain.Config {
	n = resolve(n)
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = resolve(n.Content[0])
	}
	if n.Kind != yaml.MappingNode {
		d.fail(rootPath, n, "expected a mapping")
		return nil
	}

	var hasLanguages, hasWorkflows bool
	for _, p := range pairs(n) {
		switch p.key {
		case keyLanguages:
			hasLanguages = true
		case keyWorkflows:
			hasWorkflows = true
		}
	}

	switch {
	case hasLanguages && hasWorkflows:
		d.fail(rootPath, n, "a document declares either languages or workflows, not both")
		return nil
	case hasLanguages:
		return d.root(n)
	case hasWorkflows:
		return d.language(n)
	}
	d.fail(rootPath, n, "expected languages (root config) or workflows (language config)")
	return nil
}

func (d *decoder) root(n *yaml.Node) *domain.Config {
	cfg := &domain.Config{Kind: domain.ConfigRoot, Languages: make(map[string]string)}
	for _, p := range pairs(n) {
		switch p.key {
		case keySchema:
		case keyLanguages:
			if !d.expect(keyLanguages, p.value, yaml.MappingNode, "a mapping of locale to file") {
				continue
			}
			for _, lang := range pairs(p.value) {
				if file, ok := d.scalar(keyLanguages+"."+lang.key, lang.value); ok {
					cfg.Languages[lang.key] = file
				}
			}
		default:
			d.unknown(rootPath, p)
		}
	}
	return cfg
}

func (d *decoder) language(n *yaml.Node) *domain.Config {
	cfg := &domain.Config{
		Kind:              domain.ConfigLanguage,
		InputErrorMessage: domain.DefaultInputErrorMessage,
		Workflows:         make(map[string]*domain.Workflow),
	}
	for _, p := range pairs(n) {
		switch p.key {
		case keySchema:
		case keyErrMsg:
			if msg, ok := d.scalar(keyErrMsg, p.value); ok {
				cfg.InputErrorMessage = msg
			}
		case keyWorkflows:
			if !d.expect(keyWorkflows, p.value, yaml.MappingNode, "a mapping of workflow name to workflow") {
				continue
			}
			for _, wf := range pairs(p.value) {
				cfg.Workflows[wf.key] = d.workflow(wf.key, wf.value)
			}
		default:
			d.unknown(rootPath, p)
		}
	}
	return cfg
}

func (d *decoder) workflow(name string, n *yaml.Node) *domain.Workflow {
	path := keyWorkflows + "." + name
	wf := &domain.Workflow{
		Name:      name,
		Sections:  make(map[string]domain.Section),
		Endpoints: make(map[string]domain.Endpoint),
	}
	if !d.expect(path, n, yaml.MappingNode, "a workflow mapping") {
		return wf
	}

	seen := make(map[string]bool)
	for _, p := range pairs(n) {
		seen[p.key] = true
		switch p.key {
		case "tags":
			wf.Tags = d.strings(path+".tags", p.value)
		case "index":
			wf.Index, _ = d.scalar(path+".index", p.value)
		case "sections":
			if !d.expect(path+".sections", p.value, yaml.MappingNode, "a mapping of section name to elements") {
				continue
			}
			for _, s := range pairs(p.value) {
				wf.Sections[s.key] = d.section(path+".sections."+s.key, s.value)
			}
		case "endpoints":
			if !d.expect(path+".endpoints", p.value, yaml.MappingNode, "a mapping of endpoint name to endpoint") {
				continue
			}
			for _, e := range pairs(p.value) {
				if ep, ok := d.endpoint(path+".endpoints."+e.key, e.value); ok {
					wf.Endpoints[e.key] = ep
				}
			}
		default:
			d.unknown(path, p)
		}
	}
	for _, key := range []string{"index", "sections", "endpoints"} {
		if !seen[key] {
			d.fail(path, n, "missing required key "+key)
		}
	}
	return wf
}

func (d *decoder) section(path string, n *yaml.Node) domain.Section {
	if !d.expect(path, n, yaml.SequenceNode, "a list of elements") {
		return nil
	}
	sec := make(domain.Section, 0, len(n.Content))
	for i, item := range n.Content {
		if elem, ok := d.element(fmt.Sprintf("%s[%d]", path, i), resolve(item)); ok {
			sec = append(sec, elem)
		}
	}
	return sec
}

func (d *decoder) element(path string, n *yaml.Node) (domain.SectionElement, bool) {
	switch n.Kind {
	case yaml.ScalarNode:
		if !isString(n) {
			d.fail(path, n, "text element must be a string")
			return domain.SectionElement{}, false
		}
		return domain.TextElement(n.Value), true
	case yaml.MappingNode:
		var m map[string]any
		if err := n.Decode(&m); err != nil {
			d.fail(path, n, err.Error())
			return domain.SectionElement{}, false
		}
		if _, ok := m["id"]; ok {
			return d.input(path, n, m)
		}
		if _, ok := m["link"]; ok {
			return d.progression(path, n, m)
		}
	}
	d.fail(path, n, "element must be text, a progression (text, link) or an input (id, label)")
	return domain.SectionElement{}, false
}

func (d *decoder) progression(path string, n *yaml.Node, m map[string]any) (domain.SectionElement, bool) {
	if !d.present(path, n, m) {
		return domain.SectionElement{}, false
	}
	var raw rawProgression
	if err := decodeStrict(m, &raw); err != nil {
		d.fail(path, n, err.Error())
		return domain.SectionElement{}, false
	}
	if _, ok := m["text"]; !ok {
		d.fail(path, n, "progression requires text")
	}
	if raw.Link == "" {
		d.fail(path+".link", n, "must not be empty")
	}
	return domain.ProgressionElement(domain.Progression{Text: raw.Text, Link: raw.Link, Tags: raw.Tags}), true
}

func (d *decoder) input(path string, n *yaml.Node, m map[string]any) (domain.SectionElement, bool) {
	if !d.present(path, n, m) || !d.integers(path, n, m, "min", "max") {
		return domain.SectionElement{}, false
	}
	var raw rawInput
	if err := decodeStrict(m, &raw); err != nil {
		d.fail(path, n, err.Error())
		return domain.SectionElement{}, false
	}

	in := domain.InputElement{ID: raw.ID, Label: raw.Label, Optional: raw.Optional}
	if raw.ID == "" {
		d.fail(path+".id", n, "must not be empty")
	}
	if _, ok := m["label"]; !ok {
		d.fail(path, n, "input requires a label")
	}
	if v, ok := m["default"]; ok {
		s, ok := scalarString(v)
		if !ok {
			d.fail(path+".default", n, "must be a string, number or boolean")
		}
		in.Default = &s
	}

	if _, isSelect := m["options"]; isSelect {
		for _, key := range []string{"type", "min", "max", "tags"} {
			if _, ok := m[key]; ok {
				d.fail(path, n, fmt.Sprintf("%s is not valid on a select input", key))
			}
		}
		sel := &domain.SelectInput{Multiple: raw.Multiple}
		for i, o := range raw.Options {
			if opt, ok := d.option(fmt.Sprintf("%s.options[%d]", path, i), n, o); ok {
				sel.Options = append(sel.Options, opt)
			}
		}
		in.Select = sel
		return domain.InputElementOf(in), true
	}

	if _, ok := m["can_select_multiple"]; ok {
		d.fail(path, n, "can_select_multiple is only valid on a select input")
	}
	t, ok := domain.ParseInputType(raw.Type)
	if !ok {
		d.fail(path+".type", n, fmt.Sprintf("unknown input type %q", raw.Type))
		return domain.SectionElement{}, false
	}
	in.TextLike = &domain.TextInput{Type: t, Min: raw.Min, Max: raw.Max, Tags: raw.Tags}
	return domain.InputElementOf(in), true
}

func (d *decoder) option(path string, n *yaml.Node, o any) (domain.SelectOption, bool) {
	if m, ok := o.(map[string]any); ok {
		if !d.present(path, n, m) {
			return domain.SelectOption{}, false
		}
		var raw rawOption
		if err := decodeStrict(m, &raw); err != nil {
			d.fail(path, n, err.Error())
			return domain.SelectOption{}, false
		}
		if _, ok := m["text"]; !ok {
			d.fail(path, n, "option requires text")
		}
		return domain.SelectOption{Text: raw.Text, Tags: raw.Tags}, true
	}
	if s, ok := o.(string); ok {
		return domain.SelectOption{Text: s}, true
	}
	d.fail(path, n, "option must be a string or a mapping with text and tags")
	return domain.SelectOption{}, false
}

func (d *decoder) endpoint(path string, n *yaml.Node) (domain.Endpoint, bool) {
	switch n.Kind {
	case yaml.ScalarNode:
		if !isString(n) {
			break
		}
		return domain.Endpoint{Kind: domain.EndpointInstructional, Text: n.Value}, true
	case yaml.MappingNode:
		var m map[string]any
		if err := n.Decode(&m); err != nil {
			d.fail(path, n, err.Error())
			return domain.Endpoint{}, false
		}
		if !d.present(path, n, m) {
			return domain.Endpoint{}, false
		}
		var raw rawReport
		if err := decodeStrict(m, &raw); err != nil {
			d.fail(path, n, err.Error())
			return domain.Endpoint{}, false
		}
		for _, key := range []string{"preamble", "text"} {
			if _, ok := m[key]; !ok {
				d.fail(path, n, "report endpoint requires "+key)
			}
		}
		return domain.Endpoint{Kind: domain.EndpointReport, Preamble: raw.Preamble, Text: raw.Text}, true
	}
	d.fail(path, n, "endpoint must be instruction text or a mapping with preamble and text")
	return domain.Endpoint{}, false
}

// present fails every key of m written with a null value.
func (d *decoder) present(path string, n *yaml.Node, m map[string]any) bool {
	ok := true
	for _, key := range slices.Sorted(maps.Keys(m)) {
		if m[key] == nil {
			d.fail(path+"."+key, n, "must not be null")
			ok = false
		}
	}
	return ok
}

// integers fails the given keys of m when they hold a fractional number,
// which mapstructure would truncate.
func (d *decoder) integers(path string, n *yaml.Node, m map[string]any, keys ...string) bool {
	ok := true
	for _, key := range keys {
		if f, isFloat := m[key].(float64); isFloat && f != math.Trunc(f) {
			d.fail(path+"."+key, n, "must be an integer")
			ok = false
		}
	}
	return ok
}

// decodeStrict decodes m into out, rejecting keys out does not declare.
func decodeStrict(m map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(m)
}

func scalarString(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}
