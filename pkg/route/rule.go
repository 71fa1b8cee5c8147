package route

import (
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Field is one mapping value of a routing rule: either a literal string or a
// capture-group index into the pattern match. The zero value is null.
type Field struct {
	literal string
	index   int
	isIndex bool
}

// Literal returns a field that always resolves to s.
func Literal(s string) Field {
	return Field{literal: s}
}

// Group returns a field that resolves to the i-th capture group.
func Group(i int) Field {
	return Field{index: i, isIndex: true}
}

// IsZero reports whether the field is null.
func (f Field) IsZero() bool {
	return !f.isIndex && f.literal == ""
}

// String returns the literal, or "$i" for a capture group.
func (f Field) String() string {
	if f.isIndex {
		return "$" + strconv.Itoa(f.index)
	}
	return f.literal
}

func (f Field) resolve(match []string) string {
	if !f.isIndex {
		return f.literal
	}
	if f.index < 0 || f.index >= len(match) {
		return ""
	}
	return match[f.index]
}

// UnmarshalYAML decodes integers as capture-group indexes and strings as
// literals. Null leaves the field zero.
func (f *Field) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d: expected scalar", ErrInvalidField, value.Line)
	}
	switch value.Tag {
	case "!!null":
		*f = Field{}
	case "!!int":
		i, err := strconv.Atoi(value.Value)
		if err != nil {
			return errors.Join(ErrInvalidField, err)
		}
		*f = Group(i)
	default:
		*f = Literal(value.Value)
	}
	return nil
}

// Mapping decides the route produced by a matching rule.
type Mapping struct {
	Action Field
	Method Field
	Extra  []Field

	// Sequence resolves Extra into an ordered sequence even when it holds a
	// single field. With more than one field the result is always a sequence.
	Sequence bool
}

func (m Mapping) resolve(match []string, defaultAction string) Route {
	r := Route{
		Action: m.Action.resolve(match),
		Method: m.Method.resolve(match),
	}
	if r.Action == "" {
		r.Action = defaultAction
	}

	switch {
	case len(m.Extra) == 0:
	case len(m.Extra) == 1 && !m.Sequence:
		r.Extra = Scalar(m.Extra[0].resolve(match))
	default:
		values := make([]string, len(m.Extra))
		for i, f := range m.Extra {
			values[i] = f.resolve(match)
		}
		r.Extra = Sequence(values...)
	}
	return r
}

// Rule pairs a compiled pattern with the mapping applied when it matches.
type Rule struct {
	pattern *regexp.Regexp
	source  string
	mapping Mapping
}

// NewRule compiles pattern and validates the mapping's group indexes.
// The pattern must match the whole cleaned path; it is anchored on compile.
func NewRule(pattern string, m Mapping) (Rule, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return Rule{}, fmt.Errorf("%w: %q: %w", ErrInvalidRule, pattern, err)
	}

	fields := append([]Field{m.Action, m.Method}, m.Extra...)
	for _, f := range fields {
		if f.isIndex && (f.index < 0 || f.index > re.NumSubexp()) {
			return Rule{}, fmt.Errorf("%w: %q has no capture group %d", ErrInvalidField, pattern, f.index)
		}
	}

	return Rule{pattern: re, source: pattern, mapping: m}, nil
}

// MustRule is like NewRule but panics on error.
// Intended for rule tables declared in code.
func MustRule(pattern string, m Mapping) Rule {
	r, err := NewRule(pattern, m)
	if err != nil {
		panic(err)
	}
	return r
}

// Pattern returns the pattern as declared.
func (r Rule) Pattern() string {
	return r.source
}

// Mapping returns the rule's mapping.
func (r Rule) Mapping() Mapping {
	return r.mapping
}

func (r Rule) match(path string) ([]string, bool) {
	if r.pattern == nil {
		return nil, false
	}
	m := r.pattern.FindStringSubmatch(path)
	return m, m != nil
}

// RuleSpec is the declarative form of a rule as found in configuration files.
type RuleSpec struct {
	Extra   yaml.Node `yaml:"extra"`
	Pattern string    `yaml:"pattern"`
	Action  Field     `yaml:"action"`
	Method  Field     `yaml:"method"`
}

// Compile turns the declarative rule into a Rule.
func (s RuleSpec) Compile() (Rule, error) {
	m := Mapping{Action: s.Action, Method: s.Method}

	switch s.Extra.Kind {
	case 0:
	case yaml.SequenceNode:
		m.Sequence = true
		for _, n := range s.Extra.Content {
			var f Field
			if err := n.Decode(&f); err != nil {
				return Rule{}, err
			}
			m.Extra = append(m.Extra, f)
		}
	default:
		var f Field
		if err := s.Extra.Decode(&f); err != nil {
			return Rule{}, err
		}
		if !f.IsZero() {
			m.Extra = []Field{f}
		}
	}

	return NewRule(s.Pattern, m)
}

// CompileRules compiles specs in declaration order.
func CompileRules(specs []RuleSpec) ([]Rule, error) {
	rules := make([]Rule, 0, len(specs))
	for i, s := range specs {
		r, err := s.Compile()
		if err != nil {
			return nil, fmt.Errorf("routing rule %d: %w", i, err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// LoadRules reads a YAML document with a top-level "routing" list.
func LoadRules(r io.Reader) ([]Rule, error) {
	var doc struct {
		Routing []RuleSpec `yaml:"routing"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(ErrReadRules, err)
	}
	return CompileRules(doc.Routing)
}

// LoadRulesFile is LoadRules for a file path.
func LoadRulesFile(path string) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrReadRules, err)
	}
	defer f.Close()
	return LoadRules(f)
}
