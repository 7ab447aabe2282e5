package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/mvsync/internal/ir"
)

// Scenario is a scripted interaction session with expectations on the
// final state.
type Scenario struct {
	// Name identifies the scenario and doubles as its journal session token.
	Name string `yaml:"name"`

	// Description explains what the scenario checks.
	Description string `yaml:"description,omitempty"`

	// MaxActionsPerTick overrides the engine's action budget when set.
	MaxActionsPerTick *int `yaml:"max_actions_per_tick,omitempty"`

	// Glyphs overrides checkmark and deleter texts when set.
	Glyphs *GlyphSpec `yaml:"glyphs,omitempty"`

	Steps  []Step `yaml:"steps"`
	Expect Expect `yaml:"expect,omitempty"`
}

// GlyphSpec overrides individual glyphs; empty fields keep the default.
type GlyphSpec struct {
	Checked   string `yaml:"checked,omitempty"`
	Unchecked string `yaml:"unchecked,omitempty"`
	Deleter   string `yaml:"deleter,omitempty"`
}

// Glyphs merges the overrides with the defaults.
func (g *GlyphSpec) glyphs() ir.Glyphs {
	out := ir.DefaultGlyphs()
	if g == nil {
		return out
	}
	if g.Checked != "" {
		out.Checked = g.Checked
	}
	if g.Unchecked != "" {
		out.Unchecked = g.Unchecked
	}
	if g.Deleter != "" {
		out.Deleter = g.Deleter
	}
	return out
}

// Step is one scripted interaction. Exactly one field is set.
type Step struct {
	// Type sends the full text of the focused view.
	Type *string `yaml:"type,omitempty"`

	// Key presses enter or escape.
	Key ir.Key `yaml:"key,omitempty"`

	// Press presses a view.
	Press *Target `yaml:"press,omitempty"`

	// Dispatch injects an action directly.
	Dispatch *DispatchStep `yaml:"dispatch,omitempty"`

	// Resize reports window metrics.
	Resize *ResizeStep `yaml:"resize,omitempty"`

	// Tick runs idle ticks.
	Tick int `yaml:"tick,omitempty"`
}

// Target names a view by role and, for todo roles, the todo's text.
type Target struct {
	Role ir.Role `yaml:"role"`
	Todo string  `yaml:"todo,omitempty"`
}

func (t Target) String() string {
	if t.Todo == "" {
		return string(t.Role)
	}
	return fmt.Sprintf("%s of %q", t.Role, t.Todo)
}

// DispatchStep names one action. Todos are addressed by text.
type DispatchStep struct {
	Create  *string `yaml:"create,omitempty"`
	Delete  string  `yaml:"delete,omitempty"`
	Check   string  `yaml:"check,omitempty"`
	Uncheck string  `yaml:"uncheck,omitempty"`
}

// ResizeStep carries window metrics.
type ResizeStep struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Expect lists the checks run after the last step. Unset fields are not
// checked.
type Expect struct {
	// Todos must match the live todos in creation order.
	Todos []TodoExpect `yaml:"todos,omitempty"`

	// Focus is the committed focus.
	Focus *FocusExpect `yaml:"focus,omitempty"`

	// Views are matched individually; other views are ignored.
	Views []ViewExpect `yaml:"views,omitempty"`

	// ViewCount is the number of live views.
	ViewCount *int `yaml:"view_count,omitempty"`

	// Skipped lists the codes of every skipped action, in order.
	Skipped []string `yaml:"skipped,omitempty"`

	// Golden names a golden scene render under testdata/golden.
	Golden string `yaml:"golden,omitempty"`
}

// TodoExpect describes one todo model.
type TodoExpect struct {
	Text    string `yaml:"text"`
	Checked *bool  `yaml:"checked,omitempty"`
	Editing *bool  `yaml:"editing,omitempty"`
}

// ViewExpect describes one view, located by Target.
type ViewExpect struct {
	Target   `yaml:",inline"`
	Text     *string   `yaml:"text,omitempty"`
	Style    *ir.Style `yaml:"style,omitempty"`
	Editable *bool     `yaml:"editable,omitempty"`
}

// FocusExpect is either "none", a bare role, or a role plus todo text.
type FocusExpect struct {
	None bool
	Target
}

// UnmarshalYAML accepts a scalar or a {role, todo} mapping.
func (f *FocusExpect) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Value == "none" {
			*f = FocusExpect{None: true}
			return nil
		}
		*f = FocusExpect{Target: Target{Role: ir.Role(node.Value)}}
		return nil
	case yaml.MappingNode:
		var t Target
		if err := node.Decode(&t); err != nil {
			return err
		}
		*f = FocusExpect{Target: t}
		return nil
	default:
		return fmt.Errorf("line %d: focus must be a string or a mapping", node.Line)
	}
}

func (f FocusExpect) String() string {
	if f.None {
		return "none"
	}
	return f.Target.String()
}

// LoadScenario reads, schema-checks and decodes a scenario file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields, or is semantically invalid.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScenario schema-checks and decodes a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}

	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}
	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// validateScenario checks what the schema cannot express.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	for i, step := range s.Steps {
		if n := step.fields(); n != 1 {
			return fmt.Errorf("steps[%d]: exactly one of type, key, press, dispatch, resize, tick must be set (got %d)", i, n)
		}
		if step.Press != nil {
			if err := step.Press.validate(); err != nil {
				return fmt.Errorf("steps[%d].press: %w", i, err)
			}
		}
		if step.Dispatch != nil && step.Dispatch.fields() != 1 {
			return fmt.Errorf("steps[%d].dispatch: exactly one of create, delete, check, uncheck must be set", i)
		}
	}
	for i, v := range s.Expect.Views {
		if err := v.Target.validate(); err != nil {
			return fmt.Errorf("expect.views[%d]: %w", i, err)
		}
	}
	if f := s.Expect.Focus; f != nil && !f.None {
		if err := f.Target.validate(); err != nil {
			return fmt.Errorf("expect.focus: %w", err)
		}
	}
	return nil
}

func (t Target) validate() error {
	if !t.Role.Valid() {
		return fmt.Errorf("unknown role %q", t.Role)
	}
	isInput := t.Role == ir.RoleInputBox || t.Role == ir.RoleInputLabel
	if isInput && t.Todo != "" {
		return fmt.Errorf("role %s takes no todo", t.Role)
	}
	if !isInput && t.Todo == "" {
		return fmt.Errorf("role %s needs a todo", t.Role)
	}
	return nil
}

func (s Step) fields() int {
	n := 0
	for _, set := range []bool{
		s.Type != nil,
		s.Key != "",
		s.Press != nil,
		s.Dispatch != nil,
		s.Resize != nil,
		s.Tick > 0,
	} {
		if set {
			n++
		}
	}
	return n
}

func (d DispatchStep) fields() int {
	n := 0
	for _, set := range []bool{d.Create != nil, d.Delete != "", d.Check != "", d.Uncheck != ""} {
		if set {
			n++
		}
	}
	return n
}
