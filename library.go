package sprout

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/sprout/behavior"
	"github.com/phanxgames/sprout/easing"
)

var (
	// ErrUnknownBehavior is returned when a behavior name is not defined.
	ErrUnknownBehavior = errors.New("sprout: unknown behavior")
	// ErrUnknownCallback is returned when a call animation names a callback
	// that was not registered.
	ErrUnknownCallback = errors.New("sprout: unknown callback")
)

// Library is a set of named behaviors loaded from YAML:
//
//	behaviors:
//	  pulse:
//	    sequence:
//	      - action: {type: scale_to, duration: 0.2, x: 1.2, y: 1.2, ease: quadratic_out}
//	      - action: {type: scale_to, duration: 0.2, x: 1, y: 1}
//	  vanish:
//	    sequence:
//	      - ref: pulse
//	      - action: {type: fade_out, duration: 1}
//	      - action: {type: call, call: on_vanished}
//
// Every node has exactly one key: action, wait, wait_forever, sequence,
// select, when_all, when_any, repeat {times, do}, invert, always_succeed,
// if {cond, then, else}, while {cond, do} or ref.
//
// Callbacks used by call actions must be registered before loading. A
// callback name maps to one Call value, so behaviors built from the same
// name compare equal.
type Library struct {
	callbacks map[string]Call
	behaviors map[string]Behavior
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{
		callbacks: make(map[string]Call),
		behaviors: make(map[string]Behavior),
	}
}

// LoadLibrary parses data into a new library with no callbacks.
func LoadLibrary(data []byte) (*Library, error) {
	lib := NewLibrary()
	if err := lib.Load(data); err != nil {
		return nil, err
	}
	return lib, nil
}

// RegisterCallback makes cb available to call actions under name.
// Re-registering a name replaces the callback for future loads.
func (l *Library) RegisterCallback(name string, cb Callback) {
	l.callbacks[name] = NewCall(cb)
}

// Callback returns the Call registered under name.
func (l *Library) Callback(name string) (Call, bool) {
	c, ok := l.callbacks[name]
	return c, ok
}

// LoadFile reads and loads a YAML library file.
func (l *Library) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read library %s: %w", path, err)
	}
	if err := l.Load(data); err != nil {
		return fmt.Errorf("load library %s: %w", path, err)
	}
	return nil
}

// Load replaces the library's behaviors with those defined in data. On error
// the previous behaviors are kept.
func (l *Library) Load(data []byte) error {
	var doc struct {
		Behaviors map[string]nodeSpec `yaml:"behaviors"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse library: %w", err)
	}

	b := &libraryBuilder{
		lib:      l,
		specs:    doc.Behaviors,
		built:    make(map[string]Behavior, len(doc.Behaviors)),
		visiting: make(map[string]bool),
	}
	for _, name := range slices.Sorted(maps.Keys(doc.Behaviors)) {
		if _, err := b.resolve(name); err != nil {
			return err
		}
	}
	l.behaviors = b.built
	return nil
}

// Behavior returns the named behavior.
func (l *Library) Behavior(name string) (Behavior, error) {
	b, ok := l.behaviors[name]
	if !ok {
		return Behavior{}, fmt.Errorf("%w: %q", ErrUnknownBehavior, name)
	}
	return b, nil
}

// Names returns the defined behavior names in sorted order.
func (l *Library) Names() []string {
	return slices.Sorted(maps.Keys(l.behaviors))
}

// nodeSpec is one undecoded behavior node.
type nodeSpec struct {
	kind  string
	value *yaml.Node
	line  int
}

func (n *nodeSpec) UnmarshalYAML(v *yaml.Node) error {
	if v.Kind != yaml.MappingNode || len(v.Content) != 2 {
		return fmt.Errorf("line %d: behavior node must be a mapping with exactly one key", v.Line)
	}
	n.kind = v.Content[0].Value
	n.value = v.Content[1]
	n.line = v.Line
	return nil
}

type animationSpec struct {
	Type     string  `yaml:"type"`
	Duration float64 `yaml:"duration"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Deg      float64 `yaml:"deg"`
	Opacity  float64 `yaml:"opacity"`
	Times    int     `yaml:"times"`
	Flip     bool    `yaml:"flip"`
	Ease     string  `yaml:"ease"`
	Call     string  `yaml:"call"`
}

type libraryBuilder struct {
	lib      *Library
	specs    map[string]nodeSpec
	built    map[string]Behavior
	visiting map[string]bool
}

func (b *libraryBuilder) resolve(name string) (Behavior, error) {
	if bh, ok := b.built[name]; ok {
		return bh, nil
	}
	spec, ok := b.specs[name]
	if !ok {
		return Behavior{}, fmt.Errorf("%w: %q", ErrUnknownBehavior, name)
	}
	if b.visiting[name] {
		return Behavior{}, fmt.Errorf("behavior %q: reference cycle", name)
	}
	b.visiting[name] = true
	defer delete(b.visiting, name)

	bh, err := b.build(spec)
	if err != nil {
		return Behavior{}, fmt.Errorf("behavior %q: %w", name, err)
	}
	b.built[name] = bh
	return bh, nil
}

func (b *libraryBuilder) build(n nodeSpec) (Behavior, error) {
	switch n.kind {
	case "action":
		var spec animationSpec
		if err := n.value.Decode(&spec); err != nil {
			return Behavior{}, err
		}
		a, err := b.animation(spec)
		if err != nil {
			return Behavior{}, fmt.Errorf("line %d: %w", n.line, err)
		}
		return Action(a), nil

	case "wait":
		var seconds float64
		if err := n.value.Decode(&seconds); err != nil {
			return Behavior{}, err
		}
		return Wait(seconds), nil

	case "wait_forever":
		return WaitForever(), nil

	case "sequence", "select", "when_all", "when_any":
		children, err := b.list(n.value)
		if err != nil {
			return Behavior{}, err
		}
		switch n.kind {
		case "sequence":
			return behavior.Sequence(children...), nil
		case "select":
			return behavior.Select(children...), nil
		case "when_all":
			return behavior.WhenAll(children...), nil
		default:
			return behavior.WhenAny(children...), nil
		}

	case "repeat":
		var spec struct {
			Times int      `yaml:"times"`
			Do    nodeSpec `yaml:"do"`
		}
		if err := n.value.Decode(&spec); err != nil {
			return Behavior{}, err
		}
		body, err := b.build(spec.Do)
		if err != nil {
			return Behavior{}, err
		}
		return behavior.Repeat(spec.Times, body), nil

	case "invert", "always_succeed":
		var spec nodeSpec
		if err := n.value.Decode(&spec); err != nil {
			return Behavior{}, err
		}
		child, err := b.build(spec)
		if err != nil {
			return Behavior{}, err
		}
		if n.kind == "invert" {
			return behavior.Invert(child), nil
		}
		return behavior.AlwaysSucceed(child), nil

	case "if":
		var spec struct {
			Cond nodeSpec `yaml:"cond"`
			Then nodeSpec `yaml:"then"`
			Else nodeSpec `yaml:"else"`
		}
		if err := n.value.Decode(&spec); err != nil {
			return Behavior{}, err
		}
		var parts [3]Behavior
		for i, s := range []nodeSpec{spec.Cond, spec.Then, spec.Else} {
			bh, err := b.build(s)
			if err != nil {
				return Behavior{}, err
			}
			parts[i] = bh
		}
		return behavior.If(parts[0], parts[1], parts[2]), nil

	case "while":
		var spec struct {
			Cond nodeSpec  `yaml:"cond"`
			Do   yaml.Node `yaml:"do"`
		}
		if err := n.value.Decode(&spec); err != nil {
			return Behavior{}, err
		}
		cond, err := b.build(spec.Cond)
		if err != nil {
			return Behavior{}, err
		}
		body, err := b.list(&spec.Do)
		if err != nil {
			return Behavior{}, err
		}
		return behavior.While(cond, body...), nil

	case "ref":
		var name string
		if err := n.value.Decode(&name); err != nil {
			return Behavior{}, err
		}
		return b.resolve(name)

	case "":
		return Behavior{}, fmt.Errorf("line %d: missing behavior node", n.line)
	}
	return Behavior{}, fmt.Errorf("line %d: unknown behavior node %q", n.line, n.kind)
}

func (b *libraryBuilder) list(v *yaml.Node) ([]Behavior, error) {
	var specs []nodeSpec
	if v.Kind != 0 {
		if err := v.Decode(&specs); err != nil {
			return nil, err
		}
	}
	out := make([]Behavior, 0, len(specs))
	for _, s := range specs {
		bh, err := b.build(s)
		if err != nil {
			return nil, err
		}
		out = append(out, bh)
	}
	return out, nil
}

func (b *libraryBuilder) animation(s animationSpec) (Animation, error) {
	var a Animation
	switch s.Type {
	case "move_to":
		a = MoveTo{Duration: s.Duration, X: s.X, Y: s.Y}
	case "move_by":
		a = MoveBy{Duration: s.Duration, X: s.X, Y: s.Y}
	case "rotate_to":
		a = RotateTo{Duration: s.Duration, Deg: s.Deg}
	case "rotate_by":
		a = RotateBy{Duration: s.Duration, Deg: s.Deg}
	case "scale_to":
		a = ScaleTo{Duration: s.Duration, X: s.X, Y: s.Y}
	case "scale_by":
		a = ScaleBy{Duration: s.Duration, X: s.X, Y: s.Y}
	case "flip_x":
		a = FlipX{Flip: s.Flip}
	case "flip_y":
		a = FlipY{Flip: s.Flip}
	case "show":
		a = Show{}
	case "hide":
		a = Hide{}
	case "toggle_visibility":
		a = ToggleVisibility{}
	case "blink":
		a = Blink{Duration: s.Duration, Times: s.Times}
	case "fade_in":
		a = FadeIn{Duration: s.Duration}
	case "fade_out":
		a = FadeOut{Duration: s.Duration}
	case "fade_to":
		a = FadeTo{Duration: s.Duration, Opacity: s.Opacity}
	case "call":
		c, ok := b.lib.callbacks[s.Call]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCallback, s.Call)
		}
		a = c
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidAnimation, s.Type)
	}

	if s.Ease != "" {
		fn, err := easing.Parse(s.Ease)
		if err != nil {
			return nil, err
		}
		a = Ease{Func: fn, Animation: a}
	}
	if err := Validate(a); err != nil {
		return nil, err
	}
	return a, nil
}
