// Package behavior implements a small, generic behavior tree.
//
// A [Behavior] is an immutable description: leaf actions combined with
// sequence, select, parallel (when-all / when-any), repeat, conditional and
// decorator nodes. A [State] is the runtime walk of one Behavior. Each call
// to [State.Tick] advances the tree by a time delta and calls back into a
// caller-supplied [Leaf] for every action it reaches. Leaves report a
// [Status] and the part of the delta they did not use, which sequences hand
// on to the next child within the same tick.
//
// The package owns no leaf semantics: the action type A and the per-action
// runtime state S belong to the caller.
package behavior

import "fmt"

// Status is the result of ticking a behavior.
type Status uint8

const (
	Running Status = iota // still in progress; tick again
	Success               // finished successfully
	Failure               // finished unsuccessfully
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return fmt.Sprintf("behavior.Status(%d)", uint8(s))
	}
}

// Kind identifies the node type of a Behavior.
type Kind uint8

const (
	KindAction        Kind = iota // leaf action
	KindWait                      // succeed after a number of seconds
	KindWaitForever               // never finish
	KindSequence                  // children in order until one fails
	KindSelect                    // children in order until one succeeds
	KindWhenAll                   // children in parallel, succeed when all succeed
	KindWhenAny                   // children in parallel, succeed when any succeeds
	KindRepeat                    // run the body a number of times (0 = forever)
	KindInvert                    // swap success and failure of the child
	KindAlwaysSucceed             // report success whenever the child finishes
	KindIf                        // run a condition, then one of two branches
	KindWhile                     // loop the body while the condition is running
)

var kindNames = [...]string{
	KindAction:        "action",
	KindWait:          "wait",
	KindWaitForever:   "wait_forever",
	KindSequence:      "sequence",
	KindSelect:        "select",
	KindWhenAll:       "when_all",
	KindWhenAny:       "when_any",
	KindRepeat:        "repeat",
	KindInvert:        "invert",
	KindAlwaysSucceed: "always_succeed",
	KindIf:            "if",
	KindWhile:         "while",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("behavior.Kind(%d)", uint8(k))
}

// Behavior is an immutable behavior tree node over actions of type A.
// Behaviors are values: copying one is cheap and never aliases mutable
// state. Two behaviors can be compared with Equal.
type Behavior[A comparable] struct {
	kind     Kind
	action   A
	seconds  float64
	times    int
	children []Behavior[A]
}

// Action returns a leaf that runs a.
func Action[A comparable](a A) Behavior[A] {
	return Behavior[A]{kind: KindAction, action: a}
}

// Wait returns a leaf that succeeds once seconds have elapsed.
func Wait[A comparable](seconds float64) Behavior[A] {
	return Behavior[A]{kind: KindWait, seconds: seconds}
}

// WaitForever returns a leaf that never finishes.
func WaitForever[A comparable]() Behavior[A] {
	return Behavior[A]{kind: KindWaitForever}
}

// Sequence runs children one after another. It fails as soon as a child
// fails and succeeds when every child has succeeded. An empty sequence
// succeeds immediately.
func Sequence[A comparable](children ...Behavior[A]) Behavior[A] {
	return Behavior[A]{kind: KindSequence, children: cloneChildren(children)}
}

// Select runs children one after another until one succeeds. It fails when
// every child has failed. An empty select fails immediately.
func Select[A comparable](children ...Behavior[A]) Behavior[A] {
	return Behavior[A]{kind: KindSelect, children: cloneChildren(children)}
}

// WhenAll runs children side by side and succeeds when all have succeeded.
// The first failure fails the whole node.
func WhenAll[A comparable](children ...Behavior[A]) Behavior[A] {
	return Behavior[A]{kind: KindWhenAll, children: cloneChildren(children)}
}

// WhenAny runs children side by side and succeeds as soon as one succeeds.
// It fails once every child has failed.
func WhenAny[A comparable](children ...Behavior[A]) Behavior[A] {
	return Behavior[A]{kind: KindWhenAny, children: cloneChildren(children)}
}

// Repeat runs body times times in a row. times <= 0 repeats forever.
// A failing iteration fails the node.
func Repeat[A comparable](times int, body Behavior[A]) Behavior[A] {
	if times < 0 {
		times = 0
	}
	return Behavior[A]{kind: KindRepeat, times: times, children: []Behavior[A]{body}}
}

// Invert reports Failure when b succeeds and Success when b fails.
func Invert[A comparable](b Behavior[A]) Behavior[A] {
	return Behavior[A]{kind: KindInvert, children: []Behavior[A]{b}}
}

// AlwaysSucceed reports Success whenever b finishes.
func AlwaysSucceed[A comparable](b Behavior[A]) Behavior[A] {
	return Behavior[A]{kind: KindAlwaysSucceed, children: []Behavior[A]{b}}
}

// If runs cond to completion, then then on success or otherwise on failure.
func If[A comparable](cond, then, otherwise Behavior[A]) Behavior[A] {
	return Behavior[A]{kind: KindIf, children: []Behavior[A]{cond, then, otherwise}}
}

// While loops body (as a sequence) for as long as cond is running. When
// cond finishes, the node finishes with cond's status. A failing body fails
// the node.
func While[A comparable](cond Behavior[A], body ...Behavior[A]) Behavior[A] {
	children := make([]Behavior[A], 0, len(body)+1)
	children = append(children, cond)
	children = append(children, body...)
	return Behavior[A]{kind: KindWhile, children: children}
}

func cloneChildren[A comparable](children []Behavior[A]) []Behavior[A] {
	if len(children) == 0 {
		return nil
	}
	out := make([]Behavior[A], len(children))
	copy(out, children)
	return out
}

// Kind returns the node type.
func (b Behavior[A]) Kind() Kind { return b.kind }

// Action returns the leaf action. ok is false for non-action nodes.
func (b Behavior[A]) Action() (a A, ok bool) {
	if b.kind != KindAction {
		return a, false
	}
	return b.action, true
}

// Seconds returns the wait time of a Wait node.
func (b Behavior[A]) Seconds() float64 { return b.seconds }

// Times returns the iteration count of a Repeat node (0 = forever).
func (b Behavior[A]) Times() int { return b.times }

// Children returns a copy of the node's children.
func (b Behavior[A]) Children() []Behavior[A] { return cloneChildren(b.children) }

// Equal reports whether b and other describe the same tree. Actions are
// compared with ==.
func (b Behavior[A]) Equal(other Behavior[A]) bool {
	if b.kind != other.kind || b.seconds != other.seconds || b.times != other.times {
		return false
	}
	if b.kind == KindAction && b.action != other.action {
		return false
	}
	if len(b.children) != len(other.children) {
		return false
	}
	for i := range b.children {
		if !b.children[i].Equal(other.children[i]) {
			return false
		}
	}
	return true
}

// Walk calls fn for every action in the tree, depth first. Walking stops at
// the first error, which is returned.
func (b Behavior[A]) Walk(fn func(A) error) error {
	if b.kind == KindAction {
		return fn(b.action)
	}
	for _, child := range b.children {
		if err := child.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}
