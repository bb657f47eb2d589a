package behavior

// Leaf advances one action by dt. state points at the per-action runtime
// state; it holds S's zero value the first time the action is reached and is
// owned by the leaf from then on. The leaf returns its status and the part of
// dt it did not consume.
type Leaf[A comparable, S any] func(dt float64, action A, state *S) (Status, float64)

// State is the runtime walk of a Behavior. The zero value is not usable;
// create one with NewState. A State must not be ticked again after it has
// reported Success or Failure.
type State[A comparable, S any] struct {
	behavior Behavior[A]

	leaf     S
	elapsed  float64
	index    int
	cursor   *State[A, S]
	cond     *State[A, S]
	branches []*State[A, S]
}

// NewState returns a fresh runtime state for b.
func NewState[A comparable, S any](b Behavior[A]) *State[A, S] {
	return &State[A, S]{behavior: b}
}

// Behavior returns the behavior this state walks.
func (s *State[A, S]) Behavior() Behavior[A] {
	return s.behavior
}

// Tick advances the tree by dt and returns the aggregate status plus the
// unused part of dt. Running always reports zero leftover.
func (s *State[A, S]) Tick(dt float64, leaf Leaf[A, S]) (Status, float64) {
	b := s.behavior
	switch b.kind {
	case KindAction:
		return leaf(dt, b.action, &s.leaf)

	case KindWait:
		s.elapsed += dt
		if s.elapsed >= b.seconds {
			return Success, s.elapsed - b.seconds
		}
		return Running, 0

	case KindWaitForever:
		return Running, 0

	case KindSequence:
		return s.sequence(dt, leaf, Success)

	case KindSelect:
		return s.sequence(dt, leaf, Failure)

	case KindWhenAll:
		return s.parallel(dt, leaf, true)

	case KindWhenAny:
		return s.parallel(dt, leaf, false)

	case KindRepeat:
		return s.repeat(dt, leaf)

	case KindInvert:
		status, remaining := s.child(0).Tick(dt, leaf)
		switch status {
		case Success:
			return Failure, remaining
		case Failure:
			return Success, remaining
		}
		return Running, 0

	case KindAlwaysSucceed:
		status, remaining := s.child(0).Tick(dt, leaf)
		if status == Running {
			return Running, 0
		}
		return Success, remaining

	case KindIf:
		return s.branch(dt, leaf)

	case KindWhile:
		return s.loop(dt, leaf)
	}
	return Failure, dt
}

// child returns the single cursor of a decorator node, creating it lazily.
func (s *State[A, S]) child(i int) *State[A, S] {
	if s.cursor == nil {
		s.cursor = NewState[A, S](s.behavior.children[i])
	}
	return s.cursor
}

// sequence walks children in order while they report pass, carrying leftover
// time from one child into the next.
func (s *State[A, S]) sequence(dt float64, leaf Leaf[A, S], pass Status) (Status, float64) {
	children := s.behavior.children
	for s.index < len(children) {
		status, remaining := s.child(s.index).Tick(dt, leaf)
		if status == Running {
			return Running, 0
		}
		if status != pass {
			return status, remaining
		}
		s.index++
		s.cursor = nil
		dt = remaining
	}
	return pass, dt
}

// parallel ticks every unfinished branch with the same dt. The leftover of a
// finished node is the smallest leftover among branches that finished in
// this tick, i.e. the time since the last of them completed.
func (s *State[A, S]) parallel(dt float64, leaf Leaf[A, S], all bool) (Status, float64) {
	if s.branches == nil {
		s.branches = make([]*State[A, S], len(s.behavior.children))
		for i, c := range s.behavior.children {
			s.branches[i] = NewState[A, S](c)
		}
	}

	decisive := Failure
	if !all {
		decisive = Success
	}

	leftover := dt
	running := false
	for i, br := range s.branches {
		if br == nil {
			continue
		}
		status, remaining := br.Tick(dt, leaf)
		switch status {
		case Running:
			running = true
		case decisive:
			return decisive, remaining
		default:
			s.branches[i] = nil
			leftover = min(leftover, remaining)
		}
	}

	if running {
		return Running, 0
	}
	if all {
		return Success, leftover
	}
	return Failure, leftover
}

func (s *State[A, S]) repeat(dt float64, leaf Leaf[A, S]) (Status, float64) {
	times := s.behavior.times
	for {
		status, remaining := s.child(0).Tick(dt, leaf)
		switch status {
		case Running:
			return Running, 0
		case Failure:
			return Failure, remaining
		}
		s.cursor = nil
		s.index++
		if times > 0 && s.index >= times {
			return Success, remaining
		}
		// An iteration that used no time would spin forever; resume next tick.
		if times == 0 && remaining >= dt {
			return Running, 0
		}
		dt = remaining
	}
}

func (s *State[A, S]) branch(dt float64, leaf Leaf[A, S]) (Status, float64) {
	if s.index == 0 {
		status, remaining := s.child(0).Tick(dt, leaf)
		if status == Running {
			return Running, 0
		}
		s.index = 2
		if status == Success {
			s.index = 1
		}
		s.cursor = nil
		dt = remaining
	}
	return s.child(s.index).Tick(dt, leaf)
}

func (s *State[A, S]) loop(dt float64, leaf Leaf[A, S]) (Status, float64) {
	if s.cond == nil {
		s.cond = NewState[A, S](s.behavior.children[0])
	}
	status, remaining := s.cond.Tick(dt, leaf)
	if status != Running {
		return status, remaining
	}

	body := s.behavior.children[1:]
	if len(body) == 0 {
		return Running, 0
	}

	start := s.index
	consumed := false
	for {
		if s.cursor == nil {
			s.cursor = NewState[A, S](body[s.index])
		}
		status, remaining := s.cursor.Tick(dt, leaf)
		switch status {
		case Running:
			return Running, 0
		case Failure:
			return Failure, remaining
		}
		if remaining < dt {
			consumed = true
		}
		dt = remaining
		s.cursor = nil
		s.index = (s.index + 1) % len(body)
		if s.index == start {
			// A full pass over the body that used no time would spin.
			if !consumed {
				return Running, 0
			}
			consumed = false
		}
	}
}
