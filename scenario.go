package sprout

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// scenarioStep is a single scheduler command in a scenario script.
type scenarioStep struct {
	Action   string `yaml:"action"`
	Sprite   string `yaml:"sprite,omitempty"`
	Behavior string `yaml:"behavior,omitempty"`
	Frames   int    `yaml:"frames,omitempty"`
}

// scenarioScript is the top-level structure of a scenario script.
type scenarioScript struct {
	Steps []scenarioStep `yaml:"steps"`
}

var scenarioActions = map[string]bool{
	"run": true, "pause": true, "resume": true, "toggle": true,
	"stop": true, "stop_all": true, "remove_when_done": true, "wait": true,
}

// Scenario replays scheduler commands against a scene, one step per tick,
// addressing sprites by name and behaviors by their library name. Attach it
// to a game via RunConfig.Scenario, or call Step directly before each
// Scene.Update.
//
// Scripts are YAML (or JSON) of the form:
//
//	steps:
//	  - {action: run, sprite: hero, behavior: bounce}
//	  - {action: wait, frames: 30}
//	  - {action: pause, sprite: hero, behavior: bounce}
//	  - {action: remove_when_done, sprite: hero}
type Scenario struct {
	lib       *Library
	steps     []scenarioStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScenario parses a scenario script. Behavior names are looked up in lib
// when their step executes, so a reloaded library takes effect mid-scenario.
func LoadScenario(data []byte, lib *Library) (*Scenario, error) {
	var script scenarioScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse scenario: no steps")
	}
	for i, st := range script.Steps {
		if !scenarioActions[st.Action] {
			return nil, fmt.Errorf("parse scenario: step %d: unknown action %q", i, st.Action)
		}
		if st.Action != "wait" && st.Sprite == "" {
			return nil, fmt.Errorf("parse scenario: step %d: %s needs a sprite", i, st.Action)
		}
	}
	return &Scenario{lib: lib, steps: script.Steps}, nil
}

// Done reports whether every step has executed.
func (r *Scenario) Done() bool {
	return r.done
}

// Step advances the scenario by one tick. Steps that name a missing sprite or
// behavior are logged on the scene's logger and skipped.
func (r *Scenario) Step(s *Scene) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++
	r.exec(s, st)

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

func (r *Scenario) exec(s *Scene, st scenarioStep) {
	if st.Action == "wait" {
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
		return
	}

	log := s.Logger().With(zap.String("action", st.Action), zap.String("sprite", st.Sprite))
	sp := s.FindByName(st.Sprite)
	if sp == nil {
		log.Warn("scenario sprite not found")
		return
	}
	id := sp.ID()

	switch st.Action {
	case "stop_all":
		s.StopAll(id)
		return
	case "remove_when_done":
		s.RemoveChildWhenDone(id)
		return
	}

	if r.lib == nil {
		log.Warn("scenario has no library")
		return
	}
	b, err := r.lib.Behavior(st.Behavior)
	if err != nil {
		log.Warn("scenario behavior", zap.Error(err))
		return
	}

	found := true
	switch st.Action {
	case "run":
		s.Run(id, b)
	case "pause":
		found = s.Pause(id, b)
	case "resume":
		found = s.Resume(id, b)
	case "toggle":
		found = s.Toggle(id, b)
	case "stop":
		found = s.Stop(id, b)
	}
	if !found {
		log.Debug("scenario behavior not running", zap.String("behavior", st.Behavior))
	}
}
