package sprout

import (
	"time"

	"go.uber.org/zap"
)

// tickStats holds per-tick scheduler metrics.
// Only populated when Scene.debug is true.
type tickStats struct {
	ticked   int
	finished int
	failed   int
	pruned   int
	elapsed  time.Duration
}

// debugLog logs tick stats at debug level.
func (s *Scene) debugLog(stats tickStats) {
	if !s.debug {
		return
	}
	s.log.Debug("tick",
		zap.Int("ticked", stats.ticked),
		zap.Int("finished", stats.finished),
		zap.Int("failed", stats.failed),
		zap.Int("pruned", stats.pruned),
		zap.Int("running", s.Running()),
		zap.Int("sprites", len(s.sprites)),
		zap.Duration("elapsed", stats.elapsed),
	)
}

// debugCheckTreeDepth warns if tree depth exceeds the threshold.
const debugMaxTreeDepth = 32

func (s *Scene) debugCheckTreeDepth(sp *Sprite) {
	depth := 0
	for p := sp; p != nil; p = p.parent {
		depth++
	}
	if depth > debugMaxTreeDepth {
		s.log.Warn("tree depth exceeds threshold",
			zap.Int("depth", depth),
			zap.Int("threshold", debugMaxTreeDepth),
			zap.String("sprite", sp.Name))
	}
}

// debugCheckChildCount warns if a sprite has more than 1000 children.
const debugMaxChildCount = 1000

func (s *Scene) debugCheckChildCount(sp *Sprite) {
	if len(sp.children) > debugMaxChildCount {
		s.log.Warn("child count exceeds threshold",
			zap.String("sprite", sp.Name),
			zap.Int("children", len(sp.children)),
			zap.Int("threshold", debugMaxChildCount))
	}
}

func (s *Scene) debugCheckRootCount() {
	if len(s.children) > debugMaxChildCount {
		s.log.Warn("root count exceeds threshold",
			zap.Int("roots", len(s.children)),
			zap.Int("threshold", debugMaxChildCount))
	}
}
