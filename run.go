package sprout

import (
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// RunConfig configures Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// TPS is the fixed tick rate. Each tick advances the scene by 1/TPS
	// seconds. Zero means 60.
	TPS int

	// OnUpdate, if set, is called before each scene tick. Returning an error
	// ends the game loop with that error.
	OnUpdate func(dt float64) error

	// Library and Watcher enable hot reload: files reported by Watcher are
	// reloaded into Library at the start of a tick.
	Library *Library
	Watcher *LibraryWatcher

	// Scenario, if set, steps once per tick before OnUpdate.
	Scenario *Scenario
}

// RunConfigFromConfig maps file configuration onto a RunConfig.
func RunConfigFromConfig(cfg Config) RunConfig {
	return RunConfig{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		TPS:    cfg.TPS,
	}
}

// Game adapts a Scene to ebiten.Game.
type Game struct {
	scene *Scene
	cfg   RunConfig
	dt    float64
}

// NewGame returns an ebiten.Game that ticks and draws scene.
func NewGame(scene *Scene, cfg RunConfig) *Game {
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}
	return &Game{scene: scene, cfg: cfg, dt: 1 / float64(cfg.TPS)}
}

// Scene returns the scene driven by g.
func (g *Game) Scene() *Scene {
	return g.scene
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	g.reload()
	if g.cfg.Scenario != nil {
		g.cfg.Scenario.Step(g.scene)
	}
	if g.cfg.OnUpdate != nil {
		if err := g.cfg.OnUpdate(g.dt); err != nil {
			return err
		}
	}
	g.scene.Update(g.dt)
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.DrawTo(screen)
}

// Layout implements ebiten.Game. A zero configured size follows the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.cfg.Width <= 0 || g.cfg.Height <= 0 {
		return outsideWidth, outsideHeight
	}
	return g.cfg.Width, g.cfg.Height
}

// reload drains pending watcher events without blocking.
func (g *Game) reload() {
	w := g.cfg.Watcher
	if w == nil || g.cfg.Library == nil {
		return
	}
	log := g.scene.Logger()
	for {
		select {
		case path, ok := <-w.Changes:
			if !ok {
				return
			}
			if err := g.cfg.Library.LoadFile(path); err != nil {
				log.Error("library reload failed", zap.String("path", path), zap.Error(err))
				continue
			}
			log.Info("library reloaded", zap.String("path", path), zap.Int("behaviors", len(g.cfg.Library.Names())))
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warn("library watcher", zap.Error(err))
		default:
			return
		}
	}
}

// Run opens a window and runs scene until the window is closed or OnUpdate
// returns an error.
func Run(scene *Scene, cfg RunConfig) error {
	g := NewGame(scene, cfg)
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	ebiten.SetTPS(g.cfg.TPS)
	return ebiten.RunGame(g)
}
