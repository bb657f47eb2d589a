package sprout

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/sprout/behavior"
)

// statsRefresh is the interval between overlay redraws, in seconds.
const statsRefresh = 0.5

// NewStatsSprite adds a top-left overlay sprite to scene showing FPS, TPS and
// the scheduler's running and sprite counts. The overlay is itself driven by
// a behavior that redraws it every half second; stopping the returned handle
// freezes it.
func NewStatsSprite(scene *Scene) (*Sprite, *Handle) {
	// 120x48 fits four lines of debug text.
	img := ebiten.NewImage(120, 48)

	sp := NewSprite("stats", NewImageTexture(img))
	sp.SetAnchor(0, 0)

	redraw := NewCall(CallbackFunc(func(*Sprite) {
		img.Clear()
		// Semi-transparent background for readability
		img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(img, statsText(ebiten.ActualFPS(), ebiten.ActualTPS(), scene))
	}))

	id := scene.AddChild(sp)
	h := scene.Run(id, behavior.While(WaitForever(), Action(redraw), Wait(statsRefresh)))
	return sp, h
}

func statsText(fps, tps float64, scene *Scene) string {
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nRunning: %d\nSprites: %d",
		fps, tps, scene.Running(), scene.Len())
}
