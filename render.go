package sprout

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Backend draws textured quads. transform maps texture pixel space to screen
// space and already includes the sprite's anchor offset and flips.
type Backend interface {
	DrawTexture(tex Texture, transform [6]float64, tint Color, opacity float64)
}

// Draw draws the sprite and its subtree under the parent transform.
// Invisible sprites are skipped together with their children. Flips mirror
// only this sprite's texture inside its own box; children are drawn with the
// unflipped transform.
func (s *Sprite) Draw(parent [6]float64, b Backend) {
	if !s.Visible {
		return
	}
	transformed := multiplyAffine(parent, computeLocalTransform(s))

	if s.texture != nil && s.Opacity > 0 {
		tw, th := s.texture.Size()
		w, h := float64(tw), float64(th)
		ax, ay := s.AnchorX*w, s.AnchorY*h

		model := transformed
		if s.FlipX {
			model = scale(translate(model, w-2*ax, 0), -1, 1)
		}
		if s.FlipY {
			model = scale(translate(model, 0, h-2*ay), 1, -1)
		}
		model = translate(model, -ax, -ay)
		b.DrawTexture(s.texture, model, s.Color, s.Opacity)
	}

	for _, child := range s.children {
		child.Draw(transformed, b)
	}
}

// Draw draws every root sprite, in order, with the identity transform.
func (s *Scene) Draw(b Backend) {
	for _, root := range s.children {
		root.Draw(identityTransform, b)
	}
}

// DrawTo draws the scene onto an Ebitengine image.
func (s *Scene) DrawTo(screen *ebiten.Image) {
	s.Draw(&EbitenBackend{Target: screen})
}

// EbitenBackend is a Backend that draws ImageTextures onto Target. Other
// texture implementations are ignored.
type EbitenBackend struct {
	Target *ebiten.Image
	// Filter is the sampling filter. The zero value is nearest-neighbor.
	Filter ebiten.Filter
}

// DrawTexture implements Backend.
func (b *EbitenBackend) DrawTexture(tex Texture, m [6]float64, tint Color, opacity float64) {
	it, ok := tex.(*ImageTexture)
	if !ok || it.Image == nil || b.Target == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.SetElement(0, 0, m[0])
	op.GeoM.SetElement(0, 1, m[2])
	op.GeoM.SetElement(0, 2, m[4])
	op.GeoM.SetElement(1, 0, m[1])
	op.GeoM.SetElement(1, 1, m[3])
	op.GeoM.SetElement(1, 2, m[5])
	op.ColorScale.Scale(float32(tint.R), float32(tint.G), float32(tint.B), 1)
	op.ColorScale.ScaleAlpha(float32(opacity))
	op.Filter = b.Filter
	b.Target.DrawImage(it.Image, &op)
}
