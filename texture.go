package sprout

import "github.com/hajimehoshi/ebiten/v2"

// Texture is the image contract a sprite draws. Textures are immutable and
// may be shared by any number of sprites.
type Texture interface {
	// Size returns the texture's width and height in pixels.
	Size() (w, h int)
}

// ImageTexture is a Texture backed by an Ebitengine image.
type ImageTexture struct {
	Image *ebiten.Image
}

// NewImageTexture wraps img as a Texture.
func NewImageTexture(img *ebiten.Image) *ImageTexture {
	return &ImageTexture{Image: img}
}

// Size implements Texture.
func (t *ImageTexture) Size() (w, h int) {
	if t == nil || t.Image == nil {
		return 0, 0
	}
	b := t.Image.Bounds()
	return b.Dx(), b.Dy()
}
