package sprout

import "math"

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// computeLocalTransform computes the sprite's local affine matrix, without
// flips. Returns [a, b, c, d, tx, ty].
//
// Composition order:
//
//	Translate(X, Y) -> Rotate(Rotation degrees) -> Scale(ScaleX, ScaleY)
func computeLocalTransform(s *Sprite) [6]float64 {
	sin, cos := math.Sincos(s.Rotation * math.Pi / 180)
	return [6]float64{
		cos * s.ScaleX, sin * s.ScaleX,
		-sin * s.ScaleY, cos * s.ScaleY,
		s.X, s.Y,
	}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

func translate(m [6]float64, x, y float64) [6]float64 {
	return multiplyAffine(m, [6]float64{1, 0, 0, 1, x, y})
}

func scale(m [6]float64, sx, sy float64) [6]float64 {
	return multiplyAffine(m, [6]float64{sx, 0, 0, sy, 0, 0})
}

// worldTransform composes the local transforms from the root down to s.
func worldTransform(s *Sprite) [6]float64 {
	if s.parent == nil {
		return computeLocalTransform(s)
	}
	return multiplyAffine(worldTransform(s.parent), computeLocalTransform(s))
}

// --- Property setters ---

// SetPosition sets the sprite's local X and Y.
func (s *Sprite) SetPosition(x, y float64) {
	s.X = x
	s.Y = y
}

// Position returns the sprite's local position.
func (s *Sprite) Position() (x, y float64) {
	return s.X, s.Y
}

// SetScale sets the sprite's ScaleX and ScaleY.
func (s *Sprite) SetScale(sx, sy float64) {
	s.ScaleX = sx
	s.ScaleY = sy
}

// Scale returns the sprite's scale.
func (s *Sprite) Scale() (sx, sy float64) {
	return s.ScaleX, s.ScaleY
}

// SetRotation sets the sprite's rotation in degrees.
func (s *Sprite) SetRotation(deg float64) {
	s.Rotation = deg
}

// SetAnchor sets the normalized anchor point. (0.5, 0.5) is the texture center.
func (s *Sprite) SetAnchor(x, y float64) {
	s.AnchorX = x
	s.AnchorY = y
}

// SetColor sets the sprite's tint.
func (s *Sprite) SetColor(r, g, b float64) {
	s.Color = Color{r, g, b}
}

// SetOpacity sets the sprite's opacity.
func (s *Sprite) SetOpacity(o float64) {
	s.Opacity = o
}

// SetVisible shows or hides the sprite and its subtree.
func (s *Sprite) SetVisible(v bool) {
	s.Visible = v
}

// SetFlip sets both flip flags. Flipping mirrors only this sprite's texture;
// it alters neither the anchor nor the children. To mirror the subtree too,
// negate ScaleX or ScaleY instead.
func (s *Sprite) SetFlip(x, y bool) {
	s.FlipX = x
	s.FlipY = y
}

// BoundingBox returns the sprite's local-space box: the texture size scaled,
// offset by the anchor. Containers report a zero-size box at their position.
func (s *Sprite) BoundingBox() Rect {
	var w, h float64
	if s.texture != nil {
		tw, th := s.texture.Size()
		w = float64(tw) * s.ScaleX
		h = float64(th) * s.ScaleY
	}
	return Rect{
		X:      s.X - s.AnchorX*w,
		Y:      s.Y - s.AnchorY*h,
		Width:  w,
		Height: h,
	}
}

// --- Coordinate conversion ---

// LocalToWorld converts a point in this sprite's local space to world space.
func (s *Sprite) LocalToWorld(lx, ly float64) (wx, wy float64) {
	return transformPoint(worldTransform(s), lx, ly)
}

// WorldToLocal converts a world-space point to this sprite's local space.
func (s *Sprite) WorldToLocal(wx, wy float64) (lx, ly float64) {
	return transformPoint(invertAffine(worldTransform(s)), wx, wy)
}
