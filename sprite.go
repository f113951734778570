package kite

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Color is a linear RGBA color. The zero Color renders as opaque white so
// that sprites work out of the box without an explicit color.
type Color [4]float32

var ColorWhite = Color{1, 1, 1, 1}

func Rgba(r, g, b, a float32) Color { return Color{r, g, b, a} }

func (c Color) orWhite() Color {
	if c == (Color{}) {
		return ColorWhite
	}
	return c
}

// Rect is an axis-aligned rectangle in texture pixel space.
type Rect struct {
	Min mgl32.Vec2
	Max mgl32.Vec2
}

func (r Rect) Size() mgl32.Vec2 {
	return r.Max.Sub(r.Min)
}

// Anchor presets: the normalized offset of the sprite's origin from the
// center of its quad, in half-quad units.
var (
	AnchorCenter       = mgl32.Vec2{0.0, 0.0}
	AnchorBottomLeft   = mgl32.Vec2{-0.5, -0.5}
	AnchorBottomCenter = mgl32.Vec2{0.0, -0.5}
	AnchorBottomRight  = mgl32.Vec2{0.5, -0.5}
	AnchorCenterLeft   = mgl32.Vec2{-0.5, 0.0}
	AnchorCenterRight  = mgl32.Vec2{0.5, 0.0}
	AnchorTopLeft      = mgl32.Vec2{-0.5, 0.5}
	AnchorTopCenter    = mgl32.Vec2{0.0, 0.5}
	AnchorTopRight     = mgl32.Vec2{0.5, 0.5}
)

// SpriteComponent renders a whole texture as one quad.
type SpriteComponent struct {
	Texture AssetId
	Color   Color
	// CustomSize overrides the on-screen size of the sprite in world units.
	// The zero value means "use the texture size".
	CustomSize mgl32.Vec2
	FlipX      bool
	FlipY      bool
	Anchor     mgl32.Vec2
}

// AtlasSpriteComponent renders one sub-rectangle of an atlas texture,
// selected by index into the atlas definition.
type AtlasSpriteComponent struct {
	Atlas      AssetId
	Index      int
	Color      Color
	CustomSize mgl32.Vec2
	FlipX      bool
	FlipY      bool
	Anchor     mgl32.Vec2
}

// VisibilityComponent gates extraction. Invisible entities keep their
// components but produce no render output.
type VisibilityComponent struct {
	Visible bool
}
