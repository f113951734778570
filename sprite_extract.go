package kite

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ExtractedSprite is the render-facing snapshot of one sprite: everything
// the prepare stage needs, decoupled from the live ECS components.
type ExtractedSprite struct {
	Transform TransformComponent
	Color     Color
	// Rect selects a sub-rectangle of the texture in pixels. Nil means the
	// whole texture.
	Rect *Rect
	// CustomSize overrides the quad size in world units; the zero vector
	// means "texture (or rect) size".
	CustomSize mgl32.Vec2
	Texture    AssetId
	FlipX      bool
	FlipY      bool
	Anchor     mgl32.Vec2
}

// ExtractedSprites is rebuilt from scratch every frame during extraction.
type ExtractedSprites struct {
	Sprites []ExtractedSprite
}

// SpriteAssetEvents carries the texture asset events of the current frame
// into the render stages.
type SpriteAssetEvents struct {
	Events []AssetEvent
}

func extractSpriteEventsSystem(assets *AssetServer, events *SpriteAssetEvents) {
	events.Events = assets.drainTextureEvents()
}

// extractSpritesSystem flattens visible sprite entities into the extracted
// list. Entities without a VisibilityComponent count as visible. Atlas
// sprites referencing an unknown atlas or an out-of-range index are skipped.
func extractSpritesSystem(cmd *Commands, extracted *ExtractedSprites, assets *AssetServer) {
	extracted.Sprites = extracted.Sprites[:0]

	MakeQuery3[SpriteComponent, TransformComponent, VisibilityComponent](cmd).Map(
		func(eid EntityId, sprite *SpriteComponent, tr *TransformComponent, vis *VisibilityComponent) bool {
			if vis != nil && !vis.Visible {
				return true
			}
			extracted.Sprites = append(extracted.Sprites, ExtractedSprite{
				Transform:  *tr,
				Color:      sprite.Color.orWhite(),
				Rect:       nil,
				CustomSize: sprite.CustomSize,
				Texture:    sprite.Texture,
				FlipX:      sprite.FlipX,
				FlipY:      sprite.FlipY,
				Anchor:     sprite.Anchor,
			})
			return true
		}, VisibilityComponent{})

	MakeQuery3[AtlasSpriteComponent, TransformComponent, VisibilityComponent](cmd).Map(
		func(eid EntityId, sprite *AtlasSpriteComponent, tr *TransformComponent, vis *VisibilityComponent) bool {
			if vis != nil && !vis.Visible {
				return true
			}
			atlas, ok := assets.Atlas(sprite.Atlas)
			if !ok {
				return true
			}
			if sprite.Index < 0 || sprite.Index >= len(atlas.Rects) {
				return true
			}
			rect := atlas.Rects[sprite.Index]
			extracted.Sprites = append(extracted.Sprites, ExtractedSprite{
				Transform:  *tr,
				Color:      sprite.Color.orWhite(),
				Rect:       &rect,
				CustomSize: sprite.CustomSize,
				Texture:    atlas.Texture,
				FlipX:      sprite.FlipX,
				FlipY:      sprite.FlipY,
				Anchor:     sprite.Anchor,
			})
			return true
		}, VisibilityComponent{})
}
