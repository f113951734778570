package kite

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func sizeLookup(sizes map[AssetId]mgl32.Vec2) func(AssetId) (mgl32.Vec2, bool) {
	return func(id AssetId) (mgl32.Vec2, bool) {
		size, ok := sizes[id]
		return size, ok
	}
}

func whiteSprite(texture AssetId, z float32) ExtractedSprite {
	return ExtractedSprite{
		Transform: NewTransform2D(0, 0, z),
		Color:     ColorWhite,
		Texture:   texture,
	}
}

func TestBuildSpriteBatches_MergesSameTextureAndMode(t *testing.T) {
	sprites := []ExtractedSprite{
		whiteSprite("tex", 0),
		whiteSprite("tex", 0),
		whiteSprite("tex", 0),
	}
	var vertices bufferVec[spriteVertex]
	var colored bufferVec[coloredSpriteVertex]

	batches, _ := buildSpriteBatches(sprites, sizeLookup(map[AssetId]mgl32.Vec2{"tex": {8, 8}}), &vertices, &colored)

	if len(batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(batches))
	}
	if batches[0].Start != 0 || batches[0].End != 18 {
		t.Errorf("expected range [0, 18), got [%d, %d)", batches[0].Start, batches[0].End)
	}
	if len(vertices.data) != 18 {
		t.Errorf("expected 18 plain vertices, got %d", len(vertices.data))
	}
	if len(colored.data) != 0 {
		t.Errorf("expected no colored vertices, got %d", len(colored.data))
	}
}

func TestBuildSpriteBatches_ColorModeSplitsBatch(t *testing.T) {
	red := whiteSprite("tex", 0)
	red.Color = Rgba(1, 0, 0, 1)
	sprites := []ExtractedSprite{
		whiteSprite("tex", 0),
		red,
	}
	var vertices bufferVec[spriteVertex]
	var colored bufferVec[coloredSpriteVertex]

	batches, _ := buildSpriteBatches(sprites, sizeLookup(map[AssetId]mgl32.Vec2{"tex": {8, 8}}), &vertices, &colored)

	if len(batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(batches))
	}
	if batches[0].Colored {
		t.Errorf("first batch should be the plain one")
	}
	if !batches[1].Colored {
		t.Errorf("second batch should be the colored one")
	}
	if len(vertices.data) != 6 || len(colored.data) != 6 {
		t.Errorf("expected 6 vertices per buffer, got %d and %d", len(vertices.data), len(colored.data))
	}
	for _, v := range colored.data {
		if v.color != [4]float32{1, 0, 0, 1} {
			t.Fatalf("colored vertex carries wrong color %v", v.color)
		}
	}
}

func TestBuildSpriteBatches_TextureChangeSplitsBatch(t *testing.T) {
	sprites := []ExtractedSprite{
		whiteSprite("a", 0),
		whiteSprite("b", 1),
		whiteSprite("a", 2),
	}
	sizes := map[AssetId]mgl32.Vec2{"a": {4, 4}, "b": {4, 4}}
	var vertices bufferVec[spriteVertex]
	var colored bufferVec[coloredSpriteVertex]

	batches, _ := buildSpriteBatches(sprites, sizeLookup(sizes), &vertices, &colored)

	if len(batches) != 3 {
		t.Fatalf("expected 3 batches across texture changes, got %d", len(batches))
	}
	// Batches partition the vertex buffer without gaps or overlap.
	var next uint32
	for i, b := range batches {
		if b.Start != next {
			t.Errorf("batch %d starts at %d, expected %d", i, b.Start, next)
		}
		if b.End <= b.Start {
			t.Errorf("batch %d is empty", i)
		}
		next = b.End
	}
	if next != uint32(len(vertices.data)) {
		t.Errorf("batches cover %d vertices, buffer has %d", next, len(vertices.data))
	}
}

func TestBuildSpriteBatches_SortsByZ(t *testing.T) {
	sprites := []ExtractedSprite{
		whiteSprite("tex", 5),
		whiteSprite("tex", -1),
		whiteSprite("tex", 2),
	}
	var vertices bufferVec[spriteVertex]
	var colored bufferVec[coloredSpriteVertex]

	batches, _ := buildSpriteBatches(sprites, sizeLookup(map[AssetId]mgl32.Vec2{"tex": {2, 2}}), &vertices, &colored)

	if len(batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(batches))
	}
	// Vertices must be emitted back to front.
	zs := []float32{vertices.data[0].position[2], vertices.data[6].position[2], vertices.data[12].position[2]}
	if zs[0] != -1 || zs[1] != 2 || zs[2] != 5 {
		t.Errorf("vertices not in depth order: %v", zs)
	}
	if batches[0].ZOrder != 5 {
		t.Errorf("batch z should come from the last sprite, got %v", batches[0].ZOrder)
	}
}

func TestBuildSpriteBatches_EqualZGroupsByTexture(t *testing.T) {
	sprites := []ExtractedSprite{
		whiteSprite("b", 0),
		whiteSprite("a", 0),
		whiteSprite("b", 0),
		whiteSprite("a", 0),
	}
	sizes := map[AssetId]mgl32.Vec2{"a": {2, 2}, "b": {2, 2}}
	var vertices bufferVec[spriteVertex]
	var colored bufferVec[coloredSpriteVertex]

	batches, _ := buildSpriteBatches(sprites, sizeLookup(sizes), &vertices, &colored)

	if len(batches) != 2 {
		t.Fatalf("tie-break should group equal-depth sprites by texture, got %d batches", len(batches))
	}
}

func TestBuildSpriteBatches_MissingTextureDropsSprites(t *testing.T) {
	sprites := []ExtractedSprite{
		whiteSprite("gone", 0),
		whiteSprite("gone", 1),
	}
	var vertices bufferVec[spriteVertex]
	var colored bufferVec[coloredSpriteVertex]

	batches, dropped := buildSpriteBatches(sprites, sizeLookup(nil), &vertices, &colored)

	if len(batches) != 0 {
		t.Errorf("expected no batches, got %d", len(batches))
	}
	if dropped != 2 {
		t.Errorf("expected 2 dropped sprites, got %d", dropped)
	}
	if len(vertices.data) != 0 || len(colored.data) != 0 {
		t.Errorf("expected no vertices for dropped sprites")
	}
}

func TestBuildSpriteBatches_MissingTextureKeepsNeighbors(t *testing.T) {
	sprites := []ExtractedSprite{
		whiteSprite("ok", 0),
		whiteSprite("gone", 1),
		whiteSprite("ok2", 2),
	}
	sizes := map[AssetId]mgl32.Vec2{"ok": {2, 2}, "ok2": {2, 2}}
	var vertices bufferVec[spriteVertex]
	var colored bufferVec[coloredSpriteVertex]

	batches, _ := buildSpriteBatches(sprites, sizeLookup(sizes), &vertices, &colored)

	if len(batches) != 2 {
		t.Fatalf("expected 2 batches around the dropped sprite, got %d", len(batches))
	}
	if batches[0].Texture != "ok" || batches[1].Texture != "ok2" {
		t.Errorf("unexpected batch textures %v, %v", batches[0].Texture, batches[1].Texture)
	}
}

func TestBuildSpriteBatches_QuadGeometry(t *testing.T) {
	sprite := whiteSprite("tex", 0)
	sprite.Transform = NewTransform2D(10, 20, 0)
	sprites := []ExtractedSprite{sprite}
	var vertices bufferVec[spriteVertex]
	var colored bufferVec[coloredSpriteVertex]

	buildSpriteBatches(sprites, sizeLookup(map[AssetId]mgl32.Vec2{"tex": {4, 6}}), &vertices, &colored)

	if len(vertices.data) != 6 {
		t.Fatalf("expected 6 vertices, got %d", len(vertices.data))
	}
	// First triangle corner: bottom-left of a 4x6 quad centered at (10, 20).
	v0 := vertices.data[0]
	if v0.position != [3]float32{8, 17, 0} {
		t.Errorf("unexpected corner position %v", v0.position)
	}
	if v0.uv != [2]float32{0, 1} {
		t.Errorf("unexpected corner uv %v", v0.uv)
	}
}

func TestBuildSpriteBatches_CustomSizeOverridesTextureSize(t *testing.T) {
	sprite := whiteSprite("tex", 0)
	sprite.CustomSize = mgl32.Vec2{100, 50}
	sprites := []ExtractedSprite{sprite}
	var vertices bufferVec[spriteVertex]
	var colored bufferVec[coloredSpriteVertex]

	buildSpriteBatches(sprites, sizeLookup(map[AssetId]mgl32.Vec2{"tex": {4, 4}}), &vertices, &colored)

	v0 := vertices.data[0]
	if v0.position != [3]float32{-50, -25, 0} {
		t.Errorf("custom size ignored, corner at %v", v0.position)
	}
}

func TestBuildSpriteBatches_RectRemapsUvsAndSize(t *testing.T) {
	rect := Rect{Min: mgl32.Vec2{8, 0}, Max: mgl32.Vec2{16, 8}}
	sprite := whiteSprite("tex", 0)
	sprite.Rect = &rect
	sprites := []ExtractedSprite{sprite}
	var vertices bufferVec[spriteVertex]
	var colored bufferVec[coloredSpriteVertex]

	buildSpriteBatches(sprites, sizeLookup(map[AssetId]mgl32.Vec2{"tex": {16, 16}}), &vertices, &colored)

	// Corner uv (0,1) remaps into the right half, upper quarter of the texture.
	v0 := vertices.data[0]
	if v0.uv != [2]float32{0.5, 0.5} {
		t.Errorf("rect uv remap wrong, got %v", v0.uv)
	}
	// Quad takes the rect size, 8x8.
	if v0.position != [3]float32{-4, -4, 0} {
		t.Errorf("rect quad size wrong, corner at %v", v0.position)
	}
}

func TestBuildSpriteBatches_FlipXSwapsHorizontalUvs(t *testing.T) {
	plain := whiteSprite("tex", 0)
	flipped := whiteSprite("tex", 0)
	flipped.FlipX = true
	sizes := sizeLookup(map[AssetId]mgl32.Vec2{"tex": {2, 2}})

	var v1, v2 bufferVec[spriteVertex]
	var c1, c2 bufferVec[coloredSpriteVertex]
	buildSpriteBatches([]ExtractedSprite{plain}, sizes, &v1, &c1)
	buildSpriteBatches([]ExtractedSprite{flipped}, sizes, &v2, &c2)

	for i := range v1.data {
		if v1.data[i].uv[0] != 1-v2.data[i].uv[0] {
			t.Errorf("vertex %d: u not mirrored (%v vs %v)", i, v1.data[i].uv, v2.data[i].uv)
		}
		if v1.data[i].uv[1] != v2.data[i].uv[1] {
			t.Errorf("vertex %d: v changed by horizontal flip", i)
		}
	}
}

func TestBuildSpriteBatches_FlipYSwapsVerticalUvs(t *testing.T) {
	plain := whiteSprite("tex", 0)
	flipped := whiteSprite("tex", 0)
	flipped.FlipY = true
	sizes := sizeLookup(map[AssetId]mgl32.Vec2{"tex": {2, 2}})

	var v1, v2 bufferVec[spriteVertex]
	var c1, c2 bufferVec[coloredSpriteVertex]
	buildSpriteBatches([]ExtractedSprite{plain}, sizes, &v1, &c1)
	buildSpriteBatches([]ExtractedSprite{flipped}, sizes, &v2, &c2)

	for i := range v1.data {
		if v1.data[i].uv[1] != 1-v2.data[i].uv[1] {
			t.Errorf("vertex %d: v not mirrored (%v vs %v)", i, v1.data[i].uv, v2.data[i].uv)
		}
	}
}

func TestBuildSpriteBatches_FlipBothMirrorsBothAxes(t *testing.T) {
	plain := whiteSprite("tex", 0)
	both := whiteSprite("tex", 0)
	both.FlipX = true
	both.FlipY = true
	sizes := sizeLookup(map[AssetId]mgl32.Vec2{"tex": {2, 2}})

	var v1, v2 bufferVec[spriteVertex]
	var c1, c2 bufferVec[coloredSpriteVertex]
	buildSpriteBatches([]ExtractedSprite{plain}, sizes, &v1, &c1)
	buildSpriteBatches([]ExtractedSprite{both}, sizes, &v2, &c2)

	// Flipping both axes is the point mirror of the corner table, the same
	// permutation regardless of which flip applies first.
	for i := range v1.data {
		want := [2]float32{1 - v1.data[i].uv[0], 1 - v1.data[i].uv[1]}
		if v2.data[i].uv != want {
			t.Errorf("vertex %d: expected uv %v, got %v", i, want, v2.data[i].uv)
		}
	}
	if v2.data[0].uv != [2]float32{1, 0} {
		t.Errorf("bottom-left corner should sample the opposite corner, got %v", v2.data[0].uv)
	}
}

func TestBuildSpriteBatches_AnchorShiftsQuad(t *testing.T) {
	sprite := whiteSprite("tex", 0)
	sprite.Anchor = AnchorBottomLeft
	sprites := []ExtractedSprite{sprite}
	var vertices bufferVec[spriteVertex]
	var colored bufferVec[coloredSpriteVertex]

	buildSpriteBatches(sprites, sizeLookup(map[AssetId]mgl32.Vec2{"tex": {10, 10}}), &vertices, &colored)

	// Bottom-left anchored: the first corner sits at the origin.
	if vertices.data[0].position != [3]float32{0, 0, 0} {
		t.Errorf("anchored corner at %v, expected origin", vertices.data[0].position)
	}
}

func TestBufferVec_ClearKeepsCapacity(t *testing.T) {
	var buf bufferVec[spriteVertex]
	for i := 0; i < 10; i++ {
		buf.push(spriteVertex{})
	}
	buf.clear()
	if len(buf.data) != 0 {
		t.Errorf("clear should empty the staging data")
	}
	if cap(buf.data) < 10 {
		t.Errorf("clear should keep the allocation")
	}
}
