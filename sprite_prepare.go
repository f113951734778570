package kite

import (
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Unit quad geometry. Two counter-clockwise triangles over four corners,
// with UVs flipped vertically so texture row zero lands at the quad top.
var quadIndices = [6]int{0, 2, 3, 0, 1, 2}

var quadVertexPositions = [4]mgl32.Vec2{
	{-0.5, -0.5},
	{0.5, -0.5},
	{0.5, 0.5},
	{-0.5, 0.5},
}

var quadUvs = [4]mgl32.Vec2{
	{0, 1},
	{1, 1},
	{1, 0},
	{0, 0},
}

type spriteVertex struct {
	position [3]float32
	uv       [2]float32
}

type coloredSpriteVertex struct {
	position [3]float32
	uv       [2]float32
	color    [4]float32
}

// SpriteBatch is a contiguous vertex range sharing one texture and one color
// mode, drawable with a single draw call. Start and End index into the plain
// or colored vertex buffer depending on Colored.
type SpriteBatch struct {
	Start   uint32
	End     uint32
	Texture AssetId
	Colored bool
	ZOrder  float32
}

// bufferVec is a CPU-side vertex staging area paired with its GPU buffer.
// The buffer is recreated when the data outgrows it and updated in place
// otherwise.
type bufferVec[T any] struct {
	label    string
	data     []T
	buffer   *wgpu.Buffer
	capacity int
}

func (b *bufferVec[T]) clear() {
	b.data = b.data[:0]
}

func (b *bufferVec[T]) push(v T) {
	b.data = append(b.data, v)
}

func (b *bufferVec[T]) writeBuffer(gpu *GpuState) {
	if len(b.data) == 0 {
		return
	}
	contents := wgpu.ToBytes(b.data)

	if b.buffer == nil || len(b.data) > b.capacity {
		if b.buffer != nil {
			b.buffer.Release()
		}
		buffer, err := gpu.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    b.label,
			Contents: contents,
			Usage:    wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			panic(err)
		}
		b.buffer = buffer
		b.capacity = len(b.data)
		return
	}

	if err := gpu.queue.WriteBuffer(b.buffer, 0, contents); err != nil {
		panic(err)
	}
}

// SpriteMeta owns the per-frame sprite render data: the two vertex buffers,
// the batch list and the view bind group.
type SpriteMeta struct {
	vertices        bufferVec[spriteVertex]
	coloredVertices bufferVec[coloredSpriteVertex]
	batches         []SpriteBatch

	viewBindGroup *wgpu.BindGroup
	log           Logger
}

func NewSpriteMeta() *SpriteMeta {
	return &SpriteMeta{
		vertices:        bufferVec[spriteVertex]{label: "Sprite Vertices"},
		coloredVertices: bufferVec[coloredSpriteVertex]{label: "Colored Sprite Vertices"},
		log:             NewNopLogger(),
	}
}

// buildSpriteBatches sorts sprites back to front and merges adjacent sprites
// sharing a texture and color mode into batches, emitting quad vertices into
// the matching staging buffer. imageSize reports the pixel size of a texture
// that is resident on the GPU; sprites whose texture is not resident are
// dropped, and the drop count is returned.
func buildSpriteBatches(
	sprites []ExtractedSprite,
	imageSize func(AssetId) (mgl32.Vec2, bool),
	vertices *bufferVec[spriteVertex],
	coloredVertices *bufferVec[coloredSpriteVertex],
) ([]SpriteBatch, int) {
	// Depth order first; the texture tie-break maximizes batching among
	// sprites at equal depth.
	sort.SliceStable(sprites, func(i, j int) bool {
		zi := sprites[i].Transform.Position.Z()
		zj := sprites[j].Transform.Position.Z()
		if zi != zj {
			return zi < zj
		}
		return sprites[i].Texture < sprites[j].Texture
	})

	var batches []SpriteBatch
	current := -1
	currentImageSize := mgl32.Vec2{}
	index := uint32(0)
	coloredIndex := uint32(0)
	dropped := 0

	for i := range sprites {
		sprite := &sprites[i]
		colored := sprite.Color != ColorWhite

		if current < 0 ||
			batches[current].Texture != sprite.Texture ||
			batches[current].Colored != colored {
			size, ok := imageSize(sprite.Texture)
			if !ok {
				// Texture not resident: drop the sprite without disturbing
				// the batch in progress.
				dropped++
				continue
			}
			currentImageSize = size
			start := index
			if colored {
				start = coloredIndex
			}
			batches = append(batches, SpriteBatch{
				Start:   start,
				End:     start,
				Texture: sprite.Texture,
				Colored: colored,
			})
			current = len(batches) - 1
		}

		uvs := quadUvs
		if sprite.FlipX {
			uvs = [4]mgl32.Vec2{uvs[1], uvs[0], uvs[3], uvs[2]}
		}
		if sprite.FlipY {
			uvs = [4]mgl32.Vec2{uvs[3], uvs[2], uvs[1], uvs[0]}
		}

		quadSize := currentImageSize
		if sprite.Rect != nil {
			rectSize := sprite.Rect.Size()
			for i := range uvs {
				uvs[i] = mgl32.Vec2{
					(sprite.Rect.Min.X() + uvs[i].X()*rectSize.X()) / currentImageSize.X(),
					(sprite.Rect.Min.Y() + uvs[i].Y()*rectSize.Y()) / currentImageSize.Y(),
				}
			}
			quadSize = rectSize
		}
		if sprite.CustomSize != (mgl32.Vec2{}) {
			quadSize = sprite.CustomSize
		}

		var positions [4][3]float32
		for i, quadPos := range quadVertexPositions {
			rel := quadPos.Sub(sprite.Anchor)
			local := mgl32.Vec3{rel.X() * quadSize.X(), rel.Y() * quadSize.Y(), 0}
			world := sprite.Transform.mulVec3(local)
			positions[i] = [3]float32{world.X(), world.Y(), world.Z()}
		}

		if colored {
			c := sprite.Color
			for _, vi := range quadIndices {
				coloredVertices.push(coloredSpriteVertex{
					position: positions[vi],
					uv:       [2]float32{uvs[vi].X(), uvs[vi].Y()},
					color:    [4]float32(c),
				})
			}
			coloredIndex += 6
			batches[current].End = coloredIndex
		} else {
			for _, vi := range quadIndices {
				vertices.push(spriteVertex{
					position: positions[vi],
					uv:       [2]float32{uvs[vi].X(), uvs[vi].Y()},
				})
			}
			index += 6
			batches[current].End = index
		}
		batches[current].ZOrder = sprite.Transform.Position.Z()
	}

	return batches, dropped
}

// prepareSpritesSystem rebuilds the batch list and uploads both vertex
// buffers for the frame.
func prepareSpritesSystem(meta *SpriteMeta, extracted *ExtractedSprites, images *RenderImages, gpu *GpuState) {
	meta.vertices.clear()
	meta.coloredVertices.clear()

	batches, dropped := buildSpriteBatches(
		extracted.Sprites,
		func(id AssetId) (mgl32.Vec2, bool) {
			img, ok := images.Get(id)
			if !ok {
				return mgl32.Vec2{}, false
			}
			return img.Size, true
		},
		&meta.vertices,
		&meta.coloredVertices,
	)
	meta.batches = batches
	if dropped > 0 {
		meta.log.Debugf("dropped %d sprites with non-resident textures", dropped)
	}

	meta.vertices.writeBuffer(gpu)
	meta.coloredVertices.writeBuffer(gpu)
}
