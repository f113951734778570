package kite

import (
	"image"
	_ "image/png"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
)

type AssetId string

type AssetEventKind int

const (
	AssetCreated AssetEventKind = iota
	AssetModified
	AssetRemoved
)

// AssetEvent reports a change to a texture asset. The sprite pipeline uses
// these to invalidate GPU-side caches.
type AssetEvent struct {
	Kind AssetEventKind
	Id   AssetId
}

// TextureAsset is CPU-side RGBA texel data. The version counter bumps on
// every mutation so GPU copies can detect staleness.
type TextureAsset struct {
	version uint
	texels  []uint8
	width   uint32
	height  uint32
}

func (t TextureAsset) Size() mgl32.Vec2 {
	return mgl32.Vec2{float32(t.width), float32(t.height)}
}

// TextureAtlasAsset names an ordered list of sub-rectangles within one
// texture. Atlas sprites select a rectangle by index.
type TextureAtlasAsset struct {
	Texture AssetId
	Rects   []Rect
}

type AssetServer struct {
	textures map[AssetId]TextureAsset
	atlases  map[AssetId]TextureAtlasAsset
	events   []AssetEvent
}

type AssetServerModule struct{}

func (AssetServerModule) Install(app *App, cmd *Commands) {
	app.addResources(NewAssetServer())
}

func NewAssetServer() *AssetServer {
	return &AssetServer{
		textures: make(map[AssetId]TextureAsset),
		atlases:  make(map[AssetId]TextureAtlasAsset),
	}
}

// CreateTexture registers raw RGBA texels (4 bytes per pixel, row-major).
func (server *AssetServer) CreateTexture(texels []uint8, texWidth uint32, texHeight uint32) AssetId {
	id := makeAssetId()

	server.textures[id] = TextureAsset{
		version: 0,
		texels:  texels,
		width:   texWidth,
		height:  texHeight,
	}
	server.events = append(server.events, AssetEvent{Kind: AssetCreated, Id: id})

	return id
}

// LoadTexture decodes an image file into an RGBA texture asset.
func (server *AssetServer) LoadTexture(filename string) AssetId {
	file, err := os.Open(filename)
	if err != nil {
		panic(err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		panic(err)
	}

	bounds := img.Bounds()
	rgbaImg, ok := img.(*image.RGBA)
	if !ok {
		rgbaImg = image.NewRGBA(bounds)
		xdraw.Draw(rgbaImg, bounds, img, bounds.Min, xdraw.Src)
	}

	return server.CreateTexture(
		rgbaImg.Pix,
		uint32(bounds.Dx()),
		uint32(bounds.Dy()),
	)
}

// UpdateTexture replaces a texture's texels in place, keeping its id. Size
// must match the original. Emits a Modified event.
func (server *AssetServer) UpdateTexture(id AssetId, texels []uint8) {
	tx, ok := server.textures[id]
	if !ok {
		panic("UpdateTexture: unknown texture " + string(id))
	}

	tx.texels = texels
	tx.version += 1
	server.textures[id] = tx
	server.events = append(server.events, AssetEvent{Kind: AssetModified, Id: id})
}

// RemoveTexture drops a texture asset. Emits a Removed event; sprites still
// referencing the id simply stop rendering.
func (server *AssetServer) RemoveTexture(id AssetId) {
	if _, ok := server.textures[id]; !ok {
		return
	}
	delete(server.textures, id)
	server.events = append(server.events, AssetEvent{Kind: AssetRemoved, Id: id})
}

func (server *AssetServer) Texture(id AssetId) (TextureAsset, bool) {
	tx, ok := server.textures[id]
	return tx, ok
}

// CreateAtlas registers an atlas over an existing texture with explicit
// sub-rectangles.
func (server *AssetServer) CreateAtlas(texture AssetId, rects []Rect) AssetId {
	id := makeAssetId()
	server.atlases[id] = TextureAtlasAsset{
		Texture: texture,
		Rects:   rects,
	}
	return id
}

// AtlasFromGrid builds an atlas of cols x rows equally sized tiles, laid out
// row-major from the top-left corner of the texture.
func (server *AssetServer) AtlasFromGrid(texture AssetId, tileWidth, tileHeight float32, cols, rows int) AssetId {
	rects := make([]Rect, 0, cols*rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			min := mgl32.Vec2{float32(x) * tileWidth, float32(y) * tileHeight}
			rects = append(rects, Rect{
				Min: min,
				Max: min.Add(mgl32.Vec2{tileWidth, tileHeight}),
			})
		}
	}
	return server.CreateAtlas(texture, rects)
}

func (server *AssetServer) Atlas(id AssetId) (TextureAtlasAsset, bool) {
	atlas, ok := server.atlases[id]
	return atlas, ok
}

// drainTextureEvents returns the events accumulated since the previous drain
// and clears the feed. Called once per frame by the sprite pipeline.
func (server *AssetServer) drainTextureEvents() []AssetEvent {
	events := server.events
	server.events = nil
	return events
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}
