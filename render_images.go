package kite

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// GpuImage is the GPU-resident copy of a texture asset: the texture view and
// sampler the sprite shader binds, plus the asset version it was built from.
type GpuImage struct {
	Size        mgl32.Vec2
	TextureView *wgpu.TextureView
	Sampler     *wgpu.Sampler

	texture *wgpu.Texture
	version uint
}

// RenderImages is the residency table of uploaded textures, keyed by asset
// id. Missing entries mean the asset has not reached the GPU yet.
type RenderImages struct {
	images map[AssetId]*GpuImage
}

func NewRenderImages() *RenderImages {
	return &RenderImages{images: make(map[AssetId]*GpuImage)}
}

func (ri *RenderImages) Get(id AssetId) (*GpuImage, bool) {
	img, ok := ri.images[id]
	return img, ok
}

// uploadTexturesSystem mirrors the asset server's textures onto the GPU:
// new or re-versioned assets are (re)uploaded, removed assets are released.
func uploadTexturesSystem(assets *AssetServer, images *RenderImages, gpu *GpuState) {
	for id, img := range images.images {
		if _, ok := assets.textures[id]; !ok {
			img.release()
			delete(images.images, id)
		}
	}

	for id, asset := range assets.textures {
		if existing, ok := images.images[id]; ok && existing.version == asset.version {
			continue
		}
		if existing, ok := images.images[id]; ok {
			existing.release()
		}
		images.images[id] = uploadTexture(&asset, gpu)
	}
}

func uploadTexture(asset *TextureAsset, gpu *GpuState) *GpuImage {
	extent := wgpu.Extent3D{
		Width:              asset.width,
		Height:             asset.height,
		DepthOrArrayLayers: 1,
	}
	texture, err := gpu.device.CreateTexture(&wgpu.TextureDescriptor{
		Size:          extent,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}

	err = gpu.queue.WriteTexture(
		texture.AsImageCopy(),
		asset.texels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  asset.width * 4,
			RowsPerImage: asset.height,
		},
		&extent,
	)
	if err != nil {
		panic(err)
	}

	textureView, err := texture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	sampler, err := gpu.device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeNearest,
		MinFilter:     wgpu.FilterModeNearest,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		MaxAnisotropy: 1,
	})
	if err != nil {
		panic(err)
	}

	return &GpuImage{
		Size:        asset.Size(),
		TextureView: textureView,
		Sampler:     sampler,
		texture:     texture,
		version:     asset.version,
	}
}

func (img *GpuImage) release() {
	if img.Sampler != nil {
		img.Sampler.Release()
	}
	if img.TextureView != nil {
		img.TextureView.Release()
	}
	if img.texture != nil {
		img.texture.Release()
	}
}
