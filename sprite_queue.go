package kite

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// ImageBindGroups caches per-texture bind groups across frames. Entries are
// invalidated by asset events and rebuilt lazily during queueing.
type ImageBindGroups struct {
	values map[AssetId]*wgpu.BindGroup
}

func NewImageBindGroups() *ImageBindGroups {
	return &ImageBindGroups{values: make(map[AssetId]*wgpu.BindGroup)}
}

// processEvents drops cached bind groups for textures that changed or went
// away. Created events need no action: nothing is cached for a new asset.
func (bg *ImageBindGroups) processEvents(events []AssetEvent) {
	for _, event := range events {
		switch event.Kind {
		case AssetModified, AssetRemoved:
			delete(bg.values, event.Id)
		}
	}
}

// Msaa configures the multisample count used by the sprite pipelines.
type Msaa struct {
	Samples uint32
}

// queueSpritesSystem turns the prepared batches into phase items: it picks
// the specialized pipeline per batch, materializes missing bind groups and
// records one item per batch into the render phase.
func queueSpritesSystem(
	meta *SpriteMeta,
	pipeline *SpritePipeline,
	imageBindGroups *ImageBindGroups,
	events *SpriteAssetEvents,
	view *ViewUniforms,
	images *RenderImages,
	gpu *GpuState,
	phase *RenderPhase,
	drawFunctions *DrawFunctions,
	msaa *Msaa,
) {
	imageBindGroups.processEvents(events.Events)

	phase.clear()

	// No view this frame, nothing can be drawn.
	if !view.Available {
		return
	}

	pipeline.ensureInit(gpu)

	if meta.viewBindGroup == nil {
		group, err := gpu.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "Sprite View Bind Group",
			Layout: pipeline.viewLayout,
			Entries: []wgpu.BindGroupEntry{
				{Binding: 0, Buffer: view.buffer, Size: wgpu.WholeSize},
			},
		})
		if err != nil {
			panic(err)
		}
		meta.viewBindGroup = group
	}

	samples := msaa.Samples
	if samples == 0 {
		samples = 1
	}
	plainPipeline := pipeline.Specialize(SpritePipelineKey{Colored: false, Samples: samples})
	coloredPipeline := pipeline.Specialize(SpritePipelineKey{Colored: true, Samples: samples})

	spriteDraw := drawFunctions.Id("sprite")

	for i, batch := range meta.batches {
		if _, ok := imageBindGroups.values[batch.Texture]; !ok {
			img, ok := images.Get(batch.Texture)
			if !ok {
				// Batches are only built over resident textures.
				panic("queued sprite batch references a texture with no GPU image")
			}
			group, err := gpu.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
				Label:  "Sprite Material Bind Group",
				Layout: pipeline.materialLayout,
				Entries: []wgpu.BindGroupEntry{
					{Binding: 0, TextureView: img.TextureView},
					{Binding: 1, Sampler: img.Sampler},
				},
			})
			if err != nil {
				panic(err)
			}
			imageBindGroups.values[batch.Texture] = group
		}

		batchPipeline := plainPipeline
		if batch.Colored {
			batchPipeline = coloredPipeline
		}

		phase.Add(PhaseItem{
			SortKey:      batch.ZOrder,
			DrawFunction: spriteDraw,
			Pipeline:     batchPipeline,
			BatchIndex:   i,
			Start:        batch.Start,
			End:          batch.End,
		})
	}
}
