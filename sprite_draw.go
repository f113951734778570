package kite

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// drawContext is handed to draw functions while a render pass is open.
type drawContext struct {
	pass            *wgpu.RenderPassEncoder
	meta            *SpriteMeta
	imageBindGroups *ImageBindGroups
}

// drawSpriteBatch records the draw call for one sprite batch.
func drawSpriteBatch(ctx *drawContext, item PhaseItem) {
	batch := ctx.meta.batches[item.BatchIndex]

	ctx.pass.SetPipeline(item.Pipeline)
	ctx.pass.SetBindGroup(0, ctx.meta.viewBindGroup, nil)
	ctx.pass.SetBindGroup(1, ctx.imageBindGroups.values[batch.Texture], nil)

	buffer := ctx.meta.vertices.buffer
	if batch.Colored {
		buffer = ctx.meta.coloredVertices.buffer
	}
	ctx.pass.SetVertexBuffer(0, buffer, 0, wgpu.WholeSize)

	ctx.pass.Draw(item.End-item.Start, 1, item.Start, 0)
}

// renderSystem executes the sorted render phase against the swapchain. With
// multisampling the pass renders into the offscreen MSAA target and resolves
// into the swapchain view.
func renderSystem(
	gpu *GpuState,
	phase *RenderPhase,
	drawFunctions *DrawFunctions,
	meta *SpriteMeta,
	imageBindGroups *ImageBindGroups,
	msaa *Msaa,
) {
	nextTexture, err := gpu.surface.GetCurrentTexture()
	if err != nil {
		panic(err)
	}
	defer nextTexture.Release()

	swapchainView, err := nextTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}
	defer swapchainView.Release()

	encoder, err := gpu.device.CreateCommandEncoder(nil)
	if err != nil {
		panic(err)
	}
	defer encoder.Release()

	attachment := wgpu.RenderPassColorAttachment{
		View:       swapchainView,
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
	}
	if msaa.Samples > 1 {
		gpu.ensureMsaaTarget(msaa.Samples)
		attachment.View = gpu.msaaView
		attachment.ResolveTarget = swapchainView
		// Only the resolved output is needed.
		attachment.StoreOp = wgpu.StoreOpDiscard
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label:            "Sprite Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{attachment},
	})

	phase.Sort()

	ctx := &drawContext{
		pass:            pass,
		meta:            meta,
		imageBindGroups: imageBindGroups,
	}
	for _, item := range phase.Items() {
		drawFunctions.Get(item.DrawFunction)(ctx, item)
	}

	if err := pass.End(); err != nil {
		panic(err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		panic(err)
	}
	gpu.queue.Submit(cmd)
	gpu.surface.Present()
}
