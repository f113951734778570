package kite

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// SpritePipelineKey selects a render pipeline variant. Equal keys always
// resolve to the same cached pipeline.
type SpritePipelineKey struct {
	Colored bool
	Samples uint32
}

// SpritePipeline owns the bind group layouts shared by all sprite pipelines
// and a cache of specialized pipelines keyed by variant.
type SpritePipeline struct {
	viewLayout     *wgpu.BindGroupLayout
	materialLayout *wgpu.BindGroupLayout

	cache map[SpritePipelineKey]*wgpu.RenderPipeline
	build func(key SpritePipelineKey) *wgpu.RenderPipeline
}

func NewSpritePipeline() *SpritePipeline {
	return &SpritePipeline{cache: make(map[SpritePipelineKey]*wgpu.RenderPipeline)}
}

// ensureInit creates the layouts and the pipeline builder on first use. The
// GPU device does not exist yet when the module installs, so this runs
// lazily from the queue stage.
func (sp *SpritePipeline) ensureInit(gpu *GpuState) {
	if sp.viewLayout != nil {
		return
	}

	viewLayout, err := gpu.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Sprite View Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeUniform,
				},
			},
		},
	})
	if err != nil {
		panic(err)
	}

	materialLayout, err := gpu.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Sprite Material Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
					Multisampled:  false,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	if err != nil {
		panic(err)
	}

	sp.viewLayout = viewLayout
	sp.materialLayout = materialLayout
	sp.build = func(key SpritePipelineKey) *wgpu.RenderPipeline {
		return buildSpritePipeline(gpu, viewLayout, materialLayout, key)
	}
}

// Specialize returns the pipeline for a key, building it on first request.
func (sp *SpritePipeline) Specialize(key SpritePipelineKey) *wgpu.RenderPipeline {
	if pipeline, ok := sp.cache[key]; ok {
		return pipeline
	}
	pipeline := sp.build(key)
	sp.cache[key] = pipeline
	return pipeline
}

func buildSpritePipeline(gpu *GpuState, viewLayout, materialLayout *wgpu.BindGroupLayout, key SpritePipelineKey) *wgpu.RenderPipeline {
	label := "Sprite Pipeline"
	if key.Colored {
		label = "Colored Sprite Pipeline"
	}

	shader, err := gpu.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: spriteShaderWgsl(key.Colored)},
	})
	if err != nil {
		panic(err)
	}
	defer shader.Release()

	pipelineLayout, err := gpu.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		BindGroupLayouts: []*wgpu.BindGroupLayout{
			viewLayout,
			materialLayout,
		},
	})
	if err != nil {
		panic(err)
	}
	defer pipelineLayout.Release()

	vertexLayout := wgpu.VertexBufferLayout{
		ArrayStride: uint64(unsafe.Sizeof(spriteVertex{})),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 12, ShaderLocation: 1},
		},
	}
	if key.Colored {
		vertexLayout.ArrayStride = uint64(unsafe.Sizeof(coloredSpriteVertex{}))
		vertexLayout.Attributes = append(vertexLayout.Attributes,
			wgpu.VertexAttribute{Format: wgpu.VertexFormatFloat32x4, Offset: 20, ShaderLocation: 2},
		)
	}

	samples := key.Samples
	if samples == 0 {
		samples = 1
	}

	pipeline, err := gpu.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label,
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers:    []wgpu.VertexBufferLayout{vertexLayout},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    gpu.surfaceConfig.Format,
					WriteMask: wgpu.ColorWriteMaskAll,
					Blend: &wgpu.BlendState{
						Color: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorSrcAlpha,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
						Alpha: wgpu.BlendComponent{
							Operation: wgpu.BlendOperationAdd,
							SrcFactor: wgpu.BlendFactorOne,
							DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
						},
					},
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count:                  samples,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	})
	if err != nil {
		panic(err)
	}
	return pipeline
}

func spriteShaderWgsl(colored bool) string {
	vertexColorIn := ""
	vertexColorOut := ""
	fragmentTint := ""
	if colored {
		vertexColorIn = ",\n    @location(2) color: vec4<f32>"
		vertexColorOut = "\n    out.color = color;"
		fragmentTint = "\n    color = color * in.color;"
	}
	outColorField := ""
	if colored {
		outColorField = "\n    @location(1) color: vec4<f32>,"
	}

	return `struct View {
    view_proj: mat4x4<f32>,
};
@group(0) @binding(0) var<uniform> view: View;

@group(1) @binding(0) var sprite_texture: texture_2d<f32>;
@group(1) @binding(1) var sprite_sampler: sampler;

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) uv: vec2<f32>,` + outColorField + `
};

@vertex
fn vs_main(
    @location(0) position: vec3<f32>,
    @location(1) uv: vec2<f32>` + vertexColorIn + `
) -> VertexOutput {
    var out: VertexOutput;
    out.clip_position = view.view_proj * vec4<f32>(position, 1.0);
    out.uv = uv;` + vertexColorOut + `
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    var color = textureSample(sprite_texture, sprite_sampler, in.uv);` + fragmentTint + `
    return color;
}
`
}
