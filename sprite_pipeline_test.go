package kite

import (
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestSpritePipeline_SpecializeCachesPerKey(t *testing.T) {
	sp := NewSpritePipeline()
	builds := 0
	sp.build = func(key SpritePipelineKey) *wgpu.RenderPipeline {
		builds++
		return new(wgpu.RenderPipeline)
	}

	key := SpritePipelineKey{Colored: true, Samples: 4}
	first := sp.Specialize(key)
	second := sp.Specialize(key)

	if builds != 1 {
		t.Errorf("expected a single build for repeated key, got %d", builds)
	}
	if first != second {
		t.Errorf("expected the cached pipeline to be returned")
	}
}

func TestSpritePipeline_DistinctKeysBuildDistinctPipelines(t *testing.T) {
	sp := NewSpritePipeline()
	built := make(map[SpritePipelineKey]*wgpu.RenderPipeline)
	sp.build = func(key SpritePipelineKey) *wgpu.RenderPipeline {
		p := new(wgpu.RenderPipeline)
		built[key] = p
		return p
	}

	keys := []SpritePipelineKey{
		{Colored: false, Samples: 1},
		{Colored: true, Samples: 1},
		{Colored: false, Samples: 4},
		{Colored: true, Samples: 4},
	}
	for _, key := range keys {
		sp.Specialize(key)
	}

	if len(built) != len(keys) {
		t.Fatalf("expected %d distinct pipelines, got %d", len(keys), len(built))
	}
	for _, key := range keys {
		if sp.Specialize(key) != built[key] {
			t.Errorf("key %+v resolved to the wrong pipeline", key)
		}
	}
}

func TestSpriteShaderWgsl_ColoredVariant(t *testing.T) {
	plain := spriteShaderWgsl(false)
	colored := spriteShaderWgsl(true)

	if plain == colored {
		t.Fatalf("variants should differ")
	}
	for _, fragment := range []string{"vs_main", "fs_main", "view_proj", "textureSample"} {
		if !strings.Contains(plain, fragment) || !strings.Contains(colored, fragment) {
			t.Errorf("both variants should contain %q", fragment)
		}
	}
	if strings.Contains(plain, "@location(2) color") {
		t.Errorf("plain shader should not declare a color attribute")
	}
	if !strings.Contains(colored, "@location(2) color") {
		t.Errorf("colored shader must declare the color attribute")
	}
}
