package kite

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestImageBindGroups_ModifiedEvictsEntry(t *testing.T) {
	groups := NewImageBindGroups()
	groups.values["a"] = new(wgpu.BindGroup)
	groups.values["b"] = new(wgpu.BindGroup)

	groups.processEvents([]AssetEvent{{Kind: AssetModified, Id: "a"}})

	if _, ok := groups.values["a"]; ok {
		t.Errorf("modified texture should be evicted")
	}
	if _, ok := groups.values["b"]; !ok {
		t.Errorf("untouched texture should stay cached")
	}
}

func TestImageBindGroups_RemovedEvictsEntry(t *testing.T) {
	groups := NewImageBindGroups()
	groups.values["a"] = new(wgpu.BindGroup)

	groups.processEvents([]AssetEvent{{Kind: AssetRemoved, Id: "a"}})

	if len(groups.values) != 0 {
		t.Errorf("removed texture should be evicted")
	}
}

func TestImageBindGroups_CreatedIsNoOp(t *testing.T) {
	groups := NewImageBindGroups()
	groups.values["a"] = new(wgpu.BindGroup)

	groups.processEvents([]AssetEvent{{Kind: AssetCreated, Id: "a"}})

	if _, ok := groups.values["a"]; !ok {
		t.Errorf("created event must not touch the cache")
	}
}

func TestImageBindGroups_EvictUnknownIdIsHarmless(t *testing.T) {
	groups := NewImageBindGroups()
	groups.processEvents([]AssetEvent{
		{Kind: AssetModified, Id: "ghost"},
		{Kind: AssetRemoved, Id: "ghost"},
	})
	if len(groups.values) != 0 {
		t.Errorf("cache should stay empty")
	}
}
