package kite

import (
	"sort"

	"github.com/cogentcore/webgpu/wgpu"
)

type DrawFunctionId int

// DrawFunction records one phase item into an active render pass.
type DrawFunction func(ctx *drawContext, item PhaseItem)

// PhaseItem is one unit of work in a render phase: a pipeline, a draw
// function to invoke, the vertex range to draw and the depth key to sort by.
type PhaseItem struct {
	SortKey      float32
	DrawFunction DrawFunctionId
	Pipeline     *wgpu.RenderPipeline
	BatchIndex   int
	Start        uint32
	End          uint32
}

// RenderPhase collects phase items over a frame, sorts them back to front
// and is drained by the render system.
type RenderPhase struct {
	items []PhaseItem
}

func (p *RenderPhase) Add(item PhaseItem) {
	p.items = append(p.items, item)
}

// Sort orders items by ascending sort key. The sort is stable so items with
// equal depth keep their queue order.
func (p *RenderPhase) Sort() {
	sort.SliceStable(p.items, func(i, j int) bool {
		return p.items[i].SortKey < p.items[j].SortKey
	})
}

func (p *RenderPhase) clear() {
	p.items = p.items[:0]
}

func (p *RenderPhase) Items() []PhaseItem {
	return p.items
}

// DrawFunctions is a registry mapping names to draw functions. Queue systems
// look up an id once and stamp it onto their phase items.
type DrawFunctions struct {
	byName    map[string]DrawFunctionId
	functions []DrawFunction
}

func NewDrawFunctions() *DrawFunctions {
	return &DrawFunctions{byName: make(map[string]DrawFunctionId)}
}

func (df *DrawFunctions) Register(name string, fn DrawFunction) DrawFunctionId {
	if _, ok := df.byName[name]; ok {
		panic("draw function already registered: " + name)
	}
	id := DrawFunctionId(len(df.functions))
	df.functions = append(df.functions, fn)
	df.byName[name] = id
	return id
}

func (df *DrawFunctions) Id(name string) DrawFunctionId {
	id, ok := df.byName[name]
	if !ok {
		panic("unknown draw function: " + name)
	}
	return id
}

func (df *DrawFunctions) Get(id DrawFunctionId) DrawFunction {
	return df.functions[id]
}
