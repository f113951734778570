package kite

import (
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

type WindowState struct {
	// glfw
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string

	pollEvents  func()
	shouldClose func() bool
}

type GpuState struct {
	surface       *wgpu.Surface
	adapter       *wgpu.Adapter
	device        *wgpu.Device
	queue         *wgpu.Queue
	surfaceConfig *wgpu.SurfaceConfiguration

	// Multisample target, allocated lazily when sample count > 1.
	msaaSamples uint32
	msaaTexture *wgpu.Texture
	msaaView    *wgpu.TextureView
	msaaWidth   uint32
	msaaHeight  uint32
}

type WindowModule struct {
	Width  int
	Height int
	Title  string
}

func (mod WindowModule) Install(app *App, cmd *Commands) {
	windowState := createWindowState(mod.Width, mod.Height, mod.Title)
	gpuState := createGpuState(windowState)
	app.Logger().Infof("window %dx%d, surface format %v",
		mod.Width, mod.Height, gpuState.surfaceConfig.Format)
	cmd.AddResources(
		windowState,
		gpuState,
	)
	app.UseSystem(
		System(windowEventsSystem).
			InStage(Finale).
			RunAlways(),
	)
}

func createWindowState(windowWidth int, windowHeight int, windowTitle string) *WindowState {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		panic(err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // Important: tell GLFW we don't want OpenGL
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		panic(err)
	}

	return &WindowState{
		windowGlfw:   win,
		WindowWidth:  windowWidth,
		WindowHeight: windowHeight,
		windowTitle:  windowTitle,
		pollEvents:   glfw.PollEvents,
		shouldClose:  win.ShouldClose,
	}
}

func createGpuState(s *WindowState) *GpuState {
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()
	// wraps GLFW window into a wgpu surface.
	surface := instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(s.windowGlfw))
	// finds a suitable GPU (discrete GPU preferred)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		panic(err)
	}
	// allocates the device and command queue
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:            "Main Device",
		RequiredFeatures: nil,
		RequiredLimits:   nil,
	})
	if err != nil {
		panic(err)
	}
	queue := device.GetQueue()

	caps := surface.GetCapabilities(adapter)
	// defines how the swapchain behaves (size, format, vsync)
	surfaceConfig := wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(s.WindowWidth),
		Height:      uint32(s.WindowHeight),
		PresentMode: wgpu.PresentModeFifo, // vsync
		AlphaMode:   caps.AlphaModes[0],
	}

	surface.Configure(adapter, device, &surfaceConfig)

	return &GpuState{
		surface:       surface,
		adapter:       adapter,
		device:        device,
		queue:         queue,
		surfaceConfig: &surfaceConfig,
		msaaSamples:   1,
	}
}

// ensureMsaaTarget (re)creates the offscreen multisample color target when
// the sample count or the swapchain size changed. The swapchain view then
// becomes the resolve target of the render pass.
func (gpu *GpuState) ensureMsaaTarget(samples uint32) {
	if samples <= 1 {
		return
	}
	width := gpu.surfaceConfig.Width
	height := gpu.surfaceConfig.Height
	if gpu.msaaView != nil && gpu.msaaSamples == samples &&
		gpu.msaaWidth == width && gpu.msaaHeight == height {
		return
	}

	if gpu.msaaView != nil {
		gpu.msaaView.Release()
		gpu.msaaTexture.Release()
	}

	texture, err := gpu.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "MSAA Color Target",
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     wgpu.TextureDimension2D,
		Format:        gpu.surfaceConfig.Format,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}

	view, err := texture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	gpu.msaaTexture = texture
	gpu.msaaView = view
	gpu.msaaSamples = samples
	gpu.msaaWidth = width
	gpu.msaaHeight = height
}

// windowEventsSystem pumps the platform event queue once per frame and quits
// when the window was asked to close. The pump lives here, not in the input
// module, so close requests work in apps that never read input.
func windowEventsSystem(s *WindowState, cmd *Commands) {
	s.pollEvents()
	if s.shouldClose() {
		cmd.Quit()
	}
}
