package kite

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Camera2DComponent marks an entity as the active 2D camera. World units map
// 1:1 to pixels at Zoom 1; the camera's transform supplies the view center.
type Camera2DComponent struct {
	Zoom float32
}

// ViewUniforms holds the view-projection matrix for the current frame and
// its GPU buffer. Until a camera has produced a matrix, Available is false
// and sprite queueing skips the frame.
type ViewUniforms struct {
	ViewProj  mgl32.Mat4
	Available bool

	buffer *wgpu.Buffer
}

type CameraModule struct{}

func (CameraModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&ViewUniforms{})
	app.UseSystem(
		System(viewUniformsSystem).
			InStage(Prepare).
			RunAlways(),
	)
}

// viewUniformsSystem recomputes the view-projection matrix from the first
// camera entity and uploads it. Runs in the prepare stage so the queue stage
// sees a settled view.
func viewUniformsSystem(cmd *Commands, view *ViewUniforms, window *WindowState, gpu *GpuState) {
	view.Available = false

	var camera *Camera2DComponent
	var camTransform *TransformComponent
	MakeQuery2[Camera2DComponent, TransformComponent](cmd).Map(func(eid EntityId, cam *Camera2DComponent, tr *TransformComponent) bool {
		camera = cam
		camTransform = tr
		return false
	})
	if camera == nil {
		return
	}

	zoom := camera.Zoom
	if zoom == 0 {
		zoom = 1
	}
	halfW := float32(window.WindowWidth) / (2 * zoom)
	halfH := float32(window.WindowHeight) / (2 * zoom)

	proj := mgl32.Ortho(-halfW, halfW, -halfH, halfH, -1000, 1000)
	eye := camTransform.Position
	viewMat := mgl32.Translate3D(-eye.X(), -eye.Y(), 0)

	view.ViewProj = proj.Mul4(viewMat)

	if view.buffer == nil {
		buffer, err := gpu.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "View Uniforms",
			Size:  uint64(len(view.ViewProj) * 4),
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			panic(err)
		}
		view.buffer = buffer
	}
	err := gpu.queue.WriteBuffer(view.buffer, 0, wgpu.ToBytes(view.ViewProj[:]))
	if err != nil {
		panic(err)
	}

	view.Available = true
}
