package kite

import (
	"github.com/go-gl/mathgl/mgl32"
)

// TransformComponent is an entity's world-space pose. For 2D sprites the Z
// position doubles as the depth used for back-to-front sorting.
type TransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// LocalTransformComponent is a pose relative to the entity's Parent.
type LocalTransformComponent struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

type Parent struct {
	Entity EntityId
}

// NewTransform2D places an entity at (x, y) with depth z, identity rotation
// and unit scale.
func NewTransform2D(x, y, z float32) TransformComponent {
	return TransformComponent{
		Position: mgl32.Vec3{x, y, z},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// mulVec3 applies the affine pose to a point: scale, rotate, translate.
func (tr *TransformComponent) mulVec3(v mgl32.Vec3) mgl32.Vec3 {
	scaled := mgl32.Vec3{
		v.X() * tr.Scale.X(),
		v.Y() * tr.Scale.Y(),
		v.Z() * tr.Scale.Z(),
	}
	return tr.Position.Add(tr.Rotation.Rotate(scaled))
}

type HierarchyModule struct{}

func (HierarchyModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(transformHierarchySystem).
			InStage(PostUpdate).
			RunAlways(),
	)
}

// transformHierarchySystem propagates local poses to world poses, multiple
// passes so deep hierarchies settle without an explicit topological sort.
func transformHierarchySystem(cmd *Commands) {
	for pass := 0; pass < 8; pass++ {
		changed := false
		MakeQuery3[LocalTransformComponent, Parent, TransformComponent](cmd).Map(func(eid EntityId, local *LocalTransformComponent, parent *Parent, world *TransformComponent) bool {
			var parentWorld *TransformComponent
			for _, c := range cmd.GetAllComponents(parent.Entity) {
				if pw, ok := c.(TransformComponent); ok {
					parentWorld = &pw
					break
				}
			}
			if parentWorld == nil {
				return true
			}

			// Components are propagated separately to preserve scale signs.
			scaledLocalPos := mgl32.Vec3{
				local.Position.X() * parentWorld.Scale.X(),
				local.Position.Y() * parentWorld.Scale.Y(),
				local.Position.Z() * parentWorld.Scale.Z(),
			}
			newPos := parentWorld.Position.Add(parentWorld.Rotation.Rotate(scaledLocalPos))
			newRot := parentWorld.Rotation.Mul(local.Rotation).Normalize()
			newScale := mgl32.Vec3{
				parentWorld.Scale.X() * local.Scale.X(),
				parentWorld.Scale.Y() * local.Scale.Y(),
				parentWorld.Scale.Z() * local.Scale.Z(),
			}

			if newPos != world.Position || newRot != world.Rotation || newScale != world.Scale {
				world.Position = newPos
				world.Rotation = newRot
				world.Scale = newScale
				changed = true
			}
			return true
		})
		if !changed {
			break
		}
	}
}
