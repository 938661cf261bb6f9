package space

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	cameraFOV  = 75.0 // degrees, vertical
	cameraNear = 0.1
	cameraFar  = 10000.0
	cameraZ0   = 50.0
)

// Camera is a perspective camera. Rotation is applied in Y, X, Z order so yaw
// and pitch stay independent of roll.
type Camera struct {
	Position mgl64.Vec3
	Rotation mgl64.Vec3
	FOV      float64
	Aspect   float64
	Near     float64
	Far      float64
}

func newCamera() Camera {
	return Camera{
		Position: mgl64.Vec3{0, 0, cameraZ0},
		Rotation: mgl64.Vec3{0, math.Pi, 0},
		FOV:      cameraFOV,
		Aspect:   1,
		Near:     cameraNear,
		Far:      cameraFar,
	}
}

// Resize updates the projection aspect ratio for a surface of the given size.
func (c *Camera) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float64(width) / float64(height)
}

// Projection returns the perspective projection matrix.
func (c Camera) Projection() mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// View returns the world-to-camera matrix.
func (c Camera) View() mgl64.Mat4 {
	rot := mgl64.HomogRotate3DY(c.Rotation[1]).
		Mul4(mgl64.HomogRotate3DX(c.Rotation[0])).
		Mul4(mgl64.HomogRotate3DZ(c.Rotation[2]))
	return rot.Transpose().Mul4(mgl64.Translate3D(-c.Position[0], -c.Position[1], -c.Position[2]))
}

// ObjectMatrix builds the local-to-world transform of a scene object. Object
// rotations use X, Y, Z order.
func ObjectMatrix(position, rotation, scale mgl64.Vec3) mgl64.Mat4 {
	rot := mgl64.HomogRotate3DX(rotation[0]).
		Mul4(mgl64.HomogRotate3DY(rotation[1])).
		Mul4(mgl64.HomogRotate3DZ(rotation[2]))
	return mgl64.Translate3D(position[0], position[1], position[2]).
		Mul4(rot).
		Mul4(mgl64.Scale3D(scale[0], scale[1], scale[2]))
}
