package game

import "github.com/go-gl/mathgl/mgl64"

// View is the camera transform derived from the player pose
type View struct {
	Position mgl64.Vec3 `json:"position" msgpack:"position"`
	LookAt   mgl64.Vec3 `json:"lookAt" msgpack:"lookAt"`
}

var worldUp = mgl64.Vec3{0, 1, 0}

// CameraView rotates the configured offset about +Y by the heading and places it relative to the player
func CameraView(p PlayerState, cfg Config) View {
	offset := mgl64.Rotate3DY(p.Angle).Mul3x1(cfg.CameraOffset)
	return View{
		Position: mgl64.Vec3{p.X + offset.X(), offset.Y(), p.Z + offset.Z()},
		LookAt:   mgl64.Vec3{p.X, cfg.CameraTargetHeight, p.Z},
	}
}

// Matrix returns the right-handed look-at view matrix
func (v View) Matrix() mgl64.Mat4 {
	return mgl64.LookAtV(v.Position, v.LookAt, worldUp)
}
