package interp

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	axisX = mgl64.Vec3{1, 0, 0}
	axisY = mgl64.Vec3{0, 1, 0}
	axisZ = mgl64.Vec3{0, 0, 1}
)

// eulerToQuat converts extrinsic x-y-z Euler angles in degrees to a unit
// quaternion.
func eulerToQuat(e []float64) mgl64.Quat {
	qx := mgl64.QuatRotate(mgl64.DegToRad(e[0]), axisX)
	qy := mgl64.QuatRotate(mgl64.DegToRad(e[1]), axisY)
	qz := mgl64.QuatRotate(mgl64.DegToRad(e[2]), axisZ)
	return qz.Mul(qy).Mul(qx).Normalize()
}

// quatToEuler is the inverse of eulerToQuat. At gimbal lock the x angle is
// reported as zero.
func quatToEuler(q mgl64.Quat, out []float64) {
	w, x, y, z := q.W, q.V[0], q.V[1], q.V[2]

	r20 := 2 * (x*z - w*y)
	r20 = math.Max(-1, math.Min(1, r20))
	pitch := math.Asin(-r20)

	var roll, yaw float64
	if math.Abs(r20) > 1-1e-9 {
		r01 := 2 * (x*y - w*z)
		r11 := 1 - 2*(x*x+z*z)
		roll = 0
		yaw = math.Atan2(-r01, r11)
	} else {
		r21 := 2 * (y*z + w*x)
		r22 := 1 - 2*(x*x+y*y)
		r10 := 2 * (x*y + w*z)
		r00 := 1 - 2*(y*y+z*z)
		roll = math.Atan2(r21, r22)
		yaw = math.Atan2(r10, r00)
	}

	out[0] = mgl64.RadToDeg(roll)
	out[1] = mgl64.RadToDeg(pitch)
	out[2] = mgl64.RadToDeg(yaw)
}

// slerpShortest interpolates along the shorter of the two arcs between a
// and b.
func slerpShortest(a, b mgl64.Quat, f float64) mgl64.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatSlerp(a, b, f)
}
