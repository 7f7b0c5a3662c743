// Package spatialmath defines the spatial mathematical operations needed to
// track a flying agent's orientation on a planar grid.
package spatialmath

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

const (
	radToDeg = 180 / math.Pi
	degToRad = math.Pi / 180
)

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * radToDeg
}

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * degToRad
}

// EulerAngles represents a rotation in the Tait-Bryan roll-pitch-yaw
// formalism ("xyz" intrinsic), in radians.
type EulerAngles struct {
	Roll  float64 // rotation about X
	Pitch float64 // rotation about Y
	Yaw   float64 // rotation about Z
}

// YawDegrees returns the yaw component in degrees.
func (ea *EulerAngles) YawDegrees() float64 {
	return RadToDeg(ea.Yaw)
}

// NewQuaternion builds a quaternion from the (x, y, z, w) component ordering
// used by most pose sources, mapping onto gonum's (real, i, j, k) layout.
func NewQuaternion(x, y, z, w float64) quat.Number {
	return quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z}
}

// QuatToEulerAngles converts a rotation unit quaternion to euler angles.
// See the following wikipedia page for the formulas used here:
// https://en.wikipedia.org/wiki/Conversion_between_quaternions_and_Euler_angles#Quaternion_to_Euler_angles_conversion
func QuatToEulerAngles(q quat.Number) *EulerAngles {
	w := q.Real
	x := q.Imag
	y := q.Jmag
	z := q.Kmag

	return &EulerAngles{
		Roll:  math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y)),
		Pitch: math.Asin(2 * (w*y - x*z)),
		Yaw:   math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z)),
	}
}

// NormalizeDegrees maps an angle in degrees onto (-180, 180].
func NormalizeDegrees(degrees float64) float64 {
	d := math.Mod(degrees, 360)
	if d > 180 {
		d -= 360
	}
	if d <= -180 {
		d += 360
	}
	return d
}
