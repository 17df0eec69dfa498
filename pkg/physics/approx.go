// Package physics provides the deterministic math kernel and the swept
// collision test for the torus-battle engine.
//
// None of the functions here call into the standard math library. Library
// transcendentals may differ in their last bits between platforms and
// compilers, which would make two builds of the same round diverge, and
// they are not available at all in allocator-free sandboxed builds. The
// kernel instead uses closed-form rational approximations whose error is
// bounded well below the engine's tolerances (heading recovery stays
// within ~0.1 degrees across chained turn/recover round trips).
package physics

// Wrap shifts x by one period if it lies outside [min, max).
// Used for toroidal positions (period 1) and angles (period 360).
func Wrap(x, min, max float32) float32 {
	if x < min {
		return x + (max - min)
	}
	if x >= max {
		return x - (max - min)
	}
	return x
}

// Clamp limits x to the closed interval [min, max].
func Clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}

// Sin approximates sin(x) for x in degrees using Bhāskara I's rational
// formula, after folding x into [0,360) and exploiting odd symmetry for
// the second half turn.
func Sin(x float32) float32 {
	x = Wrap(x, 0, 360)

	var sign float32 = 1
	if x > 180 {
		sign = -1
		x -= 180
	}

	return sign * 4 * x * (180 - x) / (40500 - x*(180-x))
}

// Cos approximates cos(x) for x in degrees.
func Cos(x float32) float32 {
	return Sin(x + 90)
}

// Rational arctan coefficients for HeadingAngle.
const (
	atanA float32 = 4.87001792
	atanB float32 = -17.05931736
	atanC float32 = 57.18929944
)

// HeadingAngle recovers the heading angle in degrees (0-up, 90-right)
// from a unit heading vector, without a library atan2. The rational
// polynomial covers one octant; the signs of both components select the
// quadrant. The input must be (near) unit length and non-zero.
func HeadingAngle(heading Vec2) float32 {
	u, v := heading.X, heading.Y

	var signU, signV float32 = 1, 1
	absU, absV := u, v
	if u < 0 {
		signU = -1
		absU = -u
	}
	if v < 0 {
		signV = -1
		absV = -v
	}

	r := (absV - absU) / (absV + absU)
	r2 := r * r

	angle := 90 - signV*(45+((atanA*r2+atanB)*r2+atanC)*r)

	return 180 + signU*(angle-180)
}
