// pkg/physics/vector.go
package physics

// Vec2 represents a 2D vector with x and y components.
//
// All physics code runs on float32: the engine must produce identical
// results on every host, and single precision matches the arithmetic
// width used by sandboxed (wasm) builds.
type Vec2 struct {
	X float32
	Y float32
}

// Add returns the sum of two vectors.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{
		X: v.X + other.X,
		Y: v.Y + other.Y,
	}
}

// Sub returns the difference between two vectors.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{
		X: v.X - other.X,
		Y: v.Y - other.Y,
	}
}

// Scale multiplies the vector by a scalar value.
func (v Vec2) Scale(factor float32) Vec2 {
	return Vec2{
		X: v.X * factor,
		Y: v.Y * factor,
	}
}

// Dot returns the dot product of two vectors.
func (v Vec2) Dot(other Vec2) float32 {
	return v.X*other.X + v.Y*other.Y
}

// LengthSquared returns the squared magnitude of the vector.
// The engine compares squared distances everywhere, so there is no
// Length method: square roots are never needed and never taken.
func (v Vec2) LengthSquared() float32 {
	return v.X*v.X + v.Y*v.Y
}

// HeadingVec builds a unit heading vector from an angle in degrees
// (0-up, 90-right) using the deterministic trig approximations.
func HeadingVec(degrees float32) Vec2 {
	return Vec2{
		X: Sin(degrees),
		Y: Cos(degrees),
	}
}
