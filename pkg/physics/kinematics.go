// pkg/physics/kinematics.go
package physics

// Kinematics describes a point moving on the unit torus for the duration
// of one tick: position in [0,1)², a unit heading vector, and a scalar
// speed in torus-units per tick. The heading is stored as a vector, not
// an angle, so propagation never re-runs trigonometry; it is re-derived
// from an angle only when the ship actually turns.
type Kinematics struct {
	Pos     Vec2
	Heading Vec2
	V       float32
}

// Velocity returns the displacement covered in one tick.
func (k Kinematics) Velocity() Vec2 {
	return k.Heading.Scale(k.V)
}

// Propagate returns the position after one tick of motion, wrapped onto
// the unit torus on each axis independently.
func (k Kinematics) Propagate() Vec2 {
	return Vec2{
		X: Wrap(k.Pos.X+k.V*k.Heading.X, 0, 1),
		Y: Wrap(k.Pos.Y+k.V*k.Heading.Y, 0, 1),
	}
}
