// pkg/physics/sweep.go
package physics

// relative speeds squared below this collapse the closest-approach time
// to zero instead of dividing by (near) nothing
const epsRelSpeedSq = 1e-30

// MinSquaredApproach computes the minimum squared distance between two
// linearly moving points during one tick on the unit torus.
//
// The true nearest periodic image of the relative offset is unknown a
// priori: a pair that looks far apart in single-image coordinates can be
// about to meet across the wraparound boundary. The relative offset is
// therefore checked against all nine images in the 3×3 tile
// neighborhood. For each image the closest point of approach along the
// relative motion is clamped to the tick interval [0,1] and the squared
// distance there is evaluated; the global minimum over all images wins.
func MinSquaredApproach(a, b Kinematics) float32 {
	v := a.Velocity().Sub(b.Velocity())
	v2 := v.LengthSquared()

	p := a.Pos.Sub(b.Pos)

	var minD2 float32 = 10 // an unreasonably large distance on the unit torus
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			q := Vec2{X: p.X - float32(dx), Y: p.Y - float32(dy)}

			var t float32
			if v2 >= epsRelSpeedSq {
				t = Clamp(-q.Dot(v)/v2, 0, 1)
			}

			d := q.Add(v.Scale(t))
			if d2 := d.LengthSquared(); d2 < minD2 {
				minD2 = d2
			}
		}
	}

	return minD2
}

// Sweep reports whether two moving points pass within the given squared
// threshold of each other at any time during the tick. The test is
// symmetric in its inputs; callers pick the threshold (hit-radius² for
// shot vs ship, (2×hit-radius)² for ship vs ship).
//
// Checking only end-of-tick positions would let a fast shot tunnel clean
// through a ship inside a single tick; the swept test considers the whole
// interval.
func Sweep(a, b Kinematics, thresholdSq float32) bool {
	return MinSquaredApproach(a, b) < thresholdSq
}
