package tree

// Vec3 is a position or scale in local space.
type Vec3 [3]float64

// Quat is a rotation quaternion stored as x, y, z, w.
type Quat [4]float64

// Transform is the local placement of a node relative to its parent.
type Transform struct {
	Position Vec3
	Rotation Quat
	Scale    Vec3
}

// Identity returns the neutral placement.
func Identity() Transform {
	return Transform{
		Rotation: Quat{0, 0, 0, 1},
		Scale:    Vec3{1, 1, 1},
	}
}

// IsIdentity reports whether t equals Identity().
func (t Transform) IsIdentity() bool {
	return t == Identity()
}
