package physics

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// ForceLaw gives the acceleration one body receives from another.
type ForceLaw interface {
	Name() string
	Contribution(self, other *dynamo.Body) r3.Vec
}

// Newtonian is inverse-square attraction along the separation vector:
// a += GMⱼ·(pⱼ−pᵢ)/|pⱼ−pᵢ|³.
type Newtonian struct{}

func NewNewtonian() *Newtonian { return &Newtonian{} }

func (Newtonian) Name() string { return "newtonian" }

func (Newtonian) Contribution(self, other *dynamo.Body) r3.Vec {
	delta := r3.Sub(other.Position(), self.Position())
	return r3.Scale(other.GravitationalParameter()*invDist3(delta), delta)
}

// AsBuilt reproduces the ephemeris viewer's formula,
// a += −GMⱼ·pᵢ/|pⱼ−pᵢ|³. The direction follows the body's own position
// vector rather than the separation, so results depend on where the origin
// sits and momentum is not conserved.
type AsBuilt struct{}

func NewAsBuilt() *AsBuilt { return &AsBuilt{} }

func (AsBuilt) Name() string { return "as-built" }

func (AsBuilt) Contribution(self, other *dynamo.Body) r3.Vec {
	delta := r3.Sub(other.Position(), self.Position())
	return r3.Scale(-other.GravitationalParameter()*invDist3(delta), self.Position())
}

// Acceleration sums the contributions of every body except i, reading the
// current positions of sys.
func Acceleration(law ForceLaw, sys *dynamo.System, i int) r3.Vec {
	self := sys.Body(i)
	var acc r3.Vec
	for j, other := range sys.Bodies() {
		if j == i {
			continue
		}
		acc = r3.Add(acc, law.Contribution(self, other))
	}
	return acc
}

// Coincident bodies give an infinite inverse distance, which turns into
// NaN or Inf in the result. Callers decide whether to guard.
func invDist3(delta r3.Vec) float64 {
	inv := 1 / r3.Norm(delta)
	return inv * inv * inv
}
