package vqt

import (
	"math/rand/v2"

	"github.com/pkg/errors"

	"github.com/samay-kothari/VQT/circuit"
)

// Parameters are the joint variables of the thermalizer:
// the latent distribution parameters and the circuit angles.
// The optimizer sees them only through Flatten and UnflattenParameters.
type Parameters struct {
	// Latent holds one distribution parameter per qubit.
	Latent []float64
	Ansatz circuit.Ansatz
}

// NewParameters returns zero-valued parameters for n qubits and the given circuit depth.
func NewParameters(n, depth int) Parameters {
	p := Parameters{Latent: make([]float64, n)}
	p.Ansatz.Rotation = make([][3][]float64, depth)
	p.Ansatz.Coupling = make([][]float64, depth)
	for l := 0; l < depth; l++ {
		for axis := range 3 {
			p.Ansatz.Rotation[l][axis] = make([]float64, n)
		}
		p.Ansatz.Coupling[l] = make([]float64, n)
	}
	return p
}

// RandParameters returns parameters drawn uniformly from [-r, r).
func RandParameters(n, depth int, rnd *rand.Rand, r float64) Parameters {
	p := NewParameters(n, depth)
	uniform := func(v []float64) {
		for i := range v {
			v[i] = (rnd.Float64()*2 - 1) * r
		}
	}
	uniform(p.Latent)
	for l := 0; l < depth; l++ {
		for axis := range 3 {
			uniform(p.Ansatz.Rotation[l][axis])
		}
		uniform(p.Ansatz.Coupling[l])
	}
	return p
}

// Flatten packs the parameters into a vector laid out as
// [latent | coupling | rotation], of length n*(1+4*depth).
func (p Parameters) Flatten() []float64 {
	n, depth := len(p.Latent), p.Ansatz.Depth()
	x := make([]float64, 0, n*(1+4*depth))
	x = append(x, p.Latent...)
	for l := 0; l < depth; l++ {
		x = append(x, p.Ansatz.Coupling[l]...)
	}
	for l := 0; l < depth; l++ {
		for axis := range 3 {
			x = append(x, p.Ansatz.Rotation[l][axis]...)
		}
	}
	return x
}

// UnflattenParameters is the inverse of Flatten.
func UnflattenParameters(x []float64, n, depth int) (Parameters, error) {
	if len(x) != n*(1+4*depth) {
		return Parameters{}, errors.Errorf("parameter vector length %d, expected %d for %d qubits at depth %d", len(x), n*(1+4*depth), n, depth)
	}

	p := NewParameters(n, depth)
	copy(p.Latent, x[:n])
	x = x[n:]
	for l := 0; l < depth; l++ {
		copy(p.Ansatz.Coupling[l], x[:n])
		x = x[n:]
	}
	for l := 0; l < depth; l++ {
		for axis := range 3 {
			copy(p.Ansatz.Rotation[l][axis], x[:n])
			x = x[n:]
		}
	}
	return p, nil
}
