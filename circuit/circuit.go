// Package circuit simulates parameterized quantum circuits on an exact state vector.
//
// The register state is kept as a rank n tensor of shape [2, ..., 2],
// and gates are applied by tensor contraction followed by an axis permutation.
package circuit

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/fumin/tensor"

	"github.com/samay-kothari/VQT/mat"
)

// Ansatz is a fixed-depth layered circuit.
// Each layer applies single-qubit rotations about the Z, X, Y axes in that order,
// followed by a ring of controlled-RX gates where qubit q controls qubit (q+1) mod n.
type Ansatz struct {
	// Rotation angles, indexed by [layer][axis][qubit] with axes ordered Z, X, Y.
	Rotation [][3][]float64
	// Coupling angles, indexed by [layer][qubit].
	Coupling [][]float64
}

// Depth returns the number of layers.
func (a Ansatz) Depth() int {
	return len(a.Rotation)
}

func (a Ansatz) validate(n int) {
	if len(a.Coupling) != len(a.Rotation) {
		panic(fmt.Sprintf("%d %d", len(a.Coupling), len(a.Rotation)))
	}
	for l, rot := range a.Rotation {
		for _, angles := range rot {
			if len(angles) != n {
				panic(fmt.Sprintf("%d %d %d", l, len(angles), n))
			}
		}
		if len(a.Coupling[l]) != n {
			panic(fmt.Sprintf("%d %d %d", l, len(a.Coupling[l]), n))
		}
	}
}

// Simulator holds the state vector of an n qubit register.
// The coupling ring is undefined on a single qubit, so n must be at least 2.
type Simulator struct {
	n     int
	shape []int
	state *tensor.Dense
	buf   *tensor.Dense
}

func NewSimulator(n int) *Simulator {
	if n < 2 {
		panic(fmt.Sprintf("%d", n))
	}
	shape := make([]int, n)
	for i := range shape {
		shape[i] = 2
	}
	return &Simulator{n: n, shape: shape, state: tensor.Zeros(shape...), buf: tensor.Zeros(1)}
}

// Qubits returns the register size.
func (s *Simulator) Qubits() int {
	return s.n
}

// Run initializes the register to the computational basis state bits,
// and applies the ansatz layers to it.
func (s *Simulator) Run(bits []byte, a Ansatz) {
	if len(bits) != s.n {
		panic(fmt.Sprintf("%d %d", len(bits), s.n))
	}
	a.validate(s.n)

	s.state.Reset(s.shape...)
	idx := make([]int, s.n)
	for q, b := range bits {
		if b > 1 {
			panic(fmt.Sprintf("%d %d", q, b))
		}
		idx[q] = int(b)
	}
	s.state.SetAt(idx, 1)

	for l := range a.Rotation {
		for axis := range 3 {
			for q := range s.n {
				s.apply1(rotation(axis, a.Rotation[l][axis][q]), q)
			}
		}
		for q := range s.n {
			s.apply2(crx(a.Coupling[l][q]), q, (q+1)%s.n)
		}
	}
}

// Expectation returns <psi|H|psi> for a hermitian observable.
func (s *Simulator) Expectation(h *mat.COO) float64 {
	dim := 1 << s.n
	if h.Rows() != dim || h.Cols() != dim {
		panic(fmt.Sprintf("%d %d %d", h.Rows(), h.Cols(), dim))
	}

	psi := s.state.Reshape(dim)
	var e complex128
	for _, el := range h.Data {
		bra := cmplx.Conj(complex128(psi.At(el.Row)))
		e += bra * complex128(el.V) * complex128(psi.At(el.Col))
	}
	s.state.Reshape(s.shape...)
	return real(e)
}

// State returns a copy of the state vector in lexicographic bit-string order.
func (s *Simulator) State() []complex64 {
	dim := 1 << s.n
	psi := s.state.Reshape(dim)
	out := make([]complex64, dim)
	for i := range out {
		out[i] = psi.At(i)
	}
	s.state.Reshape(s.shape...)
	return out
}

// apply1 contracts a single-qubit gate of shape [out, in] with qubit q,
// and permutes the out axis back into place.
func (s *Simulator) apply1(g *tensor.Dense, q int) {
	tensor.Product(s.buf, g, s.state, [][2]int{{1, q}})

	perm := make([]int, s.n)
	for i := 0; i < q; i++ {
		perm[i] = i + 1
	}
	perm[q] = 0
	for i := q + 1; i < s.n; i++ {
		perm[i] = i
	}
	resetCopy(s.state, s.buf.Transpose(perm...))
}

// apply2 contracts a two-qubit gate of shape [outC, outT, inC, inT]
// with the control and target qubits.
func (s *Simulator) apply2(g *tensor.Dense, control, target int) {
	if control == target {
		panic(fmt.Sprintf("%d %d", control, target))
	}
	tensor.Product(s.buf, g, s.state, [][2]int{{2, control}, {3, target}})

	perm := make([]int, s.n)
	rest := 2
	for i := 0; i < s.n; i++ {
		switch i {
		case control:
			perm[i] = 0
		case target:
			perm[i] = 1
		default:
			perm[i] = rest
			rest++
		}
	}
	resetCopy(s.state, s.buf.Transpose(perm...))
}

const (
	axisZ = 0
	axisX = 1
	axisY = 2
)

func rotation(axis int, theta float64) *tensor.Dense {
	switch axis {
	case axisZ:
		return rz(theta)
	case axisX:
		return rx(theta)
	case axisY:
		return ry(theta)
	default:
		panic(fmt.Sprintf("%d", axis))
	}
}

func rz(theta float64) *tensor.Dense {
	e := cmplx.Exp(complex(0, theta/2))
	return tensor.T2([][]complex64{
		{complex64(cmplx.Conj(e)), 0},
		{0, complex64(e)},
	})
}

func rx(theta float64) *tensor.Dense {
	c := complex64(complex(math.Cos(theta/2), 0))
	s := complex64(complex(0, -math.Sin(theta/2)))
	return tensor.T2([][]complex64{
		{c, s},
		{s, c},
	})
}

func ry(theta float64) *tensor.Dense {
	c := complex64(complex(math.Cos(theta/2), 0))
	s := complex64(complex(math.Sin(theta/2), 0))
	return tensor.T2([][]complex64{
		{c, -s},
		{s, c},
	})
}

// crx is the controlled-RX gate as a rank 4 tensor indexed [outC][outT][inC][inT].
func crx(theta float64) *tensor.Dense {
	c := complex64(complex(math.Cos(theta/2), 0))
	s := complex64(complex(0, -math.Sin(theta/2)))
	return tensor.T4([][][][]complex64{
		{
			{{1, 0}, {0, 0}},
			{{0, 1}, {0, 0}},
		},
		{
			{{0, 0}, {c, s}},
			{{0, 0}, {s, c}},
		},
	})
}

func resetCopy(dst, src *tensor.Dense) *tensor.Dense {
	shape := src.Shape()
	zeroDigit := make([]int, len(shape))
	dst.Reset(shape...).Set(zeroDigit, src)
	return dst
}
