package vqt

import (
	"fmt"
	"math"
	"math/cmplx"

	gmat "gonum.org/v1/gonum/mat"

	"github.com/samay-kothari/VQT/circuit"
	"github.com/samay-kothari/VQT/mat"
)

// Gibbs returns the exact thermal state exp(-beta*H)/Z at inverse temperature beta.
func Gibbs(h *mat.COO, beta float64) *gmat.CDense {
	dim := h.Rows()
	if h.Cols() != dim {
		panic(fmt.Sprintf("%d %d", h.Rows(), h.Cols()))
	}

	negBH := gmat.NewDense(dim, dim, nil)
	for _, el := range h.Data {
		if imag(el.V) != 0 {
			panic("not real")
		}
		negBH.Set(el.Row, el.Col, -beta*float64(real(el.V)))
	}

	var expm gmat.Dense
	expm.Exp(negBH)

	var z float64
	for i := 0; i < dim; i++ {
		z += expm.At(i, i)
	}

	rho := gmat.NewCDense(dim, dim, nil)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			rho.Set(i, j, complex(expm.At(i, j)/z, 0))
		}
	}
	return rho
}

// FreeEnergy returns -log(Z), the exact minimum of the free-energy
// objective at inverse temperature beta, from the spectrum of h.
func FreeEnergy(h *mat.COO, beta float64) float64 {
	vvs := h.Eigen()
	// Shift by the ground energy so the exponentials never overflow.
	ground := real(vvs[0].Val)
	var z float64
	for _, vv := range vvs {
		z += math.Exp(-beta * (real(vv.Val) - ground))
	}
	return beta*ground - math.Log(z)
}

// Reconstruct builds the density matrix of the mixed state prepared by the
// latent distribution and circuit, by accumulating P(s)*|psi(s)><psi(s)|
// over all computational basis states s.
func Reconstruct(sim *circuit.Simulator, p Parameters) *gmat.CDense {
	n := sim.Qubits()
	if len(p.Latent) != n {
		panic(fmt.Sprintf("%d %d", len(p.Latent), n))
	}
	dist := Distribution(p.Latent)

	dim := 1 << n
	rho := gmat.NewCDense(dim, dim, nil)
	for _, state := range bits(n) {
		prob := 1.0
		for q, b := range state {
			prob *= dist[q][b]
		}
		if prob == 0 {
			continue
		}

		sim.Run(state, p.Ansatz)
		psi := sim.State()
		for i := 0; i < dim; i++ {
			ci := complex(prob, 0) * complex128(psi[i])
			for j := 0; j < dim; j++ {
				rho.Set(i, j, rho.At(i, j)+ci*cmplx.Conj(complex128(psi[j])))
			}
		}
	}
	return rho
}

// TraceDistance returns half the trace norm of a-b, a distance in [0, 1]
// between two density matrices.
//
// The hermitian difference d = x+iy is embedded into the real matrix
// [[x, -y], [y, x]], whose spectrum is that of d with every eigenvalue doubled.
func TraceDistance(a, b *gmat.CDense) float64 {
	ra, ca := a.Dims()
	rb, cb := b.Dims()
	if ra != ca || ra != rb || ca != cb {
		panic(fmt.Sprintf("%d %d %d %d", ra, ca, rb, cb))
	}

	dim := ra
	em := gmat.NewDense(2*dim, 2*dim, nil)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			d := a.At(i, j) - b.At(i, j)
			em.Set(i, j, real(d))
			em.Set(i+dim, j+dim, real(d))
			em.Set(i, j+dim, -imag(d))
			em.Set(i+dim, j, imag(d))
		}
	}

	var eig gmat.Eigen
	if ok := eig.Factorize(em, gmat.EigenNone); !ok {
		panic("eig.Factorize failed")
	}
	var sum float64
	for _, v := range eig.Values(nil) {
		sum += math.Abs(real(v))
	}
	// Halve once for the doubled spectrum, once for the distance.
	return sum / 4
}
