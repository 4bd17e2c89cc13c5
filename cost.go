package vqt

import (
	"fmt"

	"github.com/samay-kothari/VQT/circuit"
	"github.com/samay-kothari/VQT/mat"
)

// Cost evaluates the free-energy objective beta*tr(rho*H) - S(rho)
// of the state parameterized by p.
//
// The energy term sums P(s)*<s|U'HU|s> over all computational basis states s,
// where P is the factorized latent distribution. Minimizing the cost drives
// the energy down and the entropy up, the two terms of the Gibbs free energy.
func Cost(sim *circuit.Simulator, h *mat.COO, p Parameters, beta float64) float64 {
	if len(p.Latent) != sim.Qubits() {
		panic(fmt.Sprintf("%d %d", len(p.Latent), sim.Qubits()))
	}
	dist := Distribution(p.Latent)

	var energy float64
	for _, state := range bits(sim.Qubits()) {
		prob := 1.0
		for q, b := range state {
			prob *= dist[q][b]
		}
		if prob == 0 {
			continue
		}

		sim.Run(state, p.Ansatz)
		energy += prob * sim.Expectation(h)
	}

	return beta*energy - Entropy(dist)
}
