// Package vqt implements the Variational Quantum Thermalizer.
//
// The thermalizer prepares an approximate Gibbs state exp(-beta*H)/Z by jointly
// optimizing a factorized distribution over computational basis states and a
// parameterized circuit applied to each basis state.
//
// References:
//   - Quantum Hamiltonian-Based Models and the Variational Quantum Thermalizer Algorithm, Verdon, Marks, Nanda, Leichenauer, Hidary
package vqt

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/samay-kothari/VQT/mat"
)

var identity = mat.COOIdentity(2)

// Graph is a set of qubits and the pairs among them that interact.
type Graph struct {
	Nodes int
	Edges [][2]int
}

// Cycle returns the cycle graph on n nodes.
// On 2 nodes the cycle degenerates to a single bond, not a doubled one.
func Cycle(n int) Graph {
	g := Graph{Nodes: n}
	if n == 2 {
		g.Edges = [][2]int{{0, 1}}
		return g
	}
	for i := 0; i < n; i++ {
		g.Edges = append(g.Edges, [2]int{i, (i + 1) % n})
	}
	return g
}

func (g Graph) validate() error {
	if g.Nodes < 2 {
		return errors.Errorf("%d nodes", g.Nodes)
	}
	for _, e := range g.Edges {
		if e[0] < 0 || e[0] >= g.Nodes || e[1] < 0 || e[1] >= g.Nodes || e[0] == e[1] {
			return errors.Errorf("edge %v out of range for %d nodes", e, g.Nodes)
		}
	}
	return nil
}

// Heisenberg builds the Heisenberg hamiltonian of a graph,
// the sum of XX + YY + ZZ interactions over its edges.
func Heisenberg(hamiltonian, buf *mat.COO, g Graph) error {
	if err := g.validate(); err != nil {
		return errors.Wrap(err, "")
	}

	hamiltonian.Zeros(1<<g.Nodes, 1<<g.Nodes)
	for _, edge := range g.Edges {
		for _, pauli := range [][][]complex64{mat.PauliX, mat.PauliY, mat.PauliZ} {
			interaction(hamiltonian, g.Nodes, edge, mat.M(pauli), buf)
		}
	}
	return nil
}

func interaction(hamiltonian *mat.COO, n int, edge [2]int, pauli *mat.COO, system *mat.COO) {
	system.Scalar(1)
	for q := 0; q < n; q++ {
		switch {
		case q == edge[0] || q == edge[1]:
			system.Kron(pauli)
		default:
			system.Kron(identity)
		}
	}

	hamiltonian.Add(1, system)
}

func indexBit(state []byte, n, i int) {
	stateStr := strconv.FormatInt(int64(i), 2)

	state = state[:0]
	// Pad zeros in front.
	for j := 0; j < n-len(stateStr); j++ {
		state = append(state, 0)
	}
	for _, bit := range []byte(stateStr) {
		state = append(state, bit-'0')
	}
}

// bits enumerates all n-bit strings in lexicographic order.
// The yielded state is a reused buffer.
func bits(n int) func(yield func(int, []byte) bool) {
	state := make([]byte, n)
	return func(yield func(int, []byte) bool) {
		numStates := 1 << n
		for i := range numStates {
			indexBit(state, n, i)
			if !yield(i, state) {
				return
			}
		}
	}
}
