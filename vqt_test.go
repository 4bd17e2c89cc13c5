package vqt

import (
	"flag"
	"fmt"
	"log"
	"math"
	"reflect"
	"testing"

	"github.com/samay-kothari/VQT/circuit"
	"github.com/samay-kothari/VQT/mat"
)

func TestHeisenberg(t *testing.T) {
	t.Parallel()
	tests := []struct {
		g           Graph
		hamiltonian *mat.COO
	}{
		// Single bond: XX + YY + ZZ.
		{
			g: Graph{Nodes: 2, Edges: [][2]int{{0, 1}}},
			hamiltonian: mat.M([][]complex64{
				{1, 0, 0, 0},
				{0, -1, 2, 0},
				{0, 2, -1, 0},
				{0, 0, 0, 1},
			}),
		},
		// The 2-cycle is the same single bond, not a doubled one.
		{
			g: Cycle(2),
			hamiltonian: mat.M([][]complex64{
				{1, 0, 0, 0},
				{0, -1, 2, 0},
				{0, 2, -1, 0},
				{0, 0, 0, 1},
			}),
		},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%#v", test.g), func(t *testing.T) {
			t.Parallel()
			hamiltonian, buf := mat.COOZeros(1, 1), mat.COOZeros(1, 1)
			if err := Heisenberg(hamiltonian, buf, test.g); err != nil {
				t.Fatalf("%+v", err)
			}
			if !hamiltonian.Equal(test.hamiltonian) {
				t.Fatalf("%s, expected %s", hamiltonian, test.hamiltonian)
			}
		})
	}
}

func TestCycle(t *testing.T) {
	t.Parallel()
	tests := []struct {
		n     int
		edges [][2]int
	}{
		{n: 2, edges: [][2]int{{0, 1}}},
		{n: 3, edges: [][2]int{{0, 1}, {1, 2}, {2, 0}}},
		{n: 4, edges: [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%d", test.n), func(t *testing.T) {
			t.Parallel()
			g := Cycle(test.n)
			if g.Nodes != test.n || !reflect.DeepEqual(g.Edges, test.edges) {
				t.Fatalf("%#v, expected %v", g, test.edges)
			}
		})
	}
}

func TestHeisenbergHermitian(t *testing.T) {
	t.Parallel()
	tests := []struct {
		g Graph
	}{
		{g: Cycle(3)},
		{g: Cycle(4)},
		{g: Graph{Nodes: 3, Edges: [][2]int{{0, 2}}}},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%#v", test.g), func(t *testing.T) {
			t.Parallel()
			hamiltonian, buf := mat.COOZeros(1, 1), mat.COOZeros(1, 1)
			if err := Heisenberg(hamiltonian, buf, test.g); err != nil {
				t.Fatalf("%+v", err)
			}

			dense := hamiltonian.Dense()
			for i, row := range dense {
				for j, v := range row {
					if imag(v) != 0 {
						t.Fatalf("%d %d %v", i, j, v)
					}
					if v != dense[j][i] {
						t.Fatalf("%d %d %v %v", i, j, v, dense[j][i])
					}
				}
			}
		})
	}
}

func TestHeisenbergBadGraph(t *testing.T) {
	t.Parallel()
	tests := []struct {
		g Graph
	}{
		{g: Graph{Nodes: 2, Edges: [][2]int{{0, 2}}}},
		{g: Graph{Nodes: 2, Edges: [][2]int{{-1, 1}}}},
		{g: Graph{Nodes: 3, Edges: [][2]int{{1, 1}}}},
		{g: Graph{Nodes: 1}},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%#v", test.g), func(t *testing.T) {
			t.Parallel()
			hamiltonian, buf := mat.COOZeros(1, 1), mat.COOZeros(1, 1)
			if err := Heisenberg(hamiltonian, buf, test.g); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestDistribution(t *testing.T) {
	t.Parallel()
	tests := []struct {
		latent []float64
	}{
		{latent: []float64{0, 0.5, -0.5}},
		{latent: []float64{-1000, 1000, 37, -37}},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%v", test.latent), func(t *testing.T) {
			t.Parallel()
			dist := Distribution(test.latent)
			for q, marginal := range dist {
				sum := marginal[0] + marginal[1]
				if math.Abs(sum-1) > 1e-12 {
					t.Fatalf("%d %v %f", q, marginal, sum)
				}
				for _, p := range marginal {
					if math.IsNaN(p) || p < 0 || p > 1 {
						t.Fatalf("%d %v", q, marginal)
					}
				}
			}
		})
	}
}

func TestEntropy(t *testing.T) {
	t.Parallel()
	tests := []struct {
		dist [][2]float64
		s    float64
	}{
		// Deterministic marginals carry no entropy, and must not produce NaN.
		{dist: [][2]float64{{0, 1}, {1, 0}, {0, 1}}, s: 0},
		// Uniform marginals maximize the entropy at n*log(2).
		{dist: [][2]float64{{0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5}}, s: 4 * math.Ln2},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%v", test.dist), func(t *testing.T) {
			t.Parallel()
			s := Entropy(test.dist)
			if math.Abs(s-test.s) > 1e-12 {
				t.Fatalf("%f, expected %f", s, test.s)
			}
		})
	}
}

func TestParametersRoundTrip(t *testing.T) {
	t.Parallel()
	const n, depth = 3, 2
	p := NewParameters(n, depth)
	v := 0.0
	fill := func(x []float64) {
		for i := range x {
			v++
			x[i] = v
		}
	}
	fill(p.Latent)
	for l := 0; l < depth; l++ {
		fill(p.Ansatz.Coupling[l])
		for axis := range 3 {
			fill(p.Ansatz.Rotation[l][axis])
		}
	}

	x := p.Flatten()
	if len(x) != n*(1+4*depth) {
		t.Fatalf("%d %d", len(x), n*(1+4*depth))
	}
	q, err := UnflattenParameters(x, n, depth)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if !reflect.DeepEqual(p, q) {
		t.Fatalf("%#v, expected %#v", q, p)
	}
}

func TestUnflattenBadLength(t *testing.T) {
	t.Parallel()
	if _, err := UnflattenParameters(make([]float64, 10), 3, 2); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCostDeterministicLatent(t *testing.T) {
	t.Parallel()
	// A saturated latent distribution concentrates all mass on one basis
	// state, and an identity circuit leaves it there: the cost is then
	// beta times the diagonal hamiltonian entry, with zero entropy.
	g := Graph{Nodes: 2, Edges: [][2]int{{0, 1}}}
	hamiltonian, buf := mat.COOZeros(1, 1), mat.COOZeros(1, 1)
	if err := Heisenberg(hamiltonian, buf, g); err != nil {
		t.Fatalf("%+v", err)
	}

	p := NewParameters(2, 1)
	p.Latent[0], p.Latent[1] = 40, 40

	const beta = 2.0
	sim := circuit.NewSimulator(2)
	cost := Cost(sim, hamiltonian, p, beta)
	// H[0][0] = 1 from the ZZ term.
	if math.Abs(cost-beta*1) > 1e-5 {
		t.Fatalf("%f", cost)
	}
}

func TestCostEnumerationOrder(t *testing.T) {
	t.Parallel()
	// The basis-state sum is commutative: accumulating the terms in
	// reverse order must agree with Cost up to rounding.
	g := Graph{Nodes: 2, Edges: [][2]int{{0, 1}}}
	hamiltonian, buf := mat.COOZeros(1, 1), mat.COOZeros(1, 1)
	if err := Heisenberg(hamiltonian, buf, g); err != nil {
		t.Fatalf("%+v", err)
	}

	const n, depth = 2, 2
	p := NewParameters(n, depth)
	angle := 0.1
	for l := 0; l < depth; l++ {
		for axis := range 3 {
			for q := 0; q < n; q++ {
				angle += 0.2
				p.Ansatz.Rotation[l][axis][q] = angle
			}
		}
		for q := 0; q < n; q++ {
			angle += 0.2
			p.Ansatz.Coupling[l][q] = angle
		}
	}
	p.Latent[0], p.Latent[1] = 0.3, -0.8

	const beta = 1.5
	sim := circuit.NewSimulator(n)
	cost := Cost(sim, hamiltonian, p, beta)

	dist := Distribution(p.Latent)
	var energy float64
	for s := 1<<n - 1; s >= 0; s-- {
		state := make([]byte, n)
		prob := 1.0
		for q := 0; q < n; q++ {
			state[q] = byte((s >> (n - 1 - q)) & 1)
			prob *= dist[q][state[q]]
		}
		sim.Run(state, p.Ansatz)
		energy += prob * sim.Expectation(hamiltonian)
	}
	reversed := beta*energy - Entropy(dist)

	if math.Abs(cost-reversed) > 1e-9 {
		t.Fatalf("%f, expected %f", cost, reversed)
	}
}

func TestMain(m *testing.M) {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	m.Run()
}
