package vqt

import "math"

// Distribution maps unconstrained latent parameters to per qubit probabilities.
// Row q is [p(bit 0), p(bit 1)] with p(bit 0) = sigmoid(latent[q]).
func Distribution(latent []float64) [][2]float64 {
	dist := make([][2]float64, len(latent))
	for q, theta := range latent {
		p := sigmoid(theta)
		dist[q] = [2]float64{p, 1 - p}
	}
	return dist
}

// sigmoid is the logistic function, branched on sign so that
// large magnitude arguments never overflow the exponential.
func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// Entropy returns the von Neumann entropy of a factorized distribution,
// the sum of the binary entropies of the per qubit marginals.
func Entropy(dist [][2]float64) float64 {
	var s float64
	for _, marginal := range dist {
		for _, p := range marginal {
			// The p*log(p) limit at p=0 is 0, not NaN.
			if p > 0 {
				s -= p * math.Log(p)
			}
		}
	}
	return s
}
