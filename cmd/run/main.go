// Command run thermalizes Heisenberg cycle graphs over a sweep of inverse
// temperatures, and reports the trace distance between each optimized state
// and the exact Gibbs state.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/errors"

	vqt "github.com/samay-kothari/VQT"
	"github.com/samay-kothari/VQT/circuit"
	"github.com/samay-kothari/VQT/mat"
	"github.com/samay-kothari/VQT/trace"
	"github.com/samay-kothari/VQT/util"
)

const (
	fnameDone       = "done.txt"
	fnameStatistics = "statistics.txt"
	fnameTrace      = "trace.db"
)

var (
	runDir = flag.String("d", filepath.Join("runs", "vqt"), "run directory")
	qubits = flag.Int("n", 4, "number of qubits in the cycle graph")
	depth  = flag.Int("depth", 4, "ansatz depth")
	evals  = flag.Int("evals", 60000, "cost evaluation budget")
	seed   = flag.Uint64("seed", 0, "initial parameter seed")
)

type Statistics struct {
	Qubits        int
	Depth         int
	Beta          float64
	Cost          float64
	ExactCost     float64
	Evaluations   int
	Status        string
	TraceDistance float64
}

func solve(dir string, n, depth int, beta float64) error {
	donePath := filepath.Join(dir, fnameDone)
	if _, err := os.Stat(donePath); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return errors.Wrap(err, "")
	}

	g := vqt.Cycle(n)
	hamiltonian, buf := mat.COOZeros(1, 1), mat.COOZeros(1, 1)
	if err := vqt.Heisenberg(hamiltonian, buf, g); err != nil {
		return errors.Wrap(err, "")
	}
	if err := hamiltonian.WriteCOO(dir); err != nil {
		return errors.Wrap(err, "")
	}

	store, err := trace.Open(filepath.Join(dir, fnameTrace))
	if err != nil {
		return errors.Wrap(err, "")
	}
	defer store.Close()

	var storeErr error
	throttler := util.NewSkipThrottler(10 * time.Second)
	opt := vqt.NewThermalizeOptions().
		MaxEvaluations(*evals).
		Seed(*seed).
		Progress(50, func(evaluation int, cost float64) {
			if err := store.Append(evaluation, cost); err != nil && storeErr == nil {
				storeErr = err
			}
			if throttler.Ok() {
				log.Printf("beta %f evaluation %d cost %f", beta, evaluation, cost)
			}
		})
	res, err := vqt.Thermalize(hamiltonian, g, depth, beta, opt)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if storeErr != nil {
		return errors.Wrap(storeErr, "")
	}

	sim := circuit.NewSimulator(n)
	approx := vqt.Reconstruct(sim, res.Parameters)
	target := vqt.Gibbs(hamiltonian, beta)
	dist := vqt.TraceDistance(target, approx)

	stats := Statistics{
		Qubits:        n,
		Depth:         depth,
		Beta:          beta,
		Cost:          res.Cost,
		ExactCost:     vqt.FreeEnergy(hamiltonian, beta),
		Evaluations:   res.Evaluations,
		Status:        res.Status.String(),
		TraceDistance: dist,
	}
	b, err := json.Marshal(stats)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if err := os.WriteFile(filepath.Join(dir, fnameStatistics), b, 0644); err != nil {
		return errors.Wrap(err, "")
	}

	if err := os.WriteFile(donePath, nil, 0644); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

func gather(dir string) ([]Statistics, error) {
	stats := make([]Statistics, 0)
	nEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	for _, nent := range nEntries {
		ndir := filepath.Join(dir, nent.Name())
		betaEntries, err := os.ReadDir(ndir)
		if err != nil {
			return nil, errors.Wrap(err, fmt.Sprintf("%#v", nent))
		}
		for _, bent := range betaEntries {
			sb, err := os.ReadFile(filepath.Join(ndir, bent.Name(), fnameStatistics))
			if err != nil {
				return nil, errors.Wrap(err, fmt.Sprintf("%#v %#v", nent, bent))
			}
			var s Statistics
			if err := json.Unmarshal(sb, &s); err != nil {
				return nil, errors.Wrap(err, fmt.Sprintf("%#v %#v", nent, bent))
			}
			stats = append(stats, s)
		}
	}
	return stats, nil
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	if err := mainWithErr(); err != nil {
		log.Fatalf("%+v", err)
	}
}

func mainWithErr() error {
	if err := os.MkdirAll(*runDir, os.ModePerm); err != nil {
		return errors.Wrap(err, "")
	}

	betas := []float64{0.5, 1, 2, 4}
	for _, beta := range betas {
		nstr := fmt.Sprintf("%dx%d", *qubits, *depth)
		bstr := strconv.FormatFloat(beta, 'f', -1, 64)
		dir := filepath.Join(*runDir, nstr, bstr)

		if err := solve(dir, *qubits, *depth, beta); err != nil {
			return errors.Wrap(err, fmt.Sprintf("%d %f", *qubits, beta))
		}
		log.Printf("%d %f done", *qubits, beta)
	}

	stats, err := gather(*runDir)
	if err != nil {
		return errors.Wrap(err, "")
	}
	fmt.Printf("n,depth,beta,cost,exact,evals,status,dist\n")
	for _, s := range stats {
		fmt.Printf("%d,%d,%f,%f,%f,%d,%s,%f\n", s.Qubits, s.Depth, s.Beta, s.Cost, s.ExactCost, s.Evaluations, s.Status, s.TraceDistance)
	}
	return nil
}
