// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinselect

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Algorithm names one of the selection algorithms.
type Algorithm uint8

const (
	// AlgoBnB is the Branch-and-Bound exact match search.
	AlgoBnB Algorithm = iota

	// AlgoFIFO spends the oldest groups first.
	AlgoFIFO

	// AlgoSRD is the Single Random Draw.
	AlgoSRD

	// AlgoLowestLarger prefers the largest groups below the target.
	AlgoLowestLarger

	// AlgoKnapsack is the randomized subset-sum approximation.
	AlgoKnapsack
)

// Algorithms returns every algorithm in the order SelectCoin runs them.
func Algorithms() []Algorithm {
	return []Algorithm{
		AlgoBnB, AlgoFIFO, AlgoSRD, AlgoLowestLarger, AlgoKnapsack,
	}
}

// String returns the name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case AlgoBnB:
		return "bnb"

	case AlgoFIFO:
		return "fifo"

	case AlgoSRD:
		return "srd"

	case AlgoLowestLarger:
		return "lowestlarger"

	case AlgoKnapsack:
		return "knapsack"

	default:
		return fmt.Sprintf("unknown(%d)", uint8(a))
	}
}

// ParseAlgorithm maps a case-insensitive algorithm name to its value.
func ParseAlgorithm(s string) (Algorithm, error) {
	for _, algo := range Algorithms() {
		if strings.EqualFold(s, algo.String()) {
			return algo, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// Select runs a single algorithm. The deterministic algorithms ignore rng.
func Select(algo Algorithm, inputs []OutputGroup, opts Options,
	rng *rand.Rand) (*Selection, error) {

	switch algo {
	case AlgoBnB:
		return SelectBnB(inputs, opts, rng)

	case AlgoFIFO:
		return SelectFIFO(inputs, opts)

	case AlgoSRD:
		return SelectSRD(inputs, opts, rng)

	case AlgoLowestLarger:
		return SelectLowestLarger(inputs, opts)

	case AlgoKnapsack:
		return SelectKnapsack(inputs, opts, rng)

	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownAlgorithm, algo)
	}
}

// SelectCoin runs every algorithm against the same output groups and options
// and returns the selection with the lowest waste. Ties go to the algorithm
// that ran first, in the order of Algorithms.
//
// When every algorithm fails, ErrInsufficientFunds is returned if any of them
// reported it, otherwise ErrNoSolutionFound. Invalid options are reported
// before any algorithm runs. A nil rng makes the call use a private
// generator shared by the randomized algorithms of this call only.
func SelectCoin(inputs []OutputGroup, opts Options, rng *rand.Rand) (
	*Selection, error) {

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	if rng == nil {
		rng = newRand()
	}

	var (
		best         *Selection
		bestAlgo     Algorithm
		insufficient bool
	)
	for _, algo := range Algorithms() {
		selection, err := Select(algo, inputs, opts, rng)
		switch {
		case errors.Is(err, ErrInsufficientFunds):
			insufficient = true
			continue

		case errors.Is(err, ErrNoSolutionFound):
			continue

		case err != nil:
			return nil, fmt.Errorf("%v: %w", algo, err)
		}

		log.Tracef("Algorithm %v selected %d inputs with waste %d",
			algo, len(selection.SelectedInputs), selection.Waste)

		if best == nil || selection.Waste < best.Waste {
			best = selection
			bestAlgo = algo
		}
	}

	if best == nil {
		if insufficient {
			return nil, ErrInsufficientFunds
		}

		return nil, ErrNoSolutionFound
	}

	log.Debugf("Selected %d inputs using %v with waste %d",
		len(best.SelectedInputs), bestAlgo, best.Waste)

	return best, nil
}

// newRand returns a generator private to one selection call.
func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
