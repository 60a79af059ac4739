// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinselect

import (
	"math/rand"
	"sort"
)

// DefaultBnBTries is the number of search nodes the Branch-and-Bound selector
// may visit before it gives up.
const DefaultBnBTries = 1_000_000

// bnbOutcome is the verdict reached when the search enters a node.
type bnbOutcome uint8

const (
	// bnbExpand means the node is inside the bounds and has children.
	bnbExpand bnbOutcome = iota

	// bnbMatch means the accumulated effective value is inside the
	// acceptance window.
	bnbMatch

	// bnbPrune means the node overshoots the window or has no candidate
	// left to branch on.
	bnbPrune

	// bnbExhausted means the tries budget ran out.
	bnbExhausted
)

// bnbCandidate is an output group paired with its position in the caller's
// slice and its precomputed effective value.
type bnbCandidate struct {
	index          int
	effectiveValue uint64
}

// bnbFrame is one node of the explicit depth-first search stack.
type bnbFrame struct {
	// depth is the position in the sorted candidates this node decides.
	depth int

	// accValue is the accumulated effective value before the decision.
	accValue uint64

	// includeFirst is the coin flip choosing the branch order.
	includeFirst bool

	// explored is the number of children already visited.
	explored uint8

	// pushed is set while this node's candidate sits on the selection.
	pushed bool
}

// bnbSearch carries the state of one Branch-and-Bound run.
type bnbSearch struct {
	candidates []bnbCandidate

	// targetForMatch and upperBound delimit the acceptance window.
	targetForMatch uint64
	upperBound     uint64

	tries int
	rng   *rand.Rand

	// selected holds the caller indices of the included candidates along
	// the current path.
	selected []int
}

// enter applies the termination rules to a node with the given accumulated
// effective value at the given depth.
func (s *bnbSearch) enter(accValue uint64, depth int) bnbOutcome {
	switch {
	case accValue > s.upperBound:
		return bnbPrune

	case accValue >= s.targetForMatch:
		return bnbMatch
	}

	s.tries--
	if s.tries <= 0 {
		return bnbExhausted
	}

	if depth >= len(s.candidates) {
		return bnbPrune
	}

	return bnbExpand
}

// run performs the depth-first search and reports whether a match was found.
// On success s.selected holds the match.
func (s *bnbSearch) run() bool {
	switch s.enter(0, 0) {
	case bnbMatch:
		return true

	case bnbPrune, bnbExhausted:
		return false
	}

	stack := make([]bnbFrame, 0, len(s.candidates)+1)
	stack = append(stack, bnbFrame{includeFirst: s.rng.Intn(2) == 0})

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		// Any speculative push from the previous branch is undone
		// before the alternate branch runs or the node is left.
		if top.pushed {
			s.selected = s.selected[:len(s.selected)-1]
			top.pushed = false
		}

		if top.explored == 2 {
			stack = stack[:len(stack)-1]
			continue
		}

		include := top.includeFirst == (top.explored == 0)
		top.explored++

		childDepth := top.depth + 1
		childValue := top.accValue
		if include {
			c := s.candidates[top.depth]
			childValue = addSat(childValue, c.effectiveValue)
			s.selected = append(s.selected, c.index)
			top.pushed = true
		}

		switch s.enter(childValue, childDepth) {
		case bnbMatch:
			return true

		case bnbExhausted:
			log.Debugf("BnB tries budget exhausted at depth %d",
				childDepth)

			return false

		case bnbExpand:
			stack = append(stack, bnbFrame{
				depth:        childDepth,
				accValue:     childValue,
				includeFirst: s.rng.Intn(2) == 0,
			})
		}
	}

	return false
}

// SelectBnB performs coin selection via Branch and Bound. It looks for a
// subset whose accumulated effective value lands inside
// [target, target+CostPerInput+CostPerOutput], where target is TargetValue
// plus the base weight fee plus CostPerOutput, so that no change output is
// needed.
//
// Candidates are explored largest value first, and the include/exclude order
// of every node is a coin flip drawn from rng. A nil rng makes the call use a
// private generator. The first match found is returned; when the search space
// or the tries budget runs out ErrNoSolutionFound is returned. Two calls with
// the same input may therefore explore different paths.
func SelectBnB(inputs []OutputGroup, opts Options, rng *rand.Rand) (*Selection,
	error) {

	return selectBnB(inputs, opts, rng, DefaultBnBTries)
}

// selectBnB is SelectBnB with a configurable tries budget.
func selectBnB(inputs []OutputGroup, opts Options, rng *rand.Rand,
	tries int) (*Selection, error) {

	model, err := validatedCostModel(opts)
	if err != nil {
		return nil, err
	}

	if rng == nil {
		rng = newRand()
	}

	candidates := make([]bnbCandidate, len(inputs))
	for i := range inputs {
		candidates[i] = bnbCandidate{
			index:          i,
			effectiveValue: model.effectiveValue(inputs[i]),
		}
	}

	// Largest raw value first, ties keep the caller's order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return inputs[candidates[i].index].Value >
			inputs[candidates[j].index].Value
	})

	targetForMatch := addSat(
		addSat(opts.TargetValue, model.fee(opts.BaseWeight)),
		opts.CostPerOutput,
	)
	matchRange := addSat(opts.CostPerInput, opts.CostPerOutput)

	search := &bnbSearch{
		candidates:     candidates,
		targetForMatch: targetForMatch,
		upperBound:     addSat(targetForMatch, matchRange),
		tries:          tries,
		rng:            rng,
		selected:       make([]int, 0, len(inputs)),
	}

	if !search.run() {
		log.Debugf("BnB found no match for target %d (window %d-%d) "+
			"over %d candidates", opts.TargetValue, targetForMatch,
			search.upperBound, len(inputs))

		return nil, ErrNoSolutionFound
	}

	var accValue, accWeight uint64
	for _, idx := range search.selected {
		accValue = addSat(accValue, inputs[idx].Value)
		accWeight = addSat(accWeight, inputs[idx].Weight)
	}

	fee := max(
		model.fee(addSat(opts.BaseWeight, accWeight)),
		opts.MinAbsoluteFee,
	)

	selected := make([]int, len(search.selected))
	copy(selected, search.selected)

	log.Debugf("BnB selected %d inputs with %d tries left",
		len(selected), search.tries)

	return &Selection{
		SelectedInputs: selected,
		Waste: model.waste(
			opts, len(selected), accValue, accWeight, fee,
		),
		Fee: fee,
	}, nil
}
