// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package coinselect

import (
	"math/rand"
	"sort"
)

// knapsackIterations is the number of randomized rounds the subset
// approximation runs before settling on its best candidate.
const knapsackIterations = 1000

// knapsackCoin is a candidate paired with its caller index and effective
// value.
type knapsackCoin struct {
	index int
	value uint64
}

// SelectKnapsack performs coin selection via a randomized knapsack
// approximation over effective values. The adjusted target is
// TargetValue + MinDrainValue + max(base weight fee, MinAbsoluteFee).
//
// A group whose effective value equals the adjusted target is picked alone.
// Otherwise the groups below the target are combined by knapsack, and the
// smallest group above the target is kept as a fallback: it is used when the
// smaller groups cannot cover the target, or when it is no worse than the best
// combination found. ErrInsufficientFunds is returned when neither works.
//
// A nil rng makes the call use a private generator.
func SelectKnapsack(inputs []OutputGroup, opts Options,
	rng *rand.Rand) (*Selection, error) {

	model, err := validatedCostModel(opts)
	if err != nil {
		return nil, err
	}

	if rng == nil {
		rng = newRand()
	}

	adjustedTarget := addSat(
		addSat(opts.TargetValue, opts.MinDrainValue),
		max(model.fee(opts.BaseWeight), opts.MinAbsoluteFee),
	)

	var (
		smaller       []knapsackCoin
		totalLower    uint64
		lowestLarger  = -1
		lowestLargerV uint64
	)
	for i := range inputs {
		value := model.effectiveValue(inputs[i])

		switch {
		// Groups that cannot pay for themselves only add weight.
		case value == 0:
			continue

		case value == adjustedTarget:
			log.Debugf("Knapsack found exact single input %d", i)

			return knapsackSelection(
				model, opts, inputs, []int{i},
			), nil

		case value < adjustedTarget:
			smaller = append(smaller, knapsackCoin{
				index: i, value: value,
			})
			totalLower = addSat(totalLower, value)

		case lowestLarger == -1 || value < lowestLargerV:
			lowestLarger = i
			lowestLargerV = value
		}
	}

	if len(smaller) > 0 && totalLower == adjustedTarget {
		selected := make([]int, len(smaller))
		for i, coin := range smaller {
			selected[i] = coin.index
		}

		return knapsackSelection(model, opts, inputs, selected), nil
	}

	if len(smaller) == 0 || totalLower < adjustedTarget {
		if lowestLarger == -1 {
			return nil, ErrInsufficientFunds
		}

		return knapsackSelection(
			model, opts, inputs, []int{lowestLarger},
		), nil
	}

	sort.SliceStable(smaller, func(i, j int) bool {
		return smaller[i].value > smaller[j].value
	})

	selected, bestValue := knapsack(adjustedTarget, smaller, rng)

	if lowestLarger != -1 && bestValue != adjustedTarget &&
		lowestLargerV <= bestValue {

		log.Debugf("Knapsack prefers single larger input %d over "+
			"%d smaller inputs", lowestLarger, len(selected))

		selected = []int{lowestLarger}
	}

	return knapsackSelection(model, opts, inputs, selected), nil
}

// knapsack approximates the subset of smallerCoins whose sum is the closest to
// adjustedTarget without going under it. smallerCoins must be sorted by
// descending value, every value must be below adjustedTarget and their sum must
// reach it. Each round includes coins at random on a first pass and fills in
// the rest on a second pass, backing out the last coin whenever the target is
// reached so smaller completions get a chance. It returns the chosen caller
// indices and their sum.
func knapsack(adjustedTarget uint64, smallerCoins []knapsackCoin,
	rng *rand.Rand) ([]int, uint64) {

	best := make([]bool, len(smallerCoins))
	var bestValue uint64
	for i := range smallerCoins {
		best[i] = true
		bestValue = addSat(bestValue, smallerCoins[i].value)
	}

	included := make([]bool, len(smallerCoins))
	for round := 0; round < knapsackIterations &&
		bestValue != adjustedTarget; round++ {

		clear(included)

		var (
			total   uint64
			reached bool
		)
		for pass := 0; pass < 2 && !reached; pass++ {
			for i, coin := range smallerCoins {
				var take bool
				if pass == 0 {
					take = rng.Intn(2) == 0
				} else {
					take = !included[i]
				}

				if !take {
					continue
				}

				total = addSat(total, coin.value)
				included[i] = true

				if total < adjustedTarget {
					continue
				}

				reached = true
				if total < bestValue {
					bestValue = total
					copy(best, included)
				}

				total -= coin.value
				included[i] = false
			}
		}
	}

	selected := make([]int, 0, len(smallerCoins))
	for i, ok := range best {
		if ok {
			selected = append(selected, smallerCoins[i].index)
		}
	}

	return selected, bestValue
}

// knapsackSelection scores a knapsack result. The fee covers the base weight
// and the selected inputs.
func knapsackSelection(model *costModel, opts Options, inputs []OutputGroup,
	selected []int) *Selection {

	var accValue, accWeight uint64
	for _, idx := range selected {
		accValue = addSat(accValue, inputs[idx].Value)
		accWeight = addSat(accWeight, inputs[idx].Weight)
	}

	fee := max(
		model.fee(addSat(opts.BaseWeight, accWeight)),
		opts.MinAbsoluteFee,
	)

	return &Selection{
		SelectedInputs: selected,
		Waste: model.waste(
			opts, len(selected), accValue, accWeight, fee,
		),
		Fee: fee,
	}
}
