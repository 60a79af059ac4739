// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/coinselect/coinselect"
	"github.com/btcsuite/coinselect/pkg/btcunit"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run loads the config and the candidates, performs the selection and prints
// the result.
func run(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	if cfg.LogDir != "" {
		if err := initLogRotator(cfg.LogDir); err != nil {
			return err
		}
		defer closeLogRotator()
	}
	setLogLevels(cfg.DebugLevel)

	inputs, err := readCandidates(cfg.Candidates)
	if err != nil {
		return err
	}

	opts, err := cfg.selectionOptions()
	if err != nil {
		return err
	}

	log.Infof("Selecting %v out of %d candidates using %s",
		btcutil.Amount(opts.TargetValue), len(inputs), cfg.Algorithm)

	selection, err := selectInputs(cfg, inputs, opts)
	if err != nil {
		return fmt.Errorf("selection failed: %w", err)
	}

	fmt.Print(formatSelection(inputs, opts, selection))

	return nil
}

// selectInputs runs the configured algorithm, or all of them when none was
// named.
func selectInputs(cfg *config, inputs []coinselect.OutputGroup,
	opts coinselect.Options) (*coinselect.Selection, error) {

	rng := cfg.newRand()

	if cfg.Algorithm == defaultAlgorithm {
		return coinselect.SelectCoin(inputs, opts, rng)
	}

	algo, err := coinselect.ParseAlgorithm(cfg.Algorithm)
	if err != nil {
		return nil, err
	}

	return coinselect.Select(algo, inputs, opts, rng)
}

// formatSelection renders the selected candidates along with their totals.
func formatSelection(inputs []coinselect.OutputGroup, opts coinselect.Options,
	selection *coinselect.Selection) string {

	var (
		out           string
		value, weight uint64
		numInputs     int
	)
	for _, idx := range selection.SelectedInputs {
		group := inputs[idx]
		value += group.Value
		weight += group.Weight
		numInputs += group.InputCount

		out += fmt.Sprintf("input %d: %v, %d wu\n", idx,
			btcutil.Amount(group.Value), group.Weight)
	}

	out += fmt.Sprintf("selected %d groups (%d inputs)\n",
		len(selection.SelectedInputs), numInputs)
	txWeight := btcunit.NewWeightUnit(opts.BaseWeight + weight)
	out += fmt.Sprintf("total value: %v\n", btcutil.Amount(value))
	out += fmt.Sprintf("tx size: %v (%v)\n", txWeight, txWeight.ToVB())
	out += fmt.Sprintf("fee: %v\n", btcutil.Amount(selection.Fee))
	out += fmt.Sprintf("waste: %d\n", selection.Waste)

	return out
}
