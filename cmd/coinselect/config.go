package main

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcwallet/wallet/txrules"
	"github.com/btcsuite/btcwallet/wallet/txsizes"
	"github.com/btcsuite/coinselect/coinselect"
	"github.com/btcsuite/coinselect/pkg/btcunit"
	"github.com/jessevdk/go-flags"
	"github.com/lightningnetwork/lnd/fn/v2"
)

const (
	defaultLogLevel       = "info"
	defaultAlgorithm      = "all"
	defaultExcessStrategy = "todrain"
	defaultFeeRate        = 1.0

	// p2wpkhInputWeight is the weight of spending a P2WPKH output.
	p2wpkhInputWeight = txsizes.RedeemP2WPKHInputSize*
		blockchain.WitnessScaleFactor +
		txsizes.RedeemP2WPKHInputWitnessWeight

	// p2wpkhOutputWeight is the weight of a P2WPKH output.
	p2wpkhOutputWeight = txsizes.P2WPKHOutputSize *
		blockchain.WitnessScaleFactor
)

var (
	// errNoCandidates is returned when no candidates file was given.
	errNoCandidates = errors.New("a candidates file is required")

	// errNoTarget is returned when the target amount is not positive.
	errNoTarget = errors.New("the target amount must be positive")
)

// config defines the configuration options for coinselect.
//
// See loadConfig for further details regarding the configuration loading and
// parsing process.
type config struct {
	Candidates string `short:"f" long:"candidates" description:"Path to a JSON file holding the candidate output groups"`
	Target     int64  `short:"t" long:"target" description:"Amount to pay in satoshis"`
	Algorithm  string `short:"a" long:"algo" description:"Selection algorithm to run" choice:"all" choice:"bnb" choice:"fifo" choice:"srd" choice:"lowestlarger" choice:"knapsack"`

	FeeRate         float64  `long:"feerate" description:"Target fee rate in sat/vb"`
	LongTermFeeRate *float64 `long:"longtermfeerate" description:"Expected future fee rate in sat/vb, enables the long-term waste term"`
	MinAbsoluteFee  int64    `long:"minfee" description:"Minimum absolute fee in satoshis"`

	BaseWeight    uint64 `long:"baseweight" description:"Weight of the transaction before any input is added"`
	DrainWeight   uint64 `long:"drainweight" description:"Weight of the change output"`
	DrainCost     uint64 `long:"draincost" description:"Cost of creating and later spending the change output in satoshis, derived from the fee rates when zero"`
	CostPerInput  uint64 `long:"costperinput" description:"Estimated cost of spending an input in satoshis, derived from the fee rate when zero"`
	CostPerOutput uint64 `long:"costperoutput" description:"Estimated cost of creating an output in satoshis, derived from the fee rate when zero"`
	MinDrainValue uint64 `long:"mindrain" description:"Smallest change output worth creating in satoshis"`
	Excess        string `short:"x" long:"excess" description:"Where the excess goes" choice:"tofee" choice:"torecipient" choice:"todrain"`

	Seed       int64  `long:"seed" description:"Seed for the randomized algorithms, the clock is used when zero"`
	DebugLevel string `short:"d" long:"debuglevel" description:"Logging level {trace, debug, info, warn, error, critical}"`
	LogDir     string `long:"logdir" description:"Directory to write a rotated log file to"`
}

// defaultConfig returns a config populated with the default values.
func defaultConfig() config {
	return config{
		Algorithm:   defaultAlgorithm,
		FeeRate:     defaultFeeRate,
		BaseWeight:  p2wpkhBaseWeight(),
		DrainWeight: p2wpkhOutputWeight,
		MinDrainValue: uint64(txrules.GetDustThreshold(
			txsizes.P2WPKHPkScriptSize,
			txrules.DefaultRelayFeePerKb,
		)),
		Excess:     defaultExcessStrategy,
		DebugLevel: defaultLogLevel,
	}
}

// p2wpkhBaseWeight returns the weight of a transaction paying a single P2WPKH
// output before any input is added.
func p2wpkhBaseWeight() uint64 {
	payment := wire.NewTxOut(0, make([]byte, txsizes.P2WPKHPkScriptSize))
	vsize := txsizes.EstimateVirtualSize(
		0, 0, 0, 0, []*wire.TxOut{payment}, 0,
	)

	return uint64(vsize * blockchain.WitnessScaleFactor)
}

// loadConfig initializes and parses the config using command line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Override with the command line options
//  3. Validate the result
func loadConfig(args []string) (*config, error) {
	cfg := defaultConfig()

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			os.Exit(0)
		}

		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate checks the parsed options for consistency.
func (c *config) validate() error {
	if c.Candidates == "" {
		return errNoCandidates
	}

	if c.Target <= 0 {
		return errNoTarget
	}

	if c.MinAbsoluteFee < 0 {
		return fmt.Errorf("invalid minimum fee: %v",
			btcutil.Amount(c.MinAbsoluteFee))
	}

	if !validLogLevel(c.DebugLevel) {
		return fmt.Errorf("invalid debug level: %q", c.DebugLevel)
	}

	if _, err := c.selectionOptions(); err != nil {
		return err
	}

	return nil
}

// satPerWeight converts a sat/vb rate given on the command line into the
// sat/wu rate the selectors work with.
func satPerWeight(satPerVByte float64) (float64, error) {
	rate, err := btcunit.NewSatPerVByteFloat(satPerVByte)
	if err != nil {
		return 0, err
	}

	return rate.ToSatPerWeight().Float64(), nil
}

// selectionOptions builds the selector options described by the config.
func (c *config) selectionOptions() (coinselect.Options, error) {
	feeRate, err := satPerWeight(c.FeeRate)
	if err != nil {
		return coinselect.Options{}, fmt.Errorf("feerate: %w", err)
	}

	longTerm := fn.None[float64]()
	if c.LongTermFeeRate != nil {
		rate, err := satPerWeight(*c.LongTermFeeRate)
		if err != nil {
			return coinselect.Options{}, fmt.Errorf(
				"longtermfeerate: %w", err,
			)
		}

		longTerm = fn.Some(rate)
	}

	excess, err := coinselect.ParseExcessStrategy(c.Excess)
	if err != nil {
		return coinselect.Options{}, err
	}

	opts := coinselect.Options{
		TargetValue:     uint64(c.Target),
		TargetFeeRate:   feeRate,
		LongTermFeeRate: longTerm,
		MinAbsoluteFee:  uint64(c.MinAbsoluteFee),
		BaseWeight:      c.BaseWeight,
		DrainWeight:     c.DrainWeight,
		DrainCost:       c.DrainCost,
		CostPerInput:    c.CostPerInput,
		CostPerOutput:   c.CostPerOutput,
		MinDrainValue:   c.MinDrainValue,
		ExcessStrategy:  excess,
	}

	// Costs left at zero are priced as P2WPKH inputs and outputs. The
	// change output is paid now and spent later at the long-term rate.
	if opts.CostPerInput == 0 {
		opts.CostPerInput = coinselect.Fee(p2wpkhInputWeight, feeRate)
	}
	if opts.CostPerOutput == 0 {
		opts.CostPerOutput = coinselect.Fee(p2wpkhOutputWeight, feeRate)
	}
	if opts.DrainCost == 0 {
		opts.DrainCost = coinselect.Fee(c.DrainWeight, feeRate) +
			coinselect.Fee(
				p2wpkhInputWeight, longTerm.UnwrapOr(feeRate),
			)
	}

	return opts, opts.Validate()
}

// newRand returns the generator for the randomized algorithms.
func (c *config) newRand() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return rand.New(rand.NewSource(seed))
}
