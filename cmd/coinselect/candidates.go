package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/btcsuite/coinselect/coinselect"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// candidate is the JSON form of an output group.
type candidate struct {
	Value            uint64  `json:"value"`
	Weight           uint64  `json:"weight"`
	InputCount       int     `json:"input_count"`
	IsSegwit         bool    `json:"is_segwit"`
	CreationSequence *uint32 `json:"creation_sequence,omitempty"`
}

// outputGroup converts the candidate into the form the selectors expect. A
// missing input count stands for a single input.
func (c candidate) outputGroup() coinselect.OutputGroup {
	inputCount := c.InputCount
	if inputCount == 0 {
		inputCount = 1
	}

	return coinselect.OutputGroup{
		Value:            c.Value,
		Weight:           c.Weight,
		InputCount:       inputCount,
		IsSegwit:         c.IsSegwit,
		CreationSequence: fn.OptionFromPtr(c.CreationSequence),
	}
}

// readCandidates loads the output groups stored as a JSON array in the given
// file.
func readCandidates(path string) ([]coinselect.OutputGroup, error) {
	// #nosec G304 -- the path is provided by the operator.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read candidates: %w", err)
	}

	var candidates []candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, fmt.Errorf("unable to decode candidates %s: %w",
			path, err)
	}

	groups := make([]coinselect.OutputGroup, len(candidates))
	for i, c := range candidates {
		if c.InputCount < 0 {
			return nil, fmt.Errorf("candidate %d: negative input "+
				"count %d", i, c.InputCount)
		}

		groups[i] = c.outputGroup()
	}

	return groups, nil
}
