// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package recovery implements the chosen-plaintext attack on the last round
// key: pair generation, output-mask filtering, partial key voting and
// brute-force completion against held-out pairs.
package recovery

import (
	"context"
	"math"
	"math/rand"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/xtaci/spnattack/spn"
	"github.com/xtaci/spnattack/std"
	"github.com/xtaci/spnattack/trail"
)

// DefaultHoldOut is the number of filtered pairs used to validate a key.
const DefaultHoldOut = 2

// Config describes one attack run.
type Config struct {
	Cipher  *spn.Cipher // cipher used to re-encrypt during completion
	DDT     *spn.DDT
	Oracle  Oracle      // encrypts under the secret schedule
	Known   KnownKeys   // every round key but the last
	Trail   trail.Trail // characteristic over spn.Rounds rounds
	Pairs   int         // plaintexts to draw
	HoldOut int         // filtered pairs used for validation
	Workers int
	Rand    *rand.Rand

	// Plaintexts, when set, replaces random sampling.
	Plaintexts []spn.Block
}

// VerifyConfig checks a Config before any oracle query is made.
func VerifyConfig(cfg *Config) error {
	if cfg.Cipher == nil {
		return errors.New("cipher is required")
	}
	if cfg.DDT == nil {
		return errors.New("ddt is required")
	}
	if cfg.Oracle == nil {
		return errors.New("oracle is required")
	}
	if len(cfg.Trail.Diffs) == 0 || cfg.Trail.Start() == 0 {
		return errors.Wrap(spn.ErrMalformedInput, "trail has no input difference")
	}
	if cfg.Trail.Rounds() != spn.Rounds {
		return errors.Wrapf(spn.ErrMalformedInput, "trail covers %d rounds, want %d", cfg.Trail.Rounds(), spn.Rounds)
	}
	if cfg.Trail.Final() == 0 {
		return errors.Wrap(spn.ErrMalformedInput, "trail has no output difference")
	}
	if len(cfg.Plaintexts) == 0 {
		if cfg.Pairs < 1 || cfg.Pairs > spn.BlockSpace {
			return errors.Wrapf(spn.ErrMalformedInput, "pair count %d outside [1,%d]", cfg.Pairs, spn.BlockSpace)
		}
		if cfg.Rand == nil {
			return errors.New("rand is required to sample plaintexts")
		}
	}
	if cfg.HoldOut < 1 {
		return errors.Errorf("holdout %d must be positive", cfg.HoldOut)
	}
	return nil
}

// SuggestedPairs returns the pair count that makes one right pair expected
// for a trail holding with probability p.
func SuggestedPairs(p float64) int {
	if p <= 0 {
		return spn.BlockSpace
	}
	n := int(math.Ceil(1 / p))
	if n > spn.BlockSpace {
		n = spn.BlockSpace
	}
	return n
}

// Result is the outcome of a successful run.
type Result struct {
	Key        spn.Block // recovered last round key
	Generated  int       // pairs queried
	Filtered   []Pair    // pairs surviving the output mask
	Expected   []spn.Block
	Partial    *Partial
	Completion *Completion
}

// Run generates pairs through cfg.Oracle, filters them against the trail's
// output mask, votes for the active nibbles of the last round key and
// completes the rest against the first cfg.HoldOut filtered pairs.
func Run(ctx context.Context, cfg *Config) (*Result, error) {
	if err := VerifyConfig(cfg); err != nil {
		return nil, err
	}
	atomic.AddUint64(&std.DefaultStats.AttacksRun, 1)

	var pairs []Pair
	var err error
	if len(cfg.Plaintexts) > 0 {
		pairs, err = EncryptPairs(cfg.Oracle, cfg.Trail.Start(), cfg.Plaintexts)
	} else {
		pairs, err = GeneratePairs(cfg.Oracle, cfg.Trail.Start(), cfg.Pairs, cfg.Rand)
	}
	if err != nil {
		return nil, err
	}

	mask := cfg.Trail.OutputMask()
	filtered := Filter(pairs, mask)
	if len(filtered) == 0 {
		return nil, errors.Wrapf(ErrNoMatchingPairs, "%d pairs against mask %v", len(pairs), mask)
	}

	expected := ExpectedDifferences(cfg.DDT, cfg.Trail.Final())
	partial, err := Vote(ctx, cfg.Cipher.SBox(), filtered, expected, mask, cfg.Workers)
	if err != nil {
		return nil, err
	}

	holdout := filtered
	if len(holdout) > cfg.HoldOut {
		holdout = holdout[:cfg.HoldOut]
	}
	completion, err := Complete(ctx, cfg.Cipher, cfg.Known, partial, holdout, cfg.Workers)
	if err != nil {
		return nil, err
	}
	atomic.AddUint64(&std.DefaultStats.AttacksRecovered, 1)

	return &Result{
		Key:        completion.Key,
		Generated:  len(pairs),
		Filtered:   filtered,
		Expected:   expected,
		Partial:    partial,
		Completion: completion,
	}, nil
}
