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

package main

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/xtaci/spnattack/spn"
	"github.com/xtaci/spnattack/std"
)

// Config for attack
type Config struct {
	Mode        string `json:"mode"`
	Keys        string `json:"keys"`
	Passphrase  string `json:"passphrase"`
	Diff        string `json:"diff"`
	Rounds      int    `json:"rounds"`
	Pairs       int    `json:"pairs"`
	HoldOut     int    `json:"holdout"`
	Workers     int    `json:"workers"`
	Seed        int64  `json:"seed"`
	Top         int    `json:"top"`
	Timeout     int    `json:"timeout"`
	Votes       string `json:"votes"`
	StatsLog    string `json:"statslog"`
	StatsPeriod int    `json:"statsperiod"`
	Log         string `json:"log"`
	Quiet       bool   `json:"quiet"`
}

func parseJSONConfig(config *Config, path string) error {
	file, err := os.Open(path) // For read access.
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(config)
}

// schedule resolves the secret round keys. A passphrase takes precedence over
// an explicit key list.
func (config *Config) schedule() (spn.Schedule, error) {
	if config.Passphrase != "" {
		return std.DeriveSchedule(config.Passphrase), nil
	}
	ks, err := std.ParseSchedule(config.Keys)
	if err != nil {
		return ks, errors.Wrap(err, "keys")
	}
	return ks, nil
}

// inputDiff returns the chosen input difference, or zero when the best
// ranked trail should be used.
func (config *Config) inputDiff() (spn.Block, error) {
	if config.Diff == "" || config.Diff == "best" {
		return 0, nil
	}
	d, err := std.ParseBlock(config.Diff)
	if err != nil {
		return 0, errors.Wrap(err, "diff")
	}
	if d == 0 {
		return 0, errors.Wrap(spn.ErrMalformedInput, "diff must be nonzero")
	}
	return d, nil
}
