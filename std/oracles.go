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

package std

import (
	"log"

	"github.com/xtaci/spnattack/oracle"
)

// oracleMethod maps an oracle name to its constructor.
type oracleMethod struct {
	rounds int // AES rounds, 0 for the random permutation
	build  func(key oracle.Block128, rounds int) (oracle.Oracle, error)
}

func buildAES(key oracle.Block128, rounds int) (oracle.Oracle, error) {
	return oracle.NewAES(key, rounds)
}

func buildRandom(oracle.Block128, int) (oracle.Oracle, error) {
	return oracle.NewRandom(nil), nil
}

// oracleMethods is a lookup table for the supported distinguisher targets.
var oracleMethods = map[string]oracleMethod{
	"aes-1":  {1, buildAES},
	"aes-2":  {2, buildAES},
	"aes-3":  {3, buildAES},
	"aes-4":  {4, buildAES},
	"aes-5":  {5, buildAES},
	"aes":    {oracle.MaxRounds, buildAES},
	"random": {0, buildRandom},
}

// SelectOracle translates a human readable oracle name into the concrete
// oracle keyed from pass. It also reports the effective name after applying
// fallbacks so callers can log the final choice.
func SelectOracle(method string, pass string) (oracle.Oracle, string) {
	return SelectOracleWithKey(method, oracle.Block128(DeriveKey128(pass)))
}

// SelectOracleWithKey is SelectOracle for an explicit AES-128 key.
func SelectOracleWithKey(method string, key oracle.Block128) (oracle.Oracle, string) {
	if m, ok := oracleMethods[method]; ok {
		o, err := m.build(key, m.rounds)
		if err == nil {
			return o, method
		}
		log.Printf("oracle: failed to create %s: %v, falling back to aes-3", method, err)
	}
	// Default to the three-round target for unknown methods
	o, err := oracle.NewAES(key, 3)
	if err != nil {
		log.Printf("oracle: failed to create default aes-3: %v", err)
	}
	return o, "aes-3"
}
