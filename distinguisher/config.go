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
	"strings"

	"github.com/pkg/errors"

	"github.com/xtaci/spnattack/oracle"
	"github.com/xtaci/spnattack/std"
)

// Config for distinguisher
type Config struct {
	Oracles    string `json:"oracles"`
	Key        string `json:"key"`
	Passphrase string `json:"passphrase"`
	Base       string `json:"base"`
	Byte       int    `json:"byte"`
	Log        string `json:"log"`
	Quiet      bool   `json:"quiet"`
}

func parseJSONConfig(config *Config, path string) error {
	file, err := os.Open(path) // For read access.
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(config)
}

// oracleNames splits the comma separated oracle list, dropping blanks.
func (config *Config) oracleNames() []string {
	var names []string
	for _, s := range strings.Split(config.Oracles, ",") {
		if s = strings.TrimSpace(s); s != "" {
			names = append(names, s)
		}
	}
	return names
}

// aesKey resolves the AES-128 key. An explicit hex key takes precedence over
// the passphrase.
func (config *Config) aesKey() (oracle.Block128, error) {
	if config.Key != "" {
		key, err := oracle.ParseHex(config.Key)
		if err != nil {
			return key, errors.Wrap(err, "key")
		}
		return key, nil
	}
	return oracle.Block128(std.DeriveKey128(config.Passphrase)), nil
}
