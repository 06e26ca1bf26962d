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
	"log"
	"os"

	"github.com/urfave/cli"

	"github.com/xtaci/spnattack/oracle"
	"github.com/xtaci/spnattack/std"
)

// VERSION is populated via build flags when packaging official binaries.
var VERSION = "SELFBUILD"

func main() {
	if VERSION == "SELFBUILD" {
		// Enable timestamps + file:line to simplify debugging self-built binaries.
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "distinguisher"
	myApp.Usage = "integral distinguisher for reduced-round AES"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "oracles,o",
			Value: "aes-3,aes-4,random",
			Usage: "comma separated targets: aes-1 .. aes-5, aes, random",
		},
		cli.StringFlag{
			Name:  "key,k",
			Value: "",
			Usage: "AES-128 key as 32 hex digits, overrides --passphrase",
		},
		cli.StringFlag{
			Name:   "passphrase",
			Value:  "it's a secret",
			Usage:  "passphrase the AES key is derived from",
			EnvVar: "SPNATTACK_KEY",
		},
		cli.StringFlag{
			Name:  "base,b",
			Value: "0123456789abcdef0123456789abcdef",
			Usage: "32 hex digit plaintext the integral set is built from",
		},
		cli.IntFlag{
			Name:  "byte",
			Value: 0,
			Usage: "index of the byte that takes all 256 values, 0 is the leftmost",
		},
		cli.StringFlag{
			Name:  "log",
			Value: "",
			Usage: "specify a log file to output, default goes to stderr",
		},
		cli.BoolFlag{
			Name:  "quiet",
			Usage: "to suppress the start-up settings",
		},
		cli.StringFlag{
			Name:  "c",
			Value: "", // when set, the referenced JSON file must exist on disk
			Usage: "config from json file, which will override the command from shell",
		},
	}
	myApp.Action = func(c *cli.Context) error {
		config := Config{}
		config.Oracles = c.String("oracles")
		config.Key = c.String("key")
		config.Passphrase = c.String("passphrase")
		config.Base = c.String("base")
		config.Byte = c.Int("byte")
		config.Log = c.String("log")
		config.Quiet = c.Bool("quiet")
		if c.String("c") != "" {
			err := parseJSONConfig(&config, c.String("c"))
			checkError(err)
		}
		// Redirect logs when the user supplied a dedicated log file.
		if config.Log != "" {
			f, err := os.OpenFile(config.Log, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
			checkError(err)
			defer f.Close()
			log.SetOutput(f)
		}

		if !config.Quiet {
			log.Println("version:", VERSION)
			log.Println("oracles:", config.Oracles)
			log.Println("base:", config.Base)
			log.Println("byte:", config.Byte)
		}

		base, err := oracle.ParseHex(config.Base)
		checkError(err)
		key, err := config.aesKey()
		checkError(err)
		outcomes, err := experiment(config.oracleNames(), key, base, config.Byte)
		checkError(err)
		printOutcomes(os.Stdout, outcomes)
		log.Printf("oracle queries: %d", std.DefaultStats.Copy().OracleQueries)
		return nil
	}
	myApp.Run(os.Args)
}

// checkError logs the supplied fatal error and terminates the process.
func checkError(err error) {
	if err != nil {
		log.Printf("%+v\n", err)
		os.Exit(-1)
	}
}
