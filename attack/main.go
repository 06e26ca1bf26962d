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
	"context"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/xtaci/spnattack/recovery"
	"github.com/xtaci/spnattack/spn"
	"github.com/xtaci/spnattack/std"
	"github.com/xtaci/spnattack/trail"
)

// VERSION is populated via build flags when packaging official binaries.
var VERSION = "SELFBUILD"

func main() {
	if VERSION == "SELFBUILD" {
		// Enable timestamps + file:line to simplify debugging self-built binaries.
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "spnattack"
	myApp.Usage = "differential cryptanalysis of a 16-bit SPN"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "mode,m",
			Value: "recover",
			Usage: "ddt, trails, recover",
		},
		cli.StringFlag{
			Name:  "keys,k",
			Value: "1111,2222,3333,4444,5555,6656",
			Usage: "six hexadecimal round keys, the last one is the recovery target",
		},
		cli.StringFlag{
			Name:   "passphrase",
			Value:  "",
			Usage:  "derive the round keys from a passphrase instead of --keys",
			EnvVar: "SPNATTACK_KEY",
		},
		cli.StringFlag{
			Name:  "diff,d",
			Value: "0x0020",
			Usage: `input difference of the trail, "best" for the top ranked one`,
		},
		cli.IntFlag{
			Name:  "rounds",
			Value: spn.Rounds,
			Usage: "rounds to simulate in trails mode",
		},
		cli.IntFlag{
			Name:  "pairs,n",
			Value: 0,
			Usage: "chosen plaintext pairs to query, 0 for 1/p of the trail",
		},
		cli.IntFlag{
			Name:  "holdout",
			Value: recovery.DefaultHoldOut,
			Usage: "filtered pairs used to validate the completed key",
		},
		cli.IntFlag{
			Name:  "workers",
			Value: 0,
			Usage: "brute-force workers, 0 for one per logical core",
		},
		cli.Int64Flag{
			Name:  "seed",
			Value: 0,
			Usage: "plaintext sampling seed, 0 to seed from the clock",
		},
		cli.IntFlag{
			Name:  "top",
			Value: 10,
			Usage: "ranked trails to print, 0 for all",
		},
		cli.IntFlag{
			Name:  "timeout",
			Value: 0,
			Usage: "abort the brute-force stages after this many seconds, 0 to disable",
		},
		cli.StringFlag{
			Name:  "votes",
			Value: "",
			Usage: "dump the vote table as csv, snappy compressed when the name ends in .sz",
		},
		cli.StringFlag{
			Name:  "statslog",
			Value: "",
			Usage: "collect stats to file, aware of timeformat in golang, like: ./stats-20060102.log",
		},
		cli.IntFlag{
			Name:  "statsperiod",
			Value: 60,
			Usage: "stats collect period, in seconds",
		},
		cli.StringFlag{
			Name:  "log",
			Value: "",
			Usage: "specify a log file to output, default goes to stderr",
		},
		cli.BoolFlag{
			Name:  "quiet",
			Usage: "to suppress the per-pair listing",
		},
		cli.StringFlag{
			Name:  "c",
			Value: "", // when set, the referenced JSON file must exist on disk
			Usage: "config from json file, which will override the command from shell",
		},
	}
	myApp.Action = func(c *cli.Context) error {
		config := Config{}
		config.Mode = c.String("mode")
		config.Keys = c.String("keys")
		config.Passphrase = c.String("passphrase")
		config.Diff = c.String("diff")
		config.Rounds = c.Int("rounds")
		config.Pairs = c.Int("pairs")
		config.HoldOut = c.Int("holdout")
		config.Workers = c.Int("workers")
		config.Seed = c.Int64("seed")
		config.Top = c.Int("top")
		config.Timeout = c.Int("timeout")
		config.Votes = c.String("votes")
		config.StatsLog = c.String("statslog")
		config.StatsPeriod = c.Int("statsperiod")
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
		if config.Workers <= 0 {
			config.Workers = std.DefaultWorkers()
		}
		if config.Seed == 0 {
			config.Seed = time.Now().UnixNano()
		}

		log.Println("version:", VERSION)
		log.Println("cpu:", std.CPUSummary())
		log.Println("mode:", config.Mode)
		log.Println("diff:", config.Diff)
		log.Println("rounds:", config.Rounds)
		log.Println("pairs:", config.Pairs)
		log.Println("holdout:", config.HoldOut)
		log.Println("workers:", config.Workers)
		log.Println("seed:", config.Seed)
		log.Println("timeout:", config.Timeout)
		log.Println("votes:", config.Votes)
		log.Println("statslog:", config.StatsLog)
		log.Println("statsperiod:", config.StatsPeriod)
		log.Println("quiet:", config.Quiet)

		go std.StatsLogger(config.StatsLog, config.StatsPeriod)

		cipher := spn.Default()
		ddt := spn.BuildDDT(cipher.SBox())
		searcher := trail.NewSearcher(ddt, cipher.PBox())

		switch config.Mode {
		case "ddt":
			printDDT(os.Stdout, ddt)
		case "trails":
			trails, err := searcher.Search(config.Rounds)
			checkError(err)
			printTrails(os.Stdout, trails, config.Top)
		case "recover":
			checkError(runRecover(&config, cipher, ddt, searcher))
		default:
			log.Fatal("unknown mode:", config.Mode)
		}
		return nil
	}
	myApp.Run(os.Args)
}

// runRecover attacks the last round key of the configured schedule.
func runRecover(config *Config, cipher *spn.Cipher, ddt *spn.DDT, searcher *trail.Searcher) error {
	ks, err := config.schedule()
	if err != nil {
		return err
	}
	diff, err := config.inputDiff()
	if err != nil {
		return err
	}
	if diff == 0 {
		trails, err := searcher.Search(spn.Rounds)
		if err != nil {
			return err
		}
		diff = trails[0].Start()
	}

	tr := searcher.Simulate(diff, spn.Rounds)
	log.Println("trail:", tr)
	log.Printf("trail probability: %.6f", tr.Probability)
	log.Println("output mask:", tr.OutputMask())

	suggested := recovery.SuggestedPairs(tr.Probability)
	if config.Pairs == 0 {
		config.Pairs = suggested
	} else if config.Pairs < suggested {
		color.Red("WARNING: %d pairs is below 1/p = %d, a right pair is unlikely.", config.Pairs, suggested)
	}

	var known recovery.KnownKeys
	copy(known[:], ks[:])

	ctx := context.Background()
	if config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(config.Timeout)*time.Second)
		defer cancel()
	}

	start := time.Now()
	res, err := recovery.Run(ctx, &recovery.Config{
		Cipher:  cipher,
		DDT:     ddt,
		Oracle:  cipher.WithSchedule(ks),
		Known:   known,
		Trail:   tr,
		Pairs:   config.Pairs,
		HoldOut: config.HoldOut,
		Workers: config.Workers,
		Rand:    rand.New(rand.NewSource(config.Seed)),
	})
	if err != nil {
		switch errors.Cause(err) {
		case recovery.ErrNoMatchingPairs:
			color.Red("no pair survived the output mask, try more pairs or another seed")
		case recovery.ErrKeyNotRecovered:
			color.Red("the partial key did not complete, try more pairs or another seed")
		}
		return err
	}
	log.Println("attack took:", time.Since(start))

	printRecovery(os.Stdout, res, config.Quiet)
	if res.Key == ks[spn.ScheduleLen-1] {
		color.Green("recovered last round key %v", res.Key)
	} else {
		color.Red("recovered %v but the schedule ends in %v", res.Key, ks[spn.ScheduleLen-1])
	}

	if config.Votes != "" {
		if err := std.DumpVotes(config.Votes, res.Partial.Table); err != nil {
			return errors.Wrap(err, "dump votes")
		}
		log.Println("votes written to:", config.Votes)
	}
	return nil
}

// checkError logs the supplied fatal error and terminates the process.
func checkError(err error) {
	if err != nil {
		log.Printf("%+v\n", err)
		os.Exit(-1)
	}
}
