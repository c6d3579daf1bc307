// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/urfave/cli"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/custodyd/history"
	"github.com/bitmark-inc/custodyd/ratelimit"
	"github.com/bitmark-inc/custodyd/rest"
	"github.com/bitmark-inc/custodyd/sender"
)

type metadata struct {
	url     string
	verbose bool
	sender  *sender.Sender
	limiter *rate.Limiter
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	app := newApp(os.Stdout, os.Stderr)

	err := app.Run(os.Args)
	if nil != err {
		exitwithstatus.Message("terminated with error: %s", err)
	}
}

func newApp(w io.Writer, e io.Writer) *cli.App {

	app := cli.NewApp()
	app.Name = "custody-cli"
	app.Usage = "create, verify and send chain of custody transactions"
	app.Version = version
	app.HideVersion = true

	app.Writer = w
	app.ErrWriter = e

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "url, u",
			Value: rest.DefaultURL,
			Usage: " acceptance service `URL`",
		},
		cli.DurationFlag{
			Name:  "timeout, t",
			Value: rest.DefaultTimeout,
			Usage: " request `TIMEOUT`",
		},
		cli.IntFlag{
			Name:  "retries, r",
			Value: rest.DefaultRetries,
			Usage: " `COUNT` of retries on server error",
		},
		cli.Float64Flag{
			Name:  "rate",
			Value: 0,
			Usage: " simulated submissions per second, 0 is unlimited",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "genesis",
			Usage:  "print the fixed genesis transaction",
			Action: runGenesis,
		},
		{
			Name:      "register",
			Usage:     "register a new asset, output includes the secret key",
			ArgsUsage: "ASSET-ID",
			Action:    runRegister,
		},
		{
			Name:      "transfer",
			Usage:     "transfer an asset to a new key",
			ArgsUsage: "FILE\n   FILE holds the output of register or a previous transfer",
			Action:    runTransfer,
		},
		{
			Name:      "verify",
			Usage:     "verify the signature of a transaction",
			ArgsUsage: "FILE",
			Action:    runVerify,
		},
		{
			Name:      "next",
			Usage:     "check that a transaction follows a prior one",
			ArgsUsage: "FILE PRIOR-FILE",
			Action:    runNext,
		},
		{
			Name:      "chain",
			Usage:     "validate an ordered chain of transactions",
			ArgsUsage: "FILE...",
			Action:    runChain,
		},
		{
			Name:      "digest",
			Usage:     "SHA-256 of a transaction or of raw data",
			ArgsUsage: "FILE",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "raw, r",
					Usage: " hash the file contents as is",
				},
			},
			Action: runDigest,
		},
		{
			Name:      "send",
			Usage:     "post a transaction to the acceptance service",
			ArgsUsage: "FILE",
			Action:    runSend,
		},
		{
			Name:      "simulate",
			Usage:     "register and send randomly named assets",
			ArgsUsage: "COUNT",
			Action:    runSimulate,
		},
		{
			Name:  "version",
			Usage: "display custody-cli version",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {

		e := c.App.ErrWriter
		verbose := c.GlobalBool("verbose")
		url := c.GlobalString("url")

		if verbose {
			fmt.Fprintf(e, "url: %q\n", url)
		}

		h, err := history.New(history.DefaultSize)
		if nil != err {
			return err
		}

		client := rest.New(c.GlobalDuration("timeout"), c.GlobalInt("retries"), nil)

		c.App.Metadata["config"] = &metadata{
			url:     url,
			verbose: verbose,
			sender:  sender.New(client, h, nil, nil),
			limiter: ratelimit.New(ratelimit.Configuration{
				Limit: c.GlobalFloat64("rate"),
				Burst: maximumSimulate,
			}),
			e:       e,
			w:       c.App.Writer,
		}
		return nil
	}

	return app
}

// elapsed time for verbose output
func since(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}
