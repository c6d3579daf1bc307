// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/custodyd/chainstore"
	"github.com/bitmark-inc/custodyd/transaction"
)

// setup command handler
//
// commands that need neither the configuration file nor the database
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "version", "v":
		fmt.Printf("%s\n", version)

	case "genesis":
		tx, _ := transaction.Genesis()
		fmt.Printf("%s\n", tx.EncodeJSON())

	case "help", "h", "?":
		exitwithstatus.Message("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]", program)

	default:
		return false
	}

	return true
}

// configuration command handler
//
// commands that print the parsed configuration
func processConfigCommand(arguments []string, options *Configuration) bool {

	switch arguments[0] {
	case "config", "conf":
		data, err := json.MarshalIndent(options, "", "  ")
		if nil != err {
			exitwithstatus.Message("configuration error: %s", err)
		}
		fmt.Printf("%s\n", data)

	default:
		return false
	}

	return true
}

// data command handler
//
// commands that read the chain database, which must not be in use by a
// running daemon
func processDataCommand(log *logger.L, arguments []string, options *Configuration) bool {

	command := arguments[0]
	arguments = arguments[1:]

	switch command {
	case "chain":
		if 1 != len(arguments) {
			exitwithstatus.Message("usage: chain <asset-id>")
		}
		store := openStore(log, options, true)
		defer store.Close()

		chain, err := store.Chain(arguments[0])
		if nil != err {
			exitwithstatus.Message("chain: %q  error: %s", arguments[0], err)
		}
		data, err := json.MarshalIndent(chain, "", "  ")
		if nil != err {
			exitwithstatus.Message("chain: %q  error: %s", arguments[0], err)
		}
		fmt.Printf("%s\n", data)

	case "verify-chain":
		if 1 != len(arguments) {
			exitwithstatus.Message("usage: verify-chain <asset-id>")
		}
		store := openStore(log, options, true)
		defer store.Close()

		chain, err := store.Chain(arguments[0])
		if nil != err {
			exitwithstatus.Message("chain: %q  error: %s", arguments[0], err)
		}
		owner, err := transaction.CurrentOwner(chain)
		if nil != err {
			exitwithstatus.Message("chain: %q  invalid: %s", arguments[0], err)
		}
		fmt.Printf("asset: %q  transactions: %d  owner: %s\n", arguments[0], len(chain), owner)

	default:
		return false
	}

	return true
}

func openStore(log *logger.L, options *Configuration, readOnly bool) *chainstore.Store {
	store, err := chainstore.Open(options.Database.Name, readOnly, log)
	if nil != err {
		log.Criticalf("chainstore open error: %s", err)
		exitwithstatus.Message("chainstore open: %q  error: %s", options.Database.Name, err)
	}
	return store
}
