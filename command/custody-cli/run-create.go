// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/custodyd/fault"
	"github.com/bitmark-inc/custodyd/transaction"
)

func runGenesis(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	tx, secretKey := transaction.Genesis()
	defer secretKey.Destroy()

	if m.verbose {
		fmt.Fprintf(m.e, "%s\n", tx)
	}

	return printJson(m.w, newHolding(tx, nil))
}

func runRegister(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	if 1 != c.NArg() {
		return fmt.Errorf("register requires exactly one ASSET-ID")
	}
	id := c.Args().Get(0)
	if "" == id {
		return fault.MissingField
	}
	if !utf8.ValidString(id) {
		return errors.Wrapf(fault.InvalidUTF8, "asset id: %q", id)
	}

	tx, secretKey, err := transaction.Register(id)
	if nil != err {
		return err
	}
	defer secretKey.Destroy()

	if m.verbose {
		fmt.Fprintf(m.e, "%s\n", tx)
	}

	return printJson(m.w, newHolding(tx, secretKey))
}

func runTransfer(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	if 1 != c.NArg() {
		return fmt.Errorf("transfer requires exactly one FILE")
	}

	previous, err := readHolding(c.Args().Get(0))
	if nil != err {
		return err
	}
	previousKey, err := previous.key()
	if nil != err {
		return err
	}

	tx, secretKey, err := transaction.Transfer(previous.Transaction, previousKey)
	if nil != err {
		previousKey.Destroy()
		return err
	}
	defer secretKey.Destroy()

	if m.verbose {
		fmt.Fprintf(m.e, "%s\n", tx)
	}

	return printJson(m.w, newHolding(tx, secretKey))
}
