// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/custodyd/digest"
	"github.com/bitmark-inc/custodyd/fault"
	"github.com/bitmark-inc/custodyd/transaction"
)

func runVerify(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	if 1 != c.NArg() {
		return fmt.Errorf("verify requires exactly one FILE")
	}

	h, err := readHolding(c.Args().Get(0))
	if nil != err {
		return err
	}
	tx := h.Transaction

	if m.verbose {
		fmt.Fprintf(m.e, "%s\n", tx)
	}

	if err := tx.Verify(); nil != err {
		return err
	}

	type verifyReply struct {
		ID       string        `json:"id"`
		Register bool          `json:"register"`
		Digest   digest.Digest `json:"digest"`
		Verified bool          `json:"verified"`
	}
	return printJson(m.w, verifyReply{
		ID:       tx.ID(),
		Register: !tx.HasInput(),
		Digest:   tx.Digest(),
		Verified: true,
	})
}

func runNext(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	if 2 != c.NArg() {
		return fmt.Errorf("next requires FILE and PRIOR-FILE")
	}

	h, err := readHolding(c.Args().Get(0))
	if nil != err {
		return err
	}
	prior, err := readHolding(c.Args().Get(1))
	if nil != err {
		return err
	}

	next := h.Transaction.VerifyIsNext(prior.Transaction)

	type nextReply struct {
		Next bool `json:"next"`
	}
	if err := printJson(m.w, nextReply{Next: next}); nil != err {
		return err
	}

	if !next {
		return fault.ChainBroken
	}
	return nil
}

func runChain(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	if 0 == c.NArg() {
		return fmt.Errorf("chain requires at least one FILE")
	}

	chain := make([]*transaction.Transaction, 0, c.NArg())
	for _, fileName := range c.Args() {
		h, err := readHolding(fileName)
		if nil != err {
			return err
		}
		chain = append(chain, h.Transaction)
	}

	owner, err := transaction.CurrentOwner(chain)
	if nil != err {
		return errors.Wrap(err, "chain is not valid")
	}

	type chainReply struct {
		ID     string `json:"id"`
		Length int    `json:"length"`
		Owner  string `json:"owner"`
	}
	return printJson(m.w, chainReply{
		ID:     chain[0].ID(),
		Length: len(chain),
		Owner:  owner.String(),
	})
}

func runDigest(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	if 1 != c.NArg() {
		return fmt.Errorf("digest requires exactly one FILE")
	}
	fileName := c.Args().Get(0)

	var d digest.Digest
	if c.Bool("raw") {
		data, err := ioutil.ReadFile(fileName)
		if nil != err {
			return err
		}
		d = digest.NewDigest(data)
	} else {
		h, err := readHolding(fileName)
		if nil != err {
			return err
		}
		d = h.Transaction.Digest()
	}

	fmt.Fprintf(m.w, "%s\n", d)
	return nil
}
