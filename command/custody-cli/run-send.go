// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/custodyd/fault"
	"github.com/bitmark-inc/custodyd/ratelimit"
	"github.com/bitmark-inc/custodyd/sender"
	"github.com/bitmark-inc/custodyd/transaction"
)

// upper bound for simulate
const maximumSimulate = 1000

// name stems for simulated assets
var simulatedNames = []string{
	"bicycle",
	"camera",
	"guitar",
	"laptop",
	"painting",
	"scooter",
	"telescope",
	"watch",
}

func runSend(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	if 1 != c.NArg() {
		return fmt.Errorf("send requires exactly one FILE")
	}

	h, err := readHolding(c.Args().Get(0))
	if nil != err {
		return err
	}

	start := time.Now()
	result, err := m.sender.Send(m.url, h.Transaction.EncodeJSON())
	if nil != err {
		return err
	}
	if m.verbose {
		fmt.Fprintf(m.e, "sent: %q  in: %s\n", result.ID, since(start))
	}

	if err := printJson(m.w, result); nil != err {
		return err
	}
	if !result.Success() {
		return errors.Wrapf(fault.SubmitFailed, "status: %d", result.Reply.StatusCode)
	}
	return nil
}

func runSimulate(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	if 1 != c.NArg() {
		return fmt.Errorf("simulate requires a COUNT")
	}
	count, err := strconv.Atoi(c.Args().Get(0))
	if nil != err {
		count = 0
	}

	// reserve the whole batch, waits when --rate is set
	err = ratelimit.LimitN(m.limiter, count, maximumSimulate)
	if fault.InvalidCount == err {
		return errors.Wrapf(err, "count: %q  must be 1..%d", c.Args().Get(0), maximumSimulate)
	}
	if nil != err {
		return err
	}

	random := rand.New(rand.NewSource(time.Now().UnixNano()))

	type simulateReply struct {
		Sent    int              `json:"sent"`
		Failed  int              `json:"failed"`
		Results []*sender.Result `json:"results"`
	}
	reply := simulateReply{
		Results: make([]*sender.Result, 0, count),
	}

	start := time.Now()
	for i := 0; i < count; i += 1 {
		name := fmt.Sprintf("%s_%d", simulatedNames[random.Intn(len(simulatedNames))], random.Intn(1000))

		tx, secretKey, err := transaction.Register(name)
		if nil != err {
			return err
		}
		secretKey.Destroy()

		result, err := m.sender.Send(m.url, tx.EncodeJSON())
		if nil != err {
			fmt.Fprintf(m.e, "send: %q  error: %s\n", name, err)
			reply.Failed += 1
			continue
		}
		if result.Success() {
			reply.Sent += 1
		} else {
			reply.Failed += 1
		}
		reply.Results = append(reply.Results, result)
	}

	if m.verbose {
		fmt.Fprintf(m.e, "history: %v\n", m.sender.History().List())
		fmt.Fprintf(m.e, "elapsed: %s\n", since(start))
	}

	if err := printJson(m.w, reply); nil != err {
		return err
	}
	if 0 != reply.Failed {
		return errors.Wrapf(fault.SubmitFailed, "failed: %d of %d", reply.Failed, count)
	}
	return nil
}
