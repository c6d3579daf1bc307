// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package acceptor - the remote acceptance service
//
// transactions arrive as wire JSON either over HTTP or from the spool
// directory; each is decoded, verified and appended to its asset chain
package acceptor

import (
	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/custodyd/chainstore"
	"github.com/bitmark-inc/custodyd/digest"
	"github.com/bitmark-inc/custodyd/ratelimit"
	"github.com/bitmark-inc/custodyd/transaction"
)

// MaximumBodySize - largest request accepted
const MaximumBodySize = 65536

// Reply - result of a successful accept
type Reply struct {
	AssetID  string        `json:"assetId"`
	Sequence uint64        `json:"sequence"`
	Digest   digest.Digest `json:"digest"`
}

// Acceptor - shared accept path
type Acceptor struct {
	Log     *logger.L
	Store   *chainstore.Store
	Limiter *rate.Limiter
}

// New - create an acceptor writing to store
func New(store *chainstore.Store, rateConfiguration ratelimit.Configuration, log *logger.L) *Acceptor {
	return &Acceptor{
		Log:     log,
		Store:   store,
		Limiter: ratelimit.New(rateConfiguration),
	}
}

// Accept - decode and append one transaction
//
// the store verifies the signature and the link to the current owner
// while holding its lock
func (a *Acceptor) Accept(buffer []byte) (*Reply, error) {
	tx, err := transaction.DecodeJSON(buffer)
	if nil != err {
		a.Log.Warnf("decode error: %s", err)
		return nil, err
	}

	sequence, d, err := a.Store.Append(tx)
	if nil != err {
		a.Log.Warnf("asset: %q  append error: %s", tx.ID(), err)
		return nil, err
	}

	return &Reply{
		AssetID:  tx.ID(),
		Sequence: sequence,
		Digest:   d,
	}, nil
}
