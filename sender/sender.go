// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package sender - decode a transaction, remember it and post it
package sender

import (
	"time"

	"github.com/bitmark-inc/logger"
	cache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/custodyd/digest"
	"github.com/bitmark-inc/custodyd/fault"
	"github.com/bitmark-inc/custodyd/history"
	"github.com/bitmark-inc/custodyd/ratelimit"
	"github.com/bitmark-inc/custodyd/rest"
	"github.com/bitmark-inc/custodyd/transaction"
)

// how long a successful submission suppresses a resend
const (
	DefaultExpiration = 10 * time.Minute
	cleanupInterval   = 2 * DefaultExpiration
)

// Result - outcome of one send
type Result struct {
	Index  uint32        `json:"index"`
	ID     string        `json:"id"`
	Digest digest.Digest `json:"digest"`
	Reply  *rest.Reply   `json:"reply"`
}

// Success - true for any 2xx status
func (r *Result) Success() bool {
	return nil != r.Reply && r.Reply.StatusCode >= 200 && r.Reply.StatusCode < 300
}

// Sender - posts transactions and keeps the display history
type Sender struct {
	log     *logger.L
	poster  rest.Poster
	history *history.History
	sent    *cache.Cache
	limiter *rate.Limiter
}

// New - create a sender, limiter may be nil for no limiting
func New(poster rest.Poster, h *history.History, limiter *rate.Limiter, log *logger.L) *Sender {
	if nil == limiter {
		limiter = ratelimit.New(ratelimit.Configuration{})
	}
	return &Sender{
		log:     log,
		poster:  poster,
		history: h,
		sent:    cache.New(DefaultExpiration, cleanupInterval),
		limiter: limiter,
	}
}

// History - the sent transactions
func (s *Sender) History() *history.History {
	return s.history
}

// Send - decode buffer and post its canonical JSON to url
//
// a transaction already accepted (2xx) within the expiry period is not
// posted again; a non-2xx reply is reported, not treated as an error
func (s *Sender) Send(url string, buffer []byte) (*Result, error) {
	tx, err := transaction.DecodeJSON(buffer)
	if nil != err {
		if nil != s.log {
			s.log.Warnf("decode failed: %s", err)
		}
		return nil, err
	}

	d := tx.Digest()
	key := d.Hex()

	// reserve the digest so concurrent sends of the same transaction
	// post only once, the reservation is released unless accepted
	if err := s.sent.Add(key, nil, cache.DefaultExpiration); nil != err {
		return nil, fault.AlreadySubmitted
	}

	if err := ratelimit.Limit(s.limiter); nil != err {
		s.sent.Delete(key)
		return nil, err
	}

	index := s.history.Add(tx)
	result := &Result{
		Index:  index,
		ID:     tx.ID(),
		Digest: d,
	}

	reply, err := s.poster.Post(url, tx.EncodeJSON())
	if nil != err {
		s.sent.Delete(key)
		if nil != s.log {
			s.log.Errorf("send: %q  digest: %s  error: %s", tx.ID(), key, err)
		}
		return result, err
	}
	result.Reply = reply

	if result.Success() {
		s.sent.Set(key, index, cache.DefaultExpiration)
	} else {
		s.sent.Delete(key)
	}

	if nil != s.log {
		s.log.Infof("send: %q  digest: %s  status: %d", tx.ID(), key, reply.StatusCode)
	}
	return result, nil
}
