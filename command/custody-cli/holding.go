// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/base64"
	"encoding/json"
	"io/ioutil"

	"github.com/pkg/errors"

	"github.com/bitmark-inc/custodyd/fault"
	"github.com/bitmark-inc/custodyd/transaction"
)

// holding - a transaction with the secret key for its output
type holding struct {
	Transaction *transaction.Transaction `json:"transaction"`
	SecretKey   string                   `json:"secretKey,omitempty"`
}

func newHolding(tx *transaction.Transaction, secretKey *transaction.SecretKey) *holding {
	h := &holding{
		Transaction: tx,
	}
	if nil != secretKey && !secretKey.IsDestroyed() {
		h.SecretKey = base64.StdEncoding.EncodeToString(secretKey.Bytes())
	}
	return h
}

// key - decode the stored secret key
func (h *holding) key() (*transaction.SecretKey, error) {
	if "" == h.SecretKey {
		return nil, errors.Wrap(fault.MissingField, "secretKey")
	}
	b, err := base64.StdEncoding.DecodeString(h.SecretKey)
	if nil != err {
		return nil, errors.Wrapf(fault.InvalidBase64, "secretKey: %s", err)
	}
	return transaction.SecretKeyFromBytes(b)
}

// readHolding - read a file holding either a bare transaction or a
// transaction with its secret key
func readHolding(fileName string) (*holding, error) {
	data, err := ioutil.ReadFile(fileName)
	if nil != err {
		return nil, err
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &fields); nil != err {
		return nil, errors.Wrapf(fault.InvalidJSON, "%s: %s", fileName, err)
	}

	if _, ok := fields["transaction"]; !ok {
		tx, err := transaction.DecodeJSON(data)
		if nil != err {
			return nil, errors.Wrap(err, fileName)
		}
		return &holding{Transaction: tx}, nil
	}

	h := &holding{}
	if err := json.Unmarshal(data, h); nil != err {
		return nil, errors.Wrap(err, fileName)
	}
	if nil == h.Transaction {
		return nil, errors.Wrapf(fault.MissingField, "%s: transaction", fileName)
	}
	return h, nil
}
