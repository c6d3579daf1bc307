// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/bitmark-inc/custodyd/digest"
	"github.com/bitmark-inc/custodyd/fault"
)

// Timestamp - seconds since the Unix epoch
type Timestamp uint64

// PublicKey - raw Ed25519 public key bytes
type PublicKey []byte

// Signature - signed message bytes
type Signature []byte

// Transaction - one change of custody for an asset
//
// fields are fixed once signed, any change invalidates the signature
type Transaction struct {
	id        string     // asset identifier, e.g. a serial number
	timestamp Timestamp  // creation time
	input     *PublicKey // nil for a register
	output    PublicKey  // the new holder
	signature Signature
}

// FromDetails - rebuild a transaction from known field values
//
// a nil input marks a register transaction; no signing is done
func FromDetails(id string, timestamp Timestamp, input *PublicKey, output PublicKey, signature Signature) *Transaction {
	t := &Transaction{
		id:        id,
		timestamp: timestamp,
		output:    copyBytes(output),
		signature: copyBytes(signature),
	}
	if nil != input {
		key := PublicKey(copyBytes(*input))
		t.input = &key
	}
	return t
}

// ID - the asset identifier
func (t *Transaction) ID() string {
	return t.id
}

// Timestamp - seconds since the Unix epoch
func (t *Transaction) Timestamp() Timestamp {
	return t.timestamp
}

// HasInput - true for a transfer, false for a register
func (t *Transaction) HasInput() bool {
	return nil != t.input
}

// PublicKeyInput - previous holder's key, ok is false for a register
func (t *Transaction) PublicKeyInput() (key PublicKey, ok bool) {
	if nil == t.input {
		return nil, false
	}
	return copyBytes(*t.input), true
}

// PublicKeyOutput - the new holder's key
func (t *Transaction) PublicKeyOutput() PublicKey {
	return copyBytes(t.output)
}

// Signature - the signed message
func (t *Transaction) Signature() Signature {
	return copyBytes(t.signature)
}

// Digest - fingerprint of the transaction for indexing and display
func (t *Transaction) Digest() digest.Digest {
	return digest.NewDigest(t.signature)
}

// String - readable form for logs
func (t *Transaction) String() string {
	input := "None"
	if nil != t.input {
		input = hex.EncodeToString(*t.input)
	}
	return fmt.Sprintf("Transaction:{ id: %s, timestamp: %d, public_key_input: %s, public_key_output: %s, signature: %s }",
		t.id,
		t.timestamp,
		input,
		hex.EncodeToString(t.output),
		hex.EncodeToString(t.signature),
	)
}

// String - hex form of the key
func (key PublicKey) String() string {
	return hex.EncodeToString(key)
}

// GoString - hex form of the key for %#v
func (key PublicKey) GoString() string {
	return "<public key:" + hex.EncodeToString(key) + ">"
}

// String - hex form of the signature
func (signature Signature) String() string {
	return hex.EncodeToString(signature)
}

// GoString - hex form of the signature for %#v
func (signature Signature) GoString() string {
	return "<signature:" + hex.EncodeToString(signature) + ">"
}

// current time, a clock before the epoch means a broken host
func now() Timestamp {
	seconds := time.Now().Unix()
	if seconds < 0 {
		fault.Panicf("transaction: system clock is before the Unix epoch: %d", seconds)
	}
	return Timestamp(seconds)
}

func copyBytes(b []byte) []byte {
	if nil == b {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
