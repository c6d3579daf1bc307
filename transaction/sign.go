// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/custodyd/fault"
)

// GenesisID - asset identifier of the fixed genesis record
const GenesisID = "GENESIS"

// Register - start a new chain for an asset
//
// returns the signed transaction and the secret key that the caller
// must keep to author the first transfer
//
// the id must be valid utf-8 or it would not survive the json encoding
func Register(id string) (*Transaction, *SecretKey, error) {
	if !utf8.ValidString(id) {
		return nil, nil, fault.InvalidUTF8
	}

	publicKey, secretKey, err := newKeyPair()
	if nil != err {
		return nil, nil, err
	}

	t := &Transaction{
		id:        id,
		timestamp: now(),
		input:     nil,
		output:    publicKey,
	}
	err = t.Sign(secretKey)
	if nil != err {
		secretKey.Destroy()
		return nil, nil, err
	}
	return t, secretKey, nil
}

// Transfer - pass an asset on to a new holder
//
// signed with the previous holder's key, proving consent.  The previous
// key is destroyed after signing; the returned key authorises the next
// transfer.
func Transfer(previous *Transaction, previousKey *SecretKey) (*Transaction, *SecretKey, error) {
	if nil == previous {
		return nil, nil, fault.MissingPrevious
	}
	if previousKey.IsDestroyed() {
		return nil, nil, fault.SecretKeyDestroyed
	}
	if !bytes.Equal(previousKey.PublicKey(), previous.output) {
		return nil, nil, fault.SecretKeyMismatch
	}

	publicKey, secretKey, err := newKeyPair()
	if nil != err {
		return nil, nil, err
	}

	input := PublicKey(copyBytes(previous.output))
	t := &Transaction{
		id:        previous.id,
		timestamp: now(),
		input:     &input,
		output:    publicKey,
	}
	err = t.Sign(previousKey)
	if nil != err {
		secretKey.Destroy()
		return nil, nil, err
	}
	previousKey.Destroy()

	return t, secretKey, nil
}

// Genesis - the fixed, reproducible register record
//
// id "GENESIS", timestamp zero and a key pair from an all-zero seed
func Genesis() (*Transaction, *SecretKey) {
	seed := make([]byte, ed25519.SeedSize)
	publicKey, secretKey := keyPairFromSeed(seed)

	t := &Transaction{
		id:        GenesisID,
		timestamp: 0,
		input:     nil,
		output:    publicKey,
	}
	err := t.Sign(secretKey)
	fault.PanicIfError("transaction.Genesis", err)
	return t, secretKey
}

// Sign - sign the packed content and store the signed message
//
// all other fields must be final before calling
func (t *Transaction) Sign(secretKey *SecretKey) error {
	if secretKey.IsDestroyed() {
		return fault.SecretKeyDestroyed
	}
	if !utf8.ValidString(t.id) {
		return fault.InvalidUTF8
	}
	message := t.Pack()
	signature := ed25519.Sign(secretKey.key, message)

	signed := make(Signature, 0, len(signature)+len(message))
	signed = append(signed, signature...)
	t.signature = append(signed, message...)
	return nil
}

// Verify - check the signature against the authorising key
//
// the authorising key is the input key for a transfer and the output
// key for a register
func (t *Transaction) Verify() error {
	key := t.output
	if nil != t.input {
		key = *t.input
	}
	if ed25519.PublicKeySize != len(key) {
		return fault.InvalidPublicKey
	}
	if len(t.signature) < ed25519.SignatureSize {
		return fault.InvalidSignature
	}

	signature := t.signature[:ed25519.SignatureSize]
	message := t.signature[ed25519.SignatureSize:]
	if !ed25519.Verify(ed25519.PublicKey(key), message, signature) {
		return fault.InvalidSignature
	}

	if !bytes.Equal(message, t.Pack()) {
		return fault.ContentMismatch
	}
	return nil
}

// VerifyIsNext - true if this transaction validly follows previous
//
// a register can never follow anything
func (t *Transaction) VerifyIsNext(previous *Transaction) bool {
	if nil != t.Verify() {
		return false
	}
	if nil == t.input || nil == previous {
		return false
	}
	return bytes.Equal(*t.input, previous.output)
}
