// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"bytes"
	"crypto/rand"

	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/custodyd/fault"
)

const redacted = "<secret key>"

// SecretKey - the Ed25519 private key that authorises the next transfer
//
// the key material never appears in formatted output and is wiped by
// Destroy, after which the key cannot sign
type SecretKey struct {
	key ed25519.PrivateKey
}

// SecretKeyFromBytes - restore a secret key previously returned by Bytes
func SecretKeyFromBytes(buffer []byte) (*SecretKey, error) {
	if ed25519.PrivateKeySize != len(buffer) {
		return nil, fault.InvalidSecretKey
	}

	// the public half must match the seed
	expected := ed25519.NewKeyFromSeed(buffer[:ed25519.SeedSize])
	if !bytes.Equal(expected, buffer) {
		wipe(expected)
		return nil, fault.InvalidSecretKey
	}
	return &SecretKey{key: expected}, nil
}

// generate a fresh key pair from a source safe for concurrent use
func newKeyPair() (PublicKey, *SecretKey, error) {
	publicKey, privateKey, err := ed25519.GenerateKey(rand.Reader)
	if nil != err {
		return nil, nil, err
	}
	return PublicKey(publicKey), &SecretKey{key: privateKey}, nil
}

// deterministic key pair
func keyPairFromSeed(seed []byte) (PublicKey, *SecretKey) {
	privateKey := ed25519.NewKeyFromSeed(seed)
	publicKey := PublicKey(copyBytes(privateKey[ed25519.SeedSize:]))
	return publicKey, &SecretKey{key: privateKey}
}

// PublicKey - the public half of the pair
func (sk *SecretKey) PublicKey() PublicKey {
	if sk.IsDestroyed() {
		return nil
	}
	return copyBytes(sk.key[ed25519.SeedSize:])
}

// Bytes - copy of the raw key for storage by the caller
func (sk *SecretKey) Bytes() []byte {
	if sk.IsDestroyed() {
		return nil
	}
	return copyBytes(sk.key)
}

// IsDestroyed - true once the key has been wiped
func (sk *SecretKey) IsDestroyed() bool {
	return nil == sk || nil == sk.key
}

// Destroy - wipe the key material
func (sk *SecretKey) Destroy() {
	if sk.IsDestroyed() {
		return
	}
	wipe(sk.key)
	sk.key = nil
}

// String - never shows the key
func (sk SecretKey) String() string {
	return redacted
}

// GoString - never shows the key
func (sk SecretKey) GoString() string {
	return redacted
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
