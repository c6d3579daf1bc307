// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package digest

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/bitmark-inc/custodyd/fault"
)

// Length - number of bytes in the digest
const Length = sha256.Size

// Digest - type for a digest
// stored and printed in byte order
// to convert to bytes just use d[:]
type Digest [Length]byte

// Empty - the all-zero digest, used as an uninitialised marker
var Empty = Digest{}

// Hashable - anything that can produce a digest of itself
type Hashable interface {
	Digest() Digest
}

// NewDigest - create a digest from a byte slice
func NewDigest(record []byte) Digest {
	return sha256.Sum256(record)
}

// IsEmpty - true for the all-zero digest
func (digest Digest) IsEmpty() bool {
	return Empty == digest
}

// Hex - lower case hex, two characters per byte
func (digest Digest) Hex() string {
	return hex.EncodeToString(digest[:])
}

// String - hex string for use by the fmt package (for %s)
func (digest Digest) String() string {
	return digest.Hex()
}

// GoString - hex string for use by the fmt package (for %#v)
func (digest Digest) GoString() string {
	return "<SHA-256:" + digest.Hex() + ">"
}

// MarshalText - convert digest to hex text
func (digest Digest) MarshalText() ([]byte, error) {
	size := hex.EncodedLen(len(digest))
	buffer := make([]byte, size)
	hex.Encode(buffer, digest[:])
	return buffer, nil
}

// UnmarshalText - convert hex text into a digest
func (digest *Digest) UnmarshalText(s []byte) error {
	if Length != hex.DecodedLen(len(s)) {
		return fault.InvalidCount
	}
	buffer := make([]byte, Length)
	_, err := hex.Decode(buffer, s)
	if nil != err {
		return err
	}
	copy(digest[:], buffer)
	return nil
}
