// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"encoding/binary"
)

// Packed - the canonical content of a transaction, this is what gets signed
type Packed []byte

// Pack - concatenate the signed fields
//
//   id (utf-8) ++ timestamp (8 bytes little endian) ++ [input key] ++ output key
//
// the layout is shared with every previously signed transaction
// so must never change
func (t *Transaction) Pack() Packed {
	size := len(t.id) + 8 + len(t.output)
	if nil != t.input {
		size += len(*t.input)
	}

	message := make(Packed, 0, size)
	message = append(message, t.id...)
	message = appendUint64(message, uint64(t.timestamp))
	if nil != t.input {
		message = append(message, *t.input...)
	}
	return append(message, t.output...)
}

// append a fixed 8 byte little endian value
func appendUint64(buffer Packed, value uint64) Packed {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], value)
	return append(buffer, b[:]...)
}
