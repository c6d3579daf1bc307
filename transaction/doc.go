// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package transaction - signed change of custody records
//
// A chain for one asset starts with a register transaction (no input
// key) signed by its own output key.  Every later transfer carries the
// previous output key as its input key and is signed by the matching
// secret key, so ownership history can be checked without a trusted
// third party.
//
// The signature field holds an Ed25519 signed message: the 64 byte
// signature followed by the packed content it covers.
package transaction
