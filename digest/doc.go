// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package digest - SHA-256 content fingerprints
//
// A digest identifies a transaction for indexing and display.  It is
// never part of what gets signed.
package digest
