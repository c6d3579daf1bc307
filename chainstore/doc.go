// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainstore - LevelDB storage of per-asset custody chains
//
// Each asset has an ordered chain of transactions stored in their JSON
// wire form.  A transaction is only appended if it validly follows the
// current head of its chain, so every stored chain passes
// transaction.ValidateChain.
//
// key layout (all integers big endian):
//
//   C <len:4> <id> <seq:8>  →  transaction JSON
//   H <len:4> <id>          →  count:8
//   D <digest:32>           →  chain key
package chainstore
