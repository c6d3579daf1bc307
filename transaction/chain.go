// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transaction

import (
	"github.com/pkg/errors"

	"github.com/bitmark-inc/custodyd/fault"
)

// ValidateChain - check an ordered list of transactions for one asset
//
// the first must be a register that verifies alone, every later one
// must satisfy VerifyIsNext against its predecessor
func ValidateChain(chain []*Transaction) error {
	if 0 == len(chain) {
		return fault.EmptyChain
	}

	first := chain[0]
	if first.HasInput() {
		return errors.Wrap(fault.NotRegister, "transaction 0")
	}
	if err := first.Verify(); nil != err {
		return errors.Wrap(err, "transaction 0")
	}

	for i := 1; i < len(chain); i += 1 {
		if !chain[i].VerifyIsNext(chain[i-1]) {
			return errors.Wrapf(fault.ChainBroken, "transaction %d", i)
		}
	}
	return nil
}

// CurrentOwner - output key of the last transaction of a valid chain
func CurrentOwner(chain []*Transaction) (PublicKey, error) {
	if err := ValidateChain(chain); nil != err {
		return nil, err
	}
	return chain[len(chain)-1].PublicKeyOutput(), nil
}
