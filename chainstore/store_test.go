// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainstore_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/bitmark-inc/custodyd/chainstore"
	"github.com/bitmark-inc/custodyd/digest"
	"github.com/bitmark-inc/custodyd/fault"
	"github.com/bitmark-inc/custodyd/transaction"
)

const bikeSerial = "SN1337BIKE"

func setupTestLogger(t *testing.T) func() {
	dir, err := ioutil.TempDir("", "chainstore")
	require.NoError(t, err, "temp dir")

	logging := logger.Configuration{
		Directory: dir,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}
	_ = logger.Initialise(logging)

	return func() {
		logger.Finalise()
		os.RemoveAll(dir)
	}
}

func newMemoryStore(t *testing.T) *chainstore.Store {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	require.NoError(t, err, "open memory db")

	store, err := chainstore.New(db, logger.New("testing"))
	require.NoError(t, err, "new store")
	return store
}

func TestAppendChain(t *testing.T) {
	defer setupTestLogger(t)()

	store := newMemoryStore(t)
	defer store.Close()

	t0, sk, err := transaction.Register(bikeSerial)
	require.NoError(t, err, "register")

	position, d, err := store.Append(t0)
	require.NoError(t, err, "append register")
	assert.Equal(t, uint64(0), position, "register position")
	assert.Equal(t, t0.Digest(), d, "register digest")

	expected := []*transaction.Transaction{t0}
	previous := t0
	for i := 1; i <= 3; i += 1 {
		next, nextKey, err := transaction.Transfer(previous, sk)
		require.NoError(t, err, "transfer %d", i)
		sk = nextKey

		position, _, err := store.Append(next)
		require.NoError(t, err, "append %d", i)
		assert.Equal(t, uint64(i), position, "position %d", i)

		expected = append(expected, next)
		previous = next
	}
	defer sk.Destroy()

	count, err := store.Count(bikeSerial)
	require.NoError(t, err, "count")
	assert.Equal(t, uint64(4), count, "count")

	chain, err := store.Chain(bikeSerial)
	require.NoError(t, err, "chain")
	assert.Equal(t, expected, chain, "stored chain")
	assert.NoError(t, transaction.ValidateChain(chain), "stored chain is invalid")

	head, err := store.Head(bikeSerial)
	require.NoError(t, err, "head")
	assert.Equal(t, previous, head, "head")

	tx, position, err := store.Get(expected[2].Digest())
	require.NoError(t, err, "get")
	assert.Equal(t, expected[2], tx, "get by digest")
	assert.Equal(t, uint64(2), position, "get position")
}

func TestAppendRejects(t *testing.T) {
	defer setupTestLogger(t)()

	store := newMemoryStore(t)
	defer store.Close()

	t0, sk0, err := transaction.Register(bikeSerial)
	require.NoError(t, err, "register")
	t1, sk1, err := transaction.Transfer(t0, sk0)
	require.NoError(t, err, "transfer")
	t2, sk2, err := transaction.Transfer(t1, sk1)
	require.NoError(t, err, "transfer")
	defer sk2.Destroy()

	// a transfer cannot start a chain
	_, _, err = store.Append(t1)
	assert.Equal(t, fault.NotRegister, err, "transfer as first")

	// tampered transaction
	tampered := transaction.FromDetails(t0.ID(), t0.Timestamp()+1, nil, t0.PublicKeyOutput(), t0.Signature())
	_, _, err = store.Append(tampered)
	assert.Equal(t, fault.ContentMismatch, err, "tampered register")

	_, _, err = store.Append(t0)
	require.NoError(t, err, "register")

	_, _, err = store.Append(t0)
	assert.Equal(t, fault.TransactionExists, err, "duplicate")

	// skipping a transfer breaks the chain
	_, _, err = store.Append(t2)
	assert.Equal(t, fault.ChainBroken, errors.Cause(err), "skipped transfer")

	// a second register for the same asset does not follow the head
	other, otherKey, err := transaction.Register(bikeSerial)
	require.NoError(t, err, "second register")
	otherKey.Destroy()
	_, _, err = store.Append(other)
	assert.Equal(t, fault.ChainBroken, errors.Cause(err), "second register")

	_, _, err = store.Append(t1)
	require.NoError(t, err, "t1")
	_, _, err = store.Append(t2)
	require.NoError(t, err, "t2")

	count, err := store.Count(bikeSerial)
	require.NoError(t, err, "count")
	assert.Equal(t, uint64(3), count, "count")
}

func TestNotFound(t *testing.T) {
	defer setupTestLogger(t)()

	store := newMemoryStore(t)
	defer store.Close()

	count, err := store.Count("missing")
	assert.NoError(t, err, "count")
	assert.Equal(t, uint64(0), count, "count")

	_, err = store.Head("missing")
	assert.Equal(t, fault.NotFound, err, "head")

	_, err = store.Chain("missing")
	assert.Equal(t, fault.NotFound, err, "chain")

	_, _, err = store.Get(digest.NewDigest([]byte("missing")))
	assert.Equal(t, fault.NotFound, err, "get")
}

func TestPrefixIsolation(t *testing.T) {
	defer setupTestLogger(t)()

	store := newMemoryStore(t)
	defer store.Close()

	a, skA, err := transaction.Register("a")
	require.NoError(t, err, "register a")
	skA.Destroy()
	ab, skAB, err := transaction.Register("a\x00b")
	require.NoError(t, err, "register a/b")
	skAB.Destroy()

	_, _, err = store.Append(a)
	require.NoError(t, err, "append a")
	_, _, err = store.Append(ab)
	require.NoError(t, err, "append a/b")

	chain, err := store.Chain("a")
	require.NoError(t, err, "chain a")
	assert.Equal(t, 1, len(chain), "chain a includes other asset")
}

func TestOpenFile(t *testing.T) {
	defer setupTestLogger(t)()

	dir, err := ioutil.TempDir("", "chainstore-db")
	require.NoError(t, err, "temp dir")
	defer os.RemoveAll(dir)

	name := filepath.Join(dir, "chain.leveldb")
	log := logger.New("testing")

	_, err = chainstore.Open(name, true, log)
	assert.Error(t, err, "read only open of missing database")

	store, err := chainstore.Open(name, false, log)
	require.NoError(t, err, "open")

	g, sk := transaction.Genesis()
	sk.Destroy()
	_, _, err = store.Append(g)
	require.NoError(t, err, "append genesis")
	require.NoError(t, store.Close(), "close")

	assert.Equal(t, fault.NotInitialised, store.Close(), "second close")
	_, _, err = store.Append(g)
	assert.Equal(t, fault.NotInitialised, err, "append after close")

	store, err = chainstore.Open(name, true, log)
	require.NoError(t, err, "reopen")
	defer store.Close()

	head, err := store.Head(transaction.GenesisID)
	require.NoError(t, err, "head")
	assert.Equal(t, g, head, "persisted genesis")
}
