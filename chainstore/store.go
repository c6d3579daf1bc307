// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainstore

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/bitmark-inc/logger"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/custodyd/digest"
	"github.com/bitmark-inc/custodyd/fault"
	"github.com/bitmark-inc/custodyd/transaction"
)

// key prefixes
const (
	chainPrefix  = 'C'
	headPrefix   = 'H'
	digestPrefix = 'D'
)

const currentVersion = 0x100

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

// Store - handle to an open chain database
type Store struct {
	sync.RWMutex
	log *logger.L
	db  *leveldb.DB
}

// Open - open or create the database file
func Open(name string, readOnly bool, log *logger.L) (*Store, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, err
	}

	store, err := New(db, log)
	if nil != err {
		db.Close()
		return nil, err
	}
	return store, nil
}

// New - wrap an already open database, tagging an empty one with the current version
func New(db *leveldb.DB, log *logger.L) (*Store, error) {
	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		versionValue = make([]byte, 4)
		binary.BigEndian.PutUint32(versionValue, currentVersion)
		err = db.Put(versionKey, versionValue, nil)
	}
	if nil != err {
		return nil, err
	}

	if 4 != len(versionValue) {
		return nil, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}
	version := binary.BigEndian.Uint32(versionValue)
	if currentVersion != version {
		return nil, fmt.Errorf("database version: %d  expected: %d", version, currentVersion)
	}

	log.Infof("opened chain store version: 0x%x", version)

	return &Store{
		log: log,
		db:  db,
	}, nil
}

// Close - close the database
func (s *Store) Close() error {
	s.Lock()
	defer s.Unlock()

	if nil == s.db {
		return fault.NotInitialised
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Append - add a transaction to the end of its asset's chain
//
// returns the position in the chain and the transaction digest
func (s *Store) Append(tx *transaction.Transaction) (uint64, digest.Digest, error) {
	s.Lock()
	defer s.Unlock()

	if nil == s.db {
		return 0, digest.Empty, fault.NotInitialised
	}

	d := tx.Digest()
	found, err := s.db.Has(digestKey(d), nil)
	if nil != err {
		return 0, digest.Empty, err
	}
	if found {
		return 0, digest.Empty, fault.TransactionExists
	}

	id := tx.ID()
	count, err := s.count(id)
	if nil != err {
		return 0, digest.Empty, err
	}

	if err := tx.Verify(); nil != err {
		return 0, digest.Empty, err
	}

	if 0 == count {
		if tx.HasInput() {
			return 0, digest.Empty, fault.NotRegister
		}
	} else {
		head, err := s.get(chainKey(id, count-1))
		if nil != err {
			return 0, digest.Empty, err
		}
		if !tx.VerifyIsNext(head) {
			return 0, digest.Empty, errors.Wrapf(fault.ChainBroken, "asset: %q  position: %d", id, count)
		}
	}

	data, err := json.Marshal(tx)
	if nil != err {
		return 0, digest.Empty, err
	}

	key := chainKey(id, count)
	next := make([]byte, 8)
	binary.BigEndian.PutUint64(next, count+1)

	batch := new(leveldb.Batch)
	batch.Put(key, data)
	batch.Put(headKey(id), next)
	batch.Put(digestKey(d), key)

	err = s.db.Write(batch, &ldb_opt.WriteOptions{Sync: true})
	if nil != err {
		s.log.Errorf("write asset: %q  error: %s", id, err)
		return 0, digest.Empty, err
	}

	s.log.Infof("asset: %q  position: %d  digest: %s", id, count, d)
	return count, d, nil
}

// Count - number of transactions in an asset's chain
func (s *Store) Count(id string) (uint64, error) {
	s.RLock()
	defer s.RUnlock()

	if nil == s.db {
		return 0, fault.NotInitialised
	}
	return s.count(id)
}

// Head - last transaction of an asset's chain
func (s *Store) Head(id string) (*transaction.Transaction, error) {
	s.RLock()
	defer s.RUnlock()

	if nil == s.db {
		return nil, fault.NotInitialised
	}

	count, err := s.count(id)
	if nil != err {
		return nil, err
	}
	if 0 == count {
		return nil, fault.NotFound
	}
	return s.get(chainKey(id, count-1))
}

// Chain - all transactions of an asset, register first
func (s *Store) Chain(id string) ([]*transaction.Transaction, error) {
	s.RLock()
	defer s.RUnlock()

	if nil == s.db {
		return nil, fault.NotInitialised
	}

	chain := make([]*transaction.Transaction, 0, 8)
	iter := s.db.NewIterator(ldb_util.BytesPrefix(assetKey(chainPrefix, id)), nil)
	for iter.Next() {
		tx, err := transaction.DecodeJSON(iter.Value())
		if nil != err {
			iter.Release()
			return nil, err
		}
		chain = append(chain, tx)
	}
	iter.Release()
	if err := iter.Error(); nil != err {
		return nil, err
	}

	if 0 == len(chain) {
		return nil, fault.NotFound
	}
	return chain, nil
}

// Get - look up a transaction by its digest
//
// also returns the asset id and position within its chain
func (s *Store) Get(d digest.Digest) (*transaction.Transaction, uint64, error) {
	s.RLock()
	defer s.RUnlock()

	if nil == s.db {
		return nil, 0, fault.NotInitialised
	}

	key, err := s.db.Get(digestKey(d), nil)
	if leveldb.ErrNotFound == err {
		return nil, 0, fault.NotFound
	} else if nil != err {
		return nil, 0, err
	}

	tx, err := s.get(key)
	if nil != err {
		return nil, 0, err
	}
	position := binary.BigEndian.Uint64(key[len(key)-8:])
	return tx, position, nil
}

// read and decode one chain entry
func (s *Store) get(key []byte) (*transaction.Transaction, error) {
	data, err := s.db.Get(key, nil)
	if leveldb.ErrNotFound == err {
		return nil, fault.NotFound
	} else if nil != err {
		return nil, err
	}
	return transaction.DecodeJSON(data)
}

func (s *Store) count(id string) (uint64, error) {
	value, err := s.db.Get(headKey(id), nil)
	if leveldb.ErrNotFound == err {
		return 0, nil
	} else if nil != err {
		return 0, err
	}
	if 8 != len(value) {
		return 0, fmt.Errorf("asset: %q  corrupt head count length: %d", id, len(value))
	}
	return binary.BigEndian.Uint64(value), nil
}

// prefix ++ length ++ id
func assetKey(prefix byte, id string) []byte {
	key := make([]byte, 5, 5+len(id)+8)
	key[0] = prefix
	binary.BigEndian.PutUint32(key[1:], uint32(len(id)))
	return append(key, id...)
}

func chainKey(id string, position uint64) []byte {
	key := assetKey(chainPrefix, id)
	var p [8]byte
	binary.BigEndian.PutUint64(p[:], position)
	return append(key, p[:]...)
}

func headKey(id string) []byte {
	return assetKey(headPrefix, id)
}

func digestKey(d digest.Digest) []byte {
	return append([]byte{digestPrefix}, d[:]...)
}
