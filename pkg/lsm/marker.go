// Package lsm provides a visited-surfel marker stored in a badger LSM tree,
// for traversals whose visited set does not fit comfortably in a Go map.
package lsm

import (
	"encoding/binary"

	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"

	"dgsurface/pkg/kspace"
	"dgsurface/pkg/topology"
)

// keyLen is the size of an encoded surfel: MaxDim big-endian int32
// coordinates followed by the sign byte.
const keyLen = 4*kspace.MaxDim + 1

// Marker is a topology.Marker backed by badger.
//
// Storage failures after Open are not recoverable by a traversal and cause a
// panic.
type Marker struct {
	db *badger.DB
	n  int
}

var _ topology.Marker = (*Marker)(nil)

// Open returns an empty marker. With an empty dir the tree lives in memory;
// otherwise it is stored under dir, and whatever a previous marker left there
// is dropped.
func Open(dir string) (*Marker, error) {
	dbOpts := badger.DefaultOptions(dir)
	if dir == "" {
		dbOpts = dbOpts.WithInMemory(true)
	}
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false
	dbOpts.DetectConflicts = false // single writer

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "lsm: opening marker in %q", dir)
	}
	if dir != "" {
		if err := db.DropAll(); err != nil {
			db.Close()
			return nil, errors.Wrap(err, "lsm: clearing marker")
		}
	}
	return &Marker{db: db}, nil
}

func encodeKey(s kspace.SCell) []byte {
	var key [keyLen]byte
	for i := 0; i < kspace.MaxDim; i++ {
		binary.BigEndian.PutUint32(key[4*i:], uint32(int32(s.Coords[i])))
	}
	if s.Sign {
		key[keyLen-1] = 1
	}
	return key[:]
}

// TryAdd implements topology.Marker.
func (m *Marker) TryAdd(s kspace.SCell) bool {
	key := encodeKey(s)

	txn := m.db.NewTransaction(true)
	defer txn.Discard()

	_, err := txn.Get(key)
	if err == nil {
		return false
	}
	if err != badger.ErrKeyNotFound {
		panic(errors.Wrap(err, "lsm: reading marker"))
	}
	if err := txn.Set(key, nil); err != nil {
		panic(errors.Wrap(err, "lsm: writing marker"))
	}
	if err := txn.Commit(); err != nil {
		panic(errors.Wrap(err, "lsm: committing marker"))
	}
	m.n++
	return true
}

// Contains implements topology.Marker.
func (m *Marker) Contains(s kspace.SCell) bool {
	found := false
	err := m.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(encodeKey(s))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		found = err == nil
		return err
	})
	if err != nil {
		panic(errors.Wrap(err, "lsm: reading marker"))
	}
	return found
}

// Len implements topology.Marker.
func (m *Marker) Len() int { return m.n }

// Close implements topology.Marker.
func (m *Marker) Close() error {
	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	return errors.Wrap(err, "lsm: closing marker")
}
