package storage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"go.vocdoni.io/dvote/db"
	"go.vocdoni.io/dvote/db/prefixeddb"
	"golang.org/x/crypto/blake2b"
)

// Artifact encoding/decoding
func encodeArtifact(a any) ([]byte, error) {
	encOpts := cbor.CoreDetEncOptions()
	em, err := encOpts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	return em.Marshal(a)
}

func decodeArtifact(data []byte, out any) error {
	return cbor.Unmarshal(data, out)
}

func hashKey(data []byte) []byte {
	hash := blake2b.Sum256(data)
	return hash[:maxKeySize]
}

// joinKey returns a new slice with the concatenation of the parts.
func joinKey(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// setArtifact encodes and stores an artifact under prefix/key.
func (s *Storage) setArtifact(prefix, key []byte, a any) error {
	val, err := encodeArtifact(a)
	if err != nil {
		return err
	}
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), prefix)
	if err := wTx.Set(key, val); err != nil {
		wTx.Discard()
		return err
	}
	return wTx.Commit()
}

// getArtifact decodes the artifact stored under prefix/key into out. It
// returns ErrNotFound if the key does not exist.
func (s *Storage) getArtifact(prefix, key []byte, out any) error {
	rd := prefixeddb.NewPrefixedReader(s.db, prefix)
	data, err := rd.Get(key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := decodeArtifact(data, out); err != nil {
		return fmt.Errorf("decode artifact: %w", err)
	}
	return nil
}

// deleteArtifact removes prefix/key. It returns ErrNotFound if the key does
// not exist.
func (s *Storage) deleteArtifact(prefix, key []byte) error {
	rd := prefixeddb.NewPrefixedReader(s.db, prefix)
	if _, err := rd.Get(key); err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return ErrNotFound
		}
		return err
	}
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), prefix)
	if err := wTx.Delete(key); err != nil {
		wTx.Discard()
		return err
	}
	return wTx.Commit()
}

// listArtifacts returns a copy of every key stored under prefix/sub.
func (s *Storage) listArtifacts(prefix, sub []byte) ([][]byte, error) {
	rd := prefixeddb.NewPrefixedReader(s.db, prefix)
	var keys [][]byte
	if err := rd.Iterate(sub, func(k, _ []byte) bool {
		keys = append(keys, joinKey(sub, k))
		return true
	}); err != nil {
		return nil, err
	}
	return keys, nil
}

// isReserved reports whether a reservation exists for key.
func (s *Storage) isReserved(prefix, key []byte) bool {
	rd := prefixeddb.NewPrefixedReader(s.db, prefix)
	_, err := rd.Get(key)
	return err == nil
}

// setReservation records the time a queue element was taken.
func (s *Storage) setReservation(prefix, key []byte) error {
	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(time.Now().Unix()))
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), prefix)
	if err := wTx.Set(key, ts); err != nil {
		wTx.Discard()
		return err
	}
	return wTx.Commit()
}

// clearReservations removes every reservation under prefix.
func (s *Storage) clearReservations(prefix []byte) error {
	keys, err := s.listArtifacts(prefix, nil)
	if err != nil {
		return fmt.Errorf("list reservations: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	wTx := prefixeddb.NewPrefixedWriteTx(s.db.WriteTx(), prefix)
	for _, k := range keys {
		if err := wTx.Delete(k); err != nil {
			wTx.Discard()
			return err
		}
	}
	return wTx.Commit()
}
