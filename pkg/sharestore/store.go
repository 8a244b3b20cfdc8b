// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-feldman.
//
// go-feldman is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package sharestore persists dealings (public parameters, commitments and
// encoded shares) through a storage.Backend. Loading returns exactly what
// was saved.
package sharestore

import (
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-feldman/pkg/encoding"
	"github.com/jeremyhahn/go-feldman/pkg/storage"
	"github.com/jeremyhahn/go-feldman/pkg/vss"
)

// Store reads and writes dealings by name.
type Store struct {
	backend storage.Backend
}

// New wraps a backend.
func New(backend storage.Backend) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("sharestore: backend is required")
	}
	return &Store{backend: backend}, nil
}

// Backend returns the underlying storage backend.
func (s *Store) Backend() storage.Backend {
	return s.backend
}

// Exists reports whether a dealing has public parameters stored.
func (s *Store) Exists(name string) (bool, error) {
	if err := storage.ValidateName(name); err != nil {
		return false, err
	}
	return s.backend.Exists(storage.PublicPath(name))
}

// SaveParameters writes {name}/public.json.
func (s *Store) SaveParameters(name string, pp *vss.PublicParameters) error {
	if err := storage.ValidateName(name); err != nil {
		return err
	}
	data, err := encoding.MarshalPublicParameters(pp)
	if err != nil {
		return err
	}
	if err := s.backend.Put(storage.PublicPath(name), data, storage.PublicOptions()); err != nil {
		return fmt.Errorf("sharestore: save parameters for %q: %w", name, err)
	}
	return nil
}

// LoadParameters reads and validates {name}/public.json.
func (s *Store) LoadParameters(name string) (*vss.PublicParameters, error) {
	data, err := s.get(name, storage.PublicPath(name))
	if err != nil {
		return nil, err
	}
	pp, err := encoding.UnmarshalPublicParameters(data)
	if err != nil {
		return nil, fmt.Errorf("sharestore: %s: %w", storage.PublicPath(name), err)
	}
	return pp, nil
}

// SaveCommitments writes {name}/commitments.json.
func (s *Store) SaveCommitments(name string, c vss.Commitments) error {
	if err := storage.ValidateName(name); err != nil {
		return err
	}
	data, err := encoding.MarshalCommitments(c)
	if err != nil {
		return err
	}
	if err := s.backend.Put(storage.CommitmentsPath(name), data, storage.PublicOptions()); err != nil {
		return fmt.Errorf("sharestore: save commitments for %q: %w", name, err)
	}
	return nil
}

// LoadCommitments reads {name}/commitments.json. A dealing without stored
// commitments yields vss.ErrMissingCommitments.
func (s *Store) LoadCommitments(name string) (vss.Commitments, error) {
	data, err := s.get(name, storage.CommitmentsPath(name))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", vss.ErrMissingCommitments, storage.CommitmentsPath(name))
	}
	if err != nil {
		return nil, err
	}
	c, err := encoding.UnmarshalCommitments(data)
	if err != nil {
		return nil, fmt.Errorf("sharestore: %s: %w", storage.CommitmentsPath(name), err)
	}
	return c, nil
}

// SaveShare writes one encoded share blob to {name}/shares/{index}.share
// with owner-only permissions.
func (s *Store) SaveShare(name string, index int, blob string) error {
	if err := storage.ValidateName(name); err != nil {
		return err
	}
	if index < 1 {
		return &vss.IndexError{Index: index, Reason: "must be >= 1"}
	}
	if err := s.backend.Put(storage.SharePath(name, index), []byte(blob), storage.SecretOptions()); err != nil {
		return fmt.Errorf("sharestore: save share %d for %q: %w", index, name, err)
	}
	return nil
}

// SaveShares encodes and writes every share of a dealing.
func (s *Store) SaveShares(name string, shares []vss.Share, width int) error {
	for _, share := range shares {
		blob, err := encoding.EncodeShare(share, width)
		if err != nil {
			return err
		}
		if err := s.SaveShare(name, share.Index, blob); err != nil {
			return err
		}
	}
	return nil
}

// LoadShare returns the stored blob for one index.
func (s *Store) LoadShare(name string, index int) (string, error) {
	data, err := s.get(name, storage.SharePath(name, index))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// LoadShares returns the blobs for indexes in the order requested. A nil
// or empty indexes slice loads every stored share in ascending index order.
func (s *Store) LoadShares(name string, indexes []int) ([]string, error) {
	if len(indexes) == 0 {
		var err error
		indexes, err = s.ListShareIndexes(name)
		if err != nil {
			return nil, err
		}
	}

	blobs := make([]string, 0, len(indexes))
	for _, index := range indexes {
		blob, err := s.LoadShare(name, index)
		if err != nil {
			return nil, err
		}
		blobs = append(blobs, blob)
	}
	return blobs, nil
}

// ListShareIndexes returns the indexes of all stored shares of a dealing.
func (s *Store) ListShareIndexes(name string) ([]int, error) {
	if err := storage.ValidateName(name); err != nil {
		return nil, err
	}
	return storage.ListShareIndexes(s.backend, name)
}

// List returns the names of all stored dealings.
func (s *Store) List() ([]string, error) {
	return storage.ListDealings(s.backend)
}

// Delete removes every key belonging to a dealing.
func (s *Store) Delete(name string) error {
	if err := storage.ValidateName(name); err != nil {
		return err
	}
	keys, err := s.backend.List(name + "/")
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return fmt.Errorf("sharestore: dealing %q: %w", name, storage.ErrNotFound)
	}
	for _, key := range keys {
		if err := s.backend.Delete(key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("sharestore: delete %s: %w", key, err)
		}
	}
	return nil
}

// Close closes the underlying backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) get(name, key string) ([]byte, error) {
	if err := storage.ValidateName(name); err != nil {
		return nil, err
	}
	data, err := s.backend.Get(key)
	if err != nil {
		return nil, fmt.Errorf("sharestore: %s: %w", key, err)
	}
	return data, nil
}
