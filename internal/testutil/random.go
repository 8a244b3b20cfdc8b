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

// Package testutil provides fixtures shared by the package tests.
package testutil

import (
	"crypto/sha256"
	"io"
	"sync"

	"golang.org/x/crypto/chacha20"
)

// DeterministicReader is a reproducible io.Reader backed by a ChaCha20
// keystream. It exists so tests can build fixed fixtures; it must never be
// used as a production randomness source.
type DeterministicReader struct {
	mu     sync.Mutex
	cipher *chacha20.Cipher
}

// NewDeterministicReader returns a reader whose output depends only on seed.
func NewDeterministicReader(seed string) *DeterministicReader {
	key := sha256.Sum256([]byte(seed))
	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce)
	if err != nil {
		panic("testutil: failed to create chacha20 cipher: " + err.Error())
	}
	return &DeterministicReader{cipher: c}
}

// Read fills p with keystream bytes. It never fails.
func (r *DeterministicReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(p)
	r.cipher.XORKeyStream(p, p)
	return len(p), nil
}

// FailingReader returns err from every Read.
type FailingReader struct {
	Err error
}

// Read implements io.Reader.
func (r FailingReader) Read(p []byte) (int, error) {
	if r.Err == nil {
		return 0, io.ErrUnexpectedEOF
	}
	return 0, r.Err
}
