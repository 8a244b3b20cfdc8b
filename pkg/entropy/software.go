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

package entropy

import (
	"crypto/rand"
	"sync"
)

// softwareResolver reads from crypto/rand.
type softwareResolver struct{}

var _ Resolver = (*softwareResolver)(nil)

func newSoftwareResolver() Resolver {
	return &softwareResolver{}
}

func (s *softwareResolver) Read(p []byte) (int, error) {
	return rand.Read(p)
}

func (s *softwareResolver) Mode() Mode {
	return ModeSoftware
}

func (s *softwareResolver) Available() bool {
	return true
}

func (s *softwareResolver) Close() error {
	return nil
}

// fallbackResolver retries a failed read on the fallback source.
type fallbackResolver struct {
	primary  Resolver
	fallback Resolver
	mu       sync.RWMutex
}

var _ Resolver = (*fallbackResolver)(nil)

func (f *fallbackResolver) Read(p []byte) (int, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	n, err := f.primary.Read(p)
	if err == nil {
		return n, nil
	}
	return f.fallback.Read(p)
}

// Mode reports the primary source.
func (f *fallbackResolver) Mode() Mode {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.primary.Mode()
}

func (f *fallbackResolver) Available() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.primary.Available() || f.fallback.Available()
}

func (f *fallbackResolver) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := f.primary.Close()
	if fbErr := f.fallback.Close(); err == nil {
		err = fbErr
	}
	return err
}
