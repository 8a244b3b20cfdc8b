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

//go:build pkcs11

package entropy

import (
	"fmt"
	"sync"

	"github.com/miekg/pkcs11"
)

// pkcs11Resolver reads from an HSM via C_GenerateRandom.
type pkcs11Resolver struct {
	ctx      *pkcs11.Ctx
	session  pkcs11.SessionHandle
	loggedIn bool
	mu       sync.RWMutex
}

var _ Resolver = (*pkcs11Resolver)(nil)

func newPKCS11Resolver(config *PKCS11Config) (Resolver, error) {
	if config == nil || config.Module == "" {
		return nil, fmt.Errorf("%w: PKCS#11 module path is required", ErrUnavailable)
	}

	ctx := pkcs11.New(config.Module)
	if ctx == nil {
		return nil, fmt.Errorf("%w: failed to load PKCS#11 module %s", ErrUnavailable, config.Module)
	}
	if err := ctx.Initialize(); err != nil {
		ctx.Destroy()
		return nil, fmt.Errorf("%w: failed to initialize PKCS#11: %v", ErrUnavailable, err)
	}

	// Some tokens only activate slots after C_GetSlotList
	if _, err := ctx.GetSlotList(true); err != nil {
		ctx.Finalize()
		ctx.Destroy()
		return nil, fmt.Errorf("%w: failed to get PKCS#11 slot list: %v", ErrUnavailable, err)
	}

	session, err := ctx.OpenSession(config.SlotID, pkcs11.CKF_SERIAL_SESSION)
	if err != nil {
		ctx.Finalize()
		ctx.Destroy()
		return nil, fmt.Errorf("%w: failed to open PKCS#11 session: %v", ErrUnavailable, err)
	}

	loggedIn := false
	if config.PIN != "" {
		if err := ctx.Login(session, pkcs11.CKU_USER, config.PIN); err != nil {
			_ = ctx.CloseSession(session)
			ctx.Finalize()
			ctx.Destroy()
			return nil, fmt.Errorf("%w: PKCS#11 login failed: %v", ErrUnavailable, err)
		}
		loggedIn = true
	}

	return &pkcs11Resolver{ctx: ctx, session: session, loggedIn: loggedIn}, nil
}

func pkcs11Available() bool {
	return true
}

func (p *pkcs11Resolver) Read(b []byte) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.ctx == nil {
		return 0, ErrClosed
	}
	return readChunked(b, 0, func(n int) ([]byte, error) {
		data, err := p.ctx.GenerateRandom(p.session, n)
		if err != nil {
			return nil, fmt.Errorf("PKCS#11 random generation failed: %w", err)
		}
		return data, nil
	})
}

func (p *pkcs11Resolver) Mode() Mode {
	return ModePKCS11
}

func (p *pkcs11Resolver) Available() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ctx != nil
}

func (p *pkcs11Resolver) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctx == nil {
		return nil
	}
	if p.loggedIn {
		_ = p.ctx.Logout(p.session)
	}
	err := p.ctx.CloseSession(p.session)
	p.ctx.Finalize()
	p.ctx.Destroy()
	p.ctx = nil
	return err
}
