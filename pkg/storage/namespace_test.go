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

package storage_test

import (
	"errors"
	"testing"

	"github.com/jeremyhahn/go-feldman/pkg/storage"
	"github.com/jeremyhahn/go-feldman/pkg/storage/memory"
)

func TestPaths(t *testing.T) {
	if got := storage.PublicPath("db"); got != "db/public.json" {
		t.Errorf("PublicPath() = %q", got)
	}
	if got := storage.CommitmentsPath("db"); got != "db/commitments.json" {
		t.Errorf("CommitmentsPath() = %q", got)
	}
	if got := storage.SharePath("db", 7); got != "db/shares/7.share" {
		t.Errorf("SharePath() = %q", got)
	}
	if got := storage.SharesPrefix("db"); got != "db/shares/" {
		t.Errorf("SharesPrefix() = %q", got)
	}
}

func TestIsSharePath(t *testing.T) {
	tests := map[string]bool{
		"db/shares/1.share":   true,
		"db/public.json":      false,
		"db/commitments.json": false,
		"db/shares/notes.txt": false,
	}
	for key, want := range tests {
		if got := storage.IsSharePath(key); got != want {
			t.Errorf("IsSharePath(%q) = %v, want %v", key, got, want)
		}
		if want && storage.IsPublicPath(key) {
			t.Errorf("IsPublicPath(%q) = true for a share", key)
		}
	}
	if !storage.IsPublicPath("db/public.json") || !storage.IsPublicPath("db/commitments.json") {
		t.Error("IsPublicPath() should match public records")
	}
}

func TestValidateName(t *testing.T) {
	valid := []string{"db", "prod-db.v2", "A_1"}
	invalid := []string{"", ".", "..", "a/b", "-lead", ".hidden", "a b"}

	for _, name := range valid {
		if err := storage.ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) error = %v", name, err)
		}
	}
	for _, name := range invalid {
		if err := storage.ValidateName(name); !errors.Is(err, storage.ErrInvalidKey) {
			t.Errorf("ValidateName(%q) error = %v, want ErrInvalidKey", name, err)
		}
	}
}

func TestValidateKey(t *testing.T) {
	if err := storage.ValidateKey("db/shares/1.share"); err != nil {
		t.Errorf("ValidateKey() error = %v", err)
	}
	for _, key := range []string{"", "/x", "x/../y", "x\x00", `x\y`} {
		if err := storage.ValidateKey(key); !errors.Is(err, storage.ErrInvalidKey) {
			t.Errorf("ValidateKey(%q) error = %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestListShareIndexes(t *testing.T) {
	backend := memory.New()
	for _, key := range []string{
		"db/shares/10.share",
		"db/shares/2.share",
		"db/shares/1.share",
		"db/shares/zero.share",
		"db/shares/0.share",
		"db/shares/readme.txt",
		"other/shares/3.share",
	} {
		_ = backend.Put(key, []byte("x"), nil)
	}

	indexes, err := storage.ListShareIndexes(backend, "db")
	if err != nil {
		t.Fatalf("ListShareIndexes() error = %v", err)
	}
	want := []int{1, 2, 10}
	if len(indexes) != len(want) {
		t.Fatalf("ListShareIndexes() = %v, want %v", indexes, want)
	}
	for i := range want {
		if indexes[i] != want[i] {
			t.Errorf("ListShareIndexes() = %v, want %v", indexes, want)
		}
	}
}

func TestListDealings(t *testing.T) {
	backend := memory.New()
	_ = backend.Put("db/public.json", []byte("{}"), nil)
	_ = backend.Put("web/public.json", []byte("{}"), nil)
	_ = backend.Put("orphan/shares/1.share", []byte("x"), nil)
	_ = backend.Put("nested/deep/public.json", []byte("{}"), nil)

	names, err := storage.ListDealings(backend)
	if err != nil {
		t.Fatalf("ListDealings() error = %v", err)
	}
	if len(names) != 2 || names[0] != "db" || names[1] != "web" {
		t.Errorf("ListDealings() = %v, want [db web]", names)
	}
}
