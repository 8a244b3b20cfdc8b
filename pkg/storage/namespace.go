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

package storage

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	publicFile      = "public.json"
	commitmentsFile = "commitments.json"
	sharesDir       = "shares"
	shareExt        = ".share"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidateName checks that a dealing name is a single safe path element.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) || name == "." || name == ".." {
		return fmt.Errorf("%w: dealing name %q", ErrInvalidKey, name)
	}
	return nil
}

// ValidateKey allows slash-separated keys but rejects anything that could
// resolve outside a backend's root.
func ValidateKey(key string) error {
	var reason string
	switch {
	case key == "":
		reason = "key cannot be empty"
	case strings.Contains(key, "\x00"):
		reason = "key contains null byte"
	case strings.HasPrefix(key, "/"):
		reason = "key cannot be an absolute path"
	case strings.Contains(key, `\`):
		reason = "key contains a backslash"
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." {
			reason = "key contains path traversal attempt"
		}
	}
	if reason != "" {
		return fmt.Errorf("%w: %s", ErrInvalidKey, reason)
	}
	return nil
}

// PublicPath returns the key of a dealing's public parameters:
// {name}/public.json
func PublicPath(name string) string {
	return path.Join(name, publicFile)
}

// CommitmentsPath returns the key of a dealing's commitments:
// {name}/commitments.json
func CommitmentsPath(name string) string {
	return path.Join(name, commitmentsFile)
}

// SharePath returns the key of a single share: {name}/shares/{index}.share
func SharePath(name string, index int) string {
	return path.Join(name, sharesDir, strconv.Itoa(index)+shareExt)
}

// SharesPrefix returns the prefix under which a dealing's shares live.
func SharesPrefix(name string) string {
	return path.Join(name, sharesDir) + "/"
}

// IsSharePath reports whether key addresses share material.
func IsSharePath(key string) bool {
	dir, file := path.Split(key)
	return strings.HasSuffix(dir, sharesDir+"/") && strings.HasSuffix(file, shareExt)
}

// IsPublicPath reports whether key addresses a dealing's public
// parameters or commitments.
func IsPublicPath(key string) bool {
	switch path.Base(key) {
	case publicFile, commitmentsFile:
		return true
	}
	return false
}

// ListShareIndexes returns the indexes of all stored shares of a dealing in
// ascending order. Files that do not parse as an index are skipped.
func ListShareIndexes(backend Backend, name string) ([]int, error) {
	keys, err := backend.List(SharesPrefix(name))
	if err != nil {
		return nil, err
	}

	indexes := make([]int, 0, len(keys))
	for _, k := range keys {
		base := strings.TrimSuffix(path.Base(k), shareExt)
		if base == path.Base(k) {
			continue
		}
		i, err := strconv.Atoi(base)
		if err != nil || i < 1 {
			continue
		}
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	return indexes, nil
}

// ListDealings returns the names of all dealings that have public
// parameters stored.
func ListDealings(backend Backend) ([]string, error) {
	keys, err := backend.List("")
	if err != nil {
		return nil, err
	}

	names := make([]string, 0)
	for _, k := range keys {
		dir, file := path.Split(k)
		if file != publicFile {
			continue
		}
		name := strings.TrimSuffix(dir, "/")
		if name != "" && !strings.Contains(name, "/") {
			names = append(names, name)
		}
	}
	return names, nil
}
