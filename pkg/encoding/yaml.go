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

package encoding

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/jeremyhahn/go-feldman/pkg/vss"
	"gopkg.in/yaml.v3"
)

// PublicParametersView is the human-readable form of public parameters.
// Integers are rendered as decimal strings.
type PublicParametersView struct {
	P         string `yaml:"p" json:"p"`
	Q         string `yaml:"q" json:"q"`
	G         string `yaml:"g" json:"g"`
	K         int    `yaml:"k" json:"k"`
	Bits      int    `yaml:"bits" json:"bits"`
	MaxSecret int    `yaml:"max_secret_bytes" json:"max_secret_bytes"`
}

// ViewPublicParameters builds the human-readable view.
func ViewPublicParameters(pp *vss.PublicParameters) PublicParametersView {
	return PublicParametersView{
		P:         pp.Field.P().String(),
		Q:         pp.Field.Q().String(),
		G:         pp.Field.G().String(),
		K:         pp.Threshold,
		Bits:      pp.Field.BitLen(),
		MaxSecret: pp.Field.MaxSecretBytes(),
	}
}

// MarshalPublicParametersYAML renders public parameters as YAML.
func MarshalPublicParametersYAML(pp *vss.PublicParameters) ([]byte, error) {
	if pp == nil || pp.Field == nil {
		return nil, fmt.Errorf("%w: public parameters are nil", ErrInvalidData)
	}
	return yaml.Marshal(ViewPublicParameters(pp))
}

// yamlPublicRecord is the strict YAML input layout: {p, q, g, k} plus the
// optional derived fields written by MarshalPublicParametersYAML.
type yamlPublicRecord struct {
	P         *string `yaml:"p"`
	Q         *string `yaml:"q"`
	G         *string `yaml:"g"`
	K         *int    `yaml:"k"`
	Bits      *int    `yaml:"bits"`
	MaxSecret *int    `yaml:"max_secret_bytes"`
}

// UnmarshalPublicParametersYAML parses public parameters from YAML with the
// same strictness as the JSON form. Derived fields, when present, must
// match the decoded group.
func UnmarshalPublicParametersYAML(data []byte) (*vss.PublicParameters, error) {
	var rec yamlPublicRecord
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %w: %v", vss.ErrInvalidParameters, ErrInvalidData, err)
	}
	if rec.P == nil || rec.Q == nil || rec.G == nil || rec.K == nil {
		return nil, fmt.Errorf("%w: %w: p, q, g and k are required", vss.ErrInvalidParameters, ErrMissingField)
	}

	names := []string{"p", "q", "g"}
	values := make([]*big.Int, len(names))
	for i, s := range []string{*rec.P, *rec.Q, *rec.G} {
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("%w: %w: %s is not a decimal integer", vss.ErrInvalidParameters, ErrInvalidData, names[i])
		}
		values[i] = n
	}

	field, err := vss.NewFieldParameters(values[0], values[1], values[2])
	if err != nil {
		return nil, err
	}
	if rec.Bits != nil && *rec.Bits != field.BitLen() {
		return nil, fmt.Errorf("%w: %w: bits is %d, p has %d bits",
			vss.ErrInvalidParameters, ErrInvalidData, *rec.Bits, field.BitLen())
	}
	if rec.MaxSecret != nil && *rec.MaxSecret != field.MaxSecretBytes() {
		return nil, fmt.Errorf("%w: %w: max_secret_bytes is %d, expected %d",
			vss.ErrInvalidParameters, ErrInvalidData, *rec.MaxSecret, field.MaxSecretBytes())
	}
	pp, err := vss.NewPublicParameters(field, *rec.K)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", vss.ErrInvalidParameters, err)
	}
	return pp, nil
}
