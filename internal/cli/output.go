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

package cli

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jeremyhahn/go-feldman/pkg/encoding"
	"gopkg.in/yaml.v3"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// ValidateOutputFormat rejects unknown --output values.
func ValidateOutputFormat(format string) error {
	switch OutputFormat(format) {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format: %s (must be text, json or yaml)", format)
	}
}

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(format),
		writer: writer,
	}
}

// ParametersResult describes stored public parameters.
type ParametersResult struct {
	Name                          string `json:"name" yaml:"name"`
	encoding.PublicParametersView `yaml:",inline"`
}

// DealingResult describes a completed split.
type DealingResult struct {
	Name      string   `json:"name" yaml:"name"`
	SessionID string   `json:"session_id" yaml:"session_id"`
	Threshold int      `json:"threshold" yaml:"threshold"`
	Total     int      `json:"total" yaml:"total"`
	Bits      int      `json:"bits" yaml:"bits"`
	Width     int      `json:"width" yaml:"width"`
	Indexes   []int    `json:"indexes" yaml:"indexes"`
	Shares    []string `json:"shares,omitempty" yaml:"shares,omitempty"`
}

// ShareStatus is the verification outcome for one share.
type ShareStatus struct {
	Index  int    `json:"index" yaml:"index"`
	Status string `json:"status" yaml:"status"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// VerifyReport describes a verify run.
type VerifyReport struct {
	Name    string        `json:"name" yaml:"name"`
	Valid   bool          `json:"valid" yaml:"valid"`
	Results []ShareStatus `json:"results" yaml:"results"`
}

// RecoverResult describes a recovered secret.
type RecoverResult struct {
	Name         string `json:"name" yaml:"name"`
	Indexes      []int  `json:"indexes" yaml:"indexes"`
	Width        int    `json:"width" yaml:"width"`
	Verified     bool   `json:"verified" yaml:"verified"`
	Secret       string `json:"secret,omitempty" yaml:"secret,omitempty"`
	SecretBase64 string `json:"secret_base64,omitempty" yaml:"secret_base64,omitempty"`
	OutFile      string `json:"out_file,omitempty" yaml:"out_file,omitempty"`
}

// DealingSummary is one entry of the list command.
type DealingSummary struct {
	Name           string `json:"name" yaml:"name"`
	Threshold      int    `json:"threshold" yaml:"threshold"`
	Bits           int    `json:"bits" yaml:"bits"`
	HasCommitments bool   `json:"has_commitments" yaml:"has_commitments"`
	Shares         []int  `json:"shares" yaml:"shares"`
}

// NewRecoverResult fills the secret fields. Text mode shows the secret as
// is when it is valid UTF-8 and base64 otherwise.
func NewRecoverResult(name string, indexes []int, width int, verified bool, secret []byte) *RecoverResult {
	r := &RecoverResult{
		Name:         name,
		Indexes:      indexes,
		Width:        width,
		Verified:     verified,
		SecretBase64: base64.StdEncoding.EncodeToString(secret),
	}
	if utf8.Valid(secret) {
		r.Secret = string(secret)
	}
	return r
}

// PrintParameters prints public parameters
func (p *Printer) PrintParameters(result *ParametersResult) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(result)
	case OutputFormatYAML:
		return p.printYAML(result)
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Dealing: %s\n", result.Name)
		fmt.Fprintf(p.writer, "  Threshold:        %d\n", result.K)
		fmt.Fprintf(p.writer, "  Bits:             %d\n", result.Bits)
		fmt.Fprintf(p.writer, "  Max secret bytes: %d\n", result.MaxSecret)
		fmt.Fprintf(p.writer, "  p: %s\n", result.P)
		fmt.Fprintf(p.writer, "  q: %s\n", result.Q)
		fmt.Fprintf(p.writer, "  g: %s\n", result.G)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintDealing prints the result of a split
func (p *Printer) PrintDealing(result *DealingResult) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(result)
	case OutputFormatYAML:
		return p.printYAML(result)
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Dealing: %s\n", result.Name)
		fmt.Fprintf(p.writer, "  Session:   %s\n", result.SessionID)
		fmt.Fprintf(p.writer, "  Threshold: %d of %d\n", result.Threshold, result.Total)
		fmt.Fprintf(p.writer, "  Bits:      %d\n", result.Bits)
		fmt.Fprintf(p.writer, "  Width:     %d bytes\n", result.Width)
		fmt.Fprintf(p.writer, "  Shares:    %s\n", joinInts(result.Indexes))
		for i, blob := range result.Shares {
			fmt.Fprintf(p.writer, "  [%d] %s\n", result.Indexes[i], blob)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintVerifyReport prints per-share verification results
func (p *Printer) PrintVerifyReport(report *VerifyReport) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(report)
	case OutputFormatYAML:
		return p.printYAML(report)
	case OutputFormatText:
		for _, r := range report.Results {
			if r.Error != "" {
				fmt.Fprintf(p.writer, "share %d: %s (%s)\n", r.Index, r.Status, r.Error)
				continue
			}
			fmt.Fprintf(p.writer, "share %d: %s\n", r.Index, r.Status)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintRecovered prints a recovered secret
func (p *Printer) PrintRecovered(result *RecoverResult) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(result)
	case OutputFormatYAML:
		return p.printYAML(result)
	case OutputFormatText:
		switch {
		case result.OutFile != "":
			fmt.Fprintf(p.writer, "Secret written to %s (%d bytes)\n", result.OutFile, result.Width)
		case result.Secret != "":
			fmt.Fprintln(p.writer, result.Secret)
		default:
			fmt.Fprintln(p.writer, result.SecretBase64)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintDealingList prints stored dealings
func (p *Printer) PrintDealingList(dealings []DealingSummary) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"dealings": dealings,
		})
	case OutputFormatYAML:
		return p.printYAML(map[string]interface{}{
			"dealings": dealings,
		})
	case OutputFormatText:
		if len(dealings) == 0 {
			fmt.Fprintln(p.writer, "No dealings found")
			return nil
		}
		fmt.Fprintf(p.writer, "%-30s %-10s %-6s %-12s %s\n", "NAME", "THRESHOLD", "BITS", "COMMITMENTS", "SHARES")
		fmt.Fprintln(p.writer, strings.Repeat("-", 72))
		for _, d := range dealings {
			fmt.Fprintf(p.writer, "%-30s %-10d %-6d %-12t %s\n",
				d.Name, d.Threshold, d.Bits, d.HasCommitments, joinInts(d.Shares))
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintSuccess prints a success message
func (p *Printer) PrintSuccess(message string) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status":  "success",
			"message": message,
		})
	case OutputFormatYAML:
		return p.printYAML(map[string]interface{}{
			"status":  "success",
			"message": message,
		})
	case OutputFormatText:
		fmt.Fprintln(p.writer, message)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintError prints an error message
func (p *Printer) PrintError(err error) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		})
	case OutputFormatYAML:
		return p.printYAML(map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		})
	default:
		fmt.Fprintf(p.writer, "Error: %v\n", err)
		return nil
	}
}

// printJSON prints data as indented JSON
func (p *Printer) printJSON(data interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// printYAML prints data as YAML
func (p *Printer) printYAML(data interface{}) error {
	encoder := yaml.NewEncoder(p.writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}
