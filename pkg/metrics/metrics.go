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

// Package metrics provides Prometheus instrumentation for go-feldman
// operations: dealing, verification, recovery and parameter generation.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the Prometheus namespace for all go-feldman metrics
	Namespace = "feldman"

	// Label names
	LabelOperation = "operation"
	LabelStatus    = "status"
	LabelErrorType = "error_type"
	LabelResult    = "result"

	// Status values
	StatusSuccess = "success"
	StatusError   = "error"

	// Verification results
	ResultValid     = "valid"
	ResultInvalid   = "invalid"
	ResultMalformed = "malformed"

	// Operation names
	OpGenerateParameters = "generate_parameters"
	OpSplit              = "split"
	OpVerify             = "verify"
	OpRecover            = "recover"
	OpLoad               = "load"
	OpSave               = "save"
)

var (
	// OperationsTotal tracks the total number of operations by type and status.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Total number of secret sharing operations by type and status",
		},
		[]string{LabelOperation, LabelStatus},
	)

	// OperationDuration tracks the duration of operations in seconds.
	// Parameter generation dominates the upper buckets.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of secret sharing operations in seconds",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5, 10, 30, 60},
		},
		[]string{LabelOperation},
	)

	// ErrorsTotal tracks errors by operation and error type.
	// Error types come from ErrorType.
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "errors_total",
			Help:      "Total number of errors by operation and error type",
		},
		[]string{LabelOperation, LabelErrorType},
	)

	// VerificationsTotal counts share verifications by result.
	VerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "verifications_total",
			Help:      "Total number of share verifications by result",
		},
		[]string{LabelResult},
	)

	// ParameterTrials observes how many candidates the safe prime search
	// consumed before succeeding.
	ParameterTrials = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "parameter_trials",
			Help:      "Number of candidates tried per safe prime search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		},
	)

	// enabled tracks whether metrics collection is enabled
	enabled atomic.Bool
)

func init() {
	// Metrics are enabled by default
	enabled.Store(true)
}

// RecordOperation records an operation with its duration in seconds and
// its status (use the Status* constants).
func RecordOperation(operation, status string, duration float64) {
	if !enabled.Load() {
		return
	}
	OperationsTotal.WithLabelValues(operation, status).Inc()
	OperationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordError records an error event. Use ErrorType to derive errorType
// from an error value.
//
// Example:
//
//	if err != nil {
//	    metrics.RecordError(metrics.OpRecover, metrics.ErrorType(err))
//	}
func RecordError(operation, errorType string) {
	if !enabled.Load() {
		return
	}
	ErrorsTotal.WithLabelValues(operation, errorType).Inc()
}

// RecordVerification records the outcome of a single share verification.
func RecordVerification(result string) {
	if !enabled.Load() {
		return
	}
	VerificationsTotal.WithLabelValues(result).Inc()
}

// RecordParameterTrials records the number of candidates a successful
// parameter search needed.
func RecordParameterTrials(trials int) {
	if !enabled.Load() {
		return
	}
	ParameterTrials.Observe(float64(trials))
}

// WriteTextfile writes the default registry in the Prometheus text format
// to path, for collection by the node exporter textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

// Enable enables metrics collection.
func Enable() {
	enabled.Store(true)
}

// Disable disables metrics collection.
// Useful for testing or when metrics are not desired.
func Disable() {
	enabled.Store(false)
}

// IsEnabled returns whether metrics collection is currently enabled.
func IsEnabled() bool {
	return enabled.Load()
}
