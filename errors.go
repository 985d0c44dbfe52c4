// errors.go: comprehensive error handling for reclaim tracker operations
//
// This file provides structured error types using the go-errors library,
// enabling rich error context, categorization, and standardized error codes
// for construction-time misconfiguration, allocation failure, and internal
// assertion failures. Per spec.md §7, duplicate-insert / missing-delete are
// NOT errors (they are represented as a plain bool return) and contention
// is invisible (handled by internal retry loops) -- only the cases below
// ever surface an error value.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package reclaim

import (
	goerrors "errors"
	"fmt"

	"github.com/agilira/go-errors"
)

// Error codes for reclaim tracker operations
const (
	// Configuration errors (1xxx)
	ErrCodeInvalidConfig    errors.ErrorCode = "RECLAIM_INVALID_CONFIG"
	ErrCodeInvalidTaskNum   errors.ErrorCode = "RECLAIM_INVALID_TASK_NUM"
	ErrCodeInvalidPolicy    errors.ErrorCode = "RECLAIM_INVALID_POLICY"
	ErrCodeInvalidEpochFreq errors.ErrorCode = "RECLAIM_INVALID_EPOCH_FREQ"
	ErrCodeInvalidSlotNum   errors.ErrorCode = "RECLAIM_INVALID_SLOT_NUM"

	// Operation errors (2xxx)
	ErrCodeAllocFailed  errors.ErrorCode = "RECLAIM_ALLOC_FAILED"
	ErrCodeTidOutOfRange errors.ErrorCode = "RECLAIM_TID_OUT_OF_RANGE"

	// Internal errors (5xxx)
	ErrCodeInternalError  errors.ErrorCode = "RECLAIM_INTERNAL_ERROR"
	ErrCodePanicRecovered errors.ErrorCode = "RECLAIM_PANIC_RECOVERED"
)

// Common error messages
const (
	msgInvalidTaskNum   = "invalid task_num: must be greater than 0"
	msgInvalidPolicy    = "invalid policy: not one of the known tracker policy tags"
	msgInvalidEpochFreq = "invalid epoch_freq: must be greater than 0"
	msgInvalidSlotNum   = "invalid slot_num: must be greater than 0"
	msgAllocFailed      = "tracker failed to allocate a node"
	msgTidOutOfRange    = "tid is out of range [0, task_num)"
	msgInternalError    = "internal tracker error"
	msgPanicRecovered   = "panic recovered in tracker operation"
)

// =============================================================================
// CONFIGURATION ERRORS
// =============================================================================

// NewErrInvalidTaskNum creates an error for a non-positive task_num.
func NewErrInvalidTaskNum(taskNum int) error {
	return errors.NewWithContext(ErrCodeInvalidTaskNum, msgInvalidTaskNum, map[string]interface{}{
		"provided_task_num": taskNum,
		"minimum_required":  1,
	})
}

// NewErrInvalidPolicy creates an error for an unrecognized policy tag.
func NewErrInvalidPolicy(policy Policy) error {
	return errors.NewWithContext(ErrCodeInvalidPolicy, msgInvalidPolicy, map[string]interface{}{
		"provided_policy": int(policy),
	})
}

// NewErrInvalidEpochFreq creates an error for a non-positive epoch_freq.
func NewErrInvalidEpochFreq(epochFreq int) error {
	return errors.NewWithContext(ErrCodeInvalidEpochFreq, msgInvalidEpochFreq, map[string]interface{}{
		"provided_epoch_freq": epochFreq,
	})
}

// NewErrInvalidSlotNum creates an error for a non-positive slot_num.
func NewErrInvalidSlotNum(slotNum int) error {
	return errors.NewWithContext(ErrCodeInvalidSlotNum, msgInvalidSlotNum, map[string]interface{}{
		"provided_slot_num": slotNum,
	})
}

// =============================================================================
// OPERATION ERRORS
// =============================================================================

// NewErrAllocFailed creates an error when the host allocator cannot supply
// storage for a new node.
func NewErrAllocFailed(tid int, cause error) error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeAllocFailed, msgAllocFailed).
			WithContext("tid", tid).
			AsRetryable()
	}
	return errors.NewWithField(ErrCodeAllocFailed, msgAllocFailed, "tid", tid).AsRetryable()
}

// NewErrTidOutOfRange creates an error for a caller-supplied tid outside
// [0, task_num). Per spec.md §7 this is a caller contract violation;
// debug builds are expected to assert instead of returning this. No code
// in this package returns it.
func NewErrTidOutOfRange(tid int, taskNum int) error {
	return errors.NewWithContext(ErrCodeTidOutOfRange, msgTidOutOfRange, map[string]interface{}{
		"tid":      tid,
		"task_num": taskNum,
	})
}

// =============================================================================
// INTERNAL ERRORS
// =============================================================================

// NewErrInternal creates a generic internal error.
func NewErrInternal(operation string, cause error) error {
	if cause != nil {
		return errors.Wrap(cause, ErrCodeInternalError, msgInternalError).
			WithContext("operation", operation).
			WithSeverity("warning")
	}
	return errors.NewWithField(ErrCodeInternalError, msgInternalError, "operation", operation).
		WithSeverity("warning")
}

// NewErrPanicRecovered creates an error when a panic is recovered.
func NewErrPanicRecovered(operation string, panicValue interface{}) error {
	return errors.NewWithContext(ErrCodePanicRecovered, msgPanicRecovered, map[string]interface{}{
		"operation":   operation,
		"panic_value": fmt.Sprintf("%v", panicValue),
	}).WithSeverity("critical")
}

// =============================================================================
// ERROR CHECKING HELPERS
// =============================================================================

// IsConfigError checks if error is a configuration error.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeInvalidConfig || code == ErrCodeInvalidTaskNum ||
			code == ErrCodeInvalidPolicy || code == ErrCodeInvalidEpochFreq ||
			code == ErrCodeInvalidSlotNum
	}
	return false
}

// IsAllocFailed checks if error is an allocation failure.
func IsAllocFailed(err error) bool {
	return errors.HasCode(err, ErrCodeAllocFailed)
}

// IsTidOutOfRange checks if error is an out-of-range tid error.
func IsTidOutOfRange(err error) bool {
	return errors.HasCode(err, ErrCodeTidOutOfRange)
}

// IsRetryable checks if the error can be retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var retryable errors.Retryable
	if goerrors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts context from an error.
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var reclaimErr *errors.Error
	if goerrors.As(err, &reclaimErr) {
		return reclaimErr.Context
	}
	return nil
}
