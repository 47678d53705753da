package stakeledger

import (
	"errors"
	"fmt"

	"github.com/xraph/stakeledger/types"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("stakeledger: not found")
	ErrAlreadyExists = errors.New("stakeledger: already exists")
	ErrUnauthorized  = errors.New("stakeledger: unauthorized")
	ErrNotConfigured = errors.New("stakeledger: ledger not configured")
	ErrNotStarted    = errors.New("stakeledger: ledger not started")

	// Staking errors
	ErrInvalidAccount    = errors.New("stakeledger: invalid account")
	ErrInvalidAmount     = errors.New("stakeledger: invalid amount")
	ErrInsufficientStake = errors.New("stakeledger: withdraw exceeds staked principal")
	ErrLockPeriodActive  = errors.New("stakeledger: minimum staking period not elapsed")
	ErrNoStake           = errors.New("stakeledger: account has no stake")

	// Reward schedule errors
	ErrRateTooLow  = errors.New("stakeledger: computed reward rate is zero")
	ErrInvalidRate = errors.New("stakeledger: invalid reward rate")

	// Custody errors
	ErrInsufficientFunds = errors.New("stakeledger: insufficient funds")
	ErrTransferRejected  = errors.New("stakeledger: transfer rejected")
	ErrProtectedAsset    = errors.New("stakeledger: asset is protected from recovery")

	// Arithmetic errors
	ErrOverflow  = types.ErrOverflow
	ErrUnderflow = types.ErrUnderflow

	// Store errors
	ErrAccountNotFound   = errors.New("stakeledger: account not found")
	ErrStateNotFound     = errors.New("stakeledger: ledger state not found")
	ErrStoreClosed       = errors.New("stakeledger: store is closed")
	ErrTransactionFailed = errors.New("stakeledger: transaction failed")
	ErrMigrationFailed   = errors.New("stakeledger: migration failed")

	// Audit errors
	ErrInvariantViolated = errors.New("stakeledger: invariant violated")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("stakeledger: validation failed for %s: %s", e.Field, e.Message)
}

// MultiError represents multiple errors that occurred.
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "stakeledger: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("stakeledger: %d errors occurred", len(e.Errors))
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e MultiError) Unwrap() []error {
	return e.Errors
}

// Add adds an error to the multi-error.
func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if there are any errors.
func (e MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ErrorOrNil returns e if it holds any errors, nil otherwise.
func (e MultiError) ErrorOrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAccountNotFound) ||
		errors.Is(err, ErrStateNotFound)
}

// IsCustodyError returns true if the error originated in the custody collaborator.
func IsCustodyError(err error) bool {
	return errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrTransferRejected)
}

// IsRetryable returns true if the error is temporary and the caller may
// retry the operation. The ledger itself never retries.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransferRejected) ||
		errors.Is(err, ErrTransactionFailed) ||
		errors.Is(err, ErrLockPeriodActive)
}
