package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	orders "superfaktura-callback/internal/features/orders/domain"
)

var (
	// ErrInvalidSecretKey is returned when the caller's secret does not match the stored one.
	ErrInvalidSecretKey = errors.New("invalid secret key")
	// ErrSecretNotConfigured is returned when no secret has been generated yet.
	ErrSecretNotConfigured = errors.New("secret key not configured")
	// ErrRepository marks failures of the order store.
	ErrRepository = errors.New("order repository failure")
	// ErrOrderLookup is returned when orders cannot be resolved.
	ErrOrderLookup = fmt.Errorf("%w: lookup failed", ErrRepository)
	// ErrOrderUpdate is returned when at least one eligible order could not be saved.
	ErrOrderUpdate = fmt.Errorf("%w: update failed", ErrRepository)
	// ErrUnknownStatus is returned when a configured status is not in the store's catalog.
	ErrUnknownStatus = errors.New("unknown order status")
)

// Request parameter names.
const (
	ParamInvoiceID = "invoice_id"
	ParamSecretKey = "secret_key"
)

// ValidationError reports a malformed or missing request parameter.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return "Missing parameter(s): " + strings.Join(e.Missing, ", ")
	}
	return "Invalid parameter(s): " + strings.Join(e.Invalid, ", ")
}

// Request is a validated callback.
type Request struct {
	InvoiceID orders.InvoiceID
	SecretKey string
}

// NewRequest validates the query parameters of a callback.
// An absent parameter is reported as missing. A present one is invalid when empty or malformed:
// invoice_id must be a base-10 integer greater than zero, secret_key must be non-empty.
func NewRequest(params map[string]string) (Request, error) {
	rawInvoiceID, hasInvoiceID := params[ParamInvoiceID]
	secretKey, hasSecretKey := params[ParamSecretKey]

	verr := &ValidationError{}
	if !hasInvoiceID {
		verr.Missing = append(verr.Missing, ParamInvoiceID)
	}
	if !hasSecretKey {
		verr.Missing = append(verr.Missing, ParamSecretKey)
	}
	if len(verr.Missing) > 0 {
		return Request{}, verr
	}

	// ParseInt alone would accept a leading sign.
	digits := rawInvoiceID != "" && strings.Trim(rawInvoiceID, "0123456789") == ""
	id, err := strconv.ParseInt(rawInvoiceID, 10, 64)
	if !digits || err != nil || id <= 0 {
		verr.Invalid = append(verr.Invalid, ParamInvoiceID)
	}
	if secretKey == "" {
		verr.Invalid = append(verr.Invalid, ParamSecretKey)
	}
	if len(verr.Invalid) > 0 {
		return Request{}, verr
	}

	return Request{InvoiceID: orders.InvoiceID(id), SecretKey: secretKey}, nil
}

// Outcome is the body of a successful response.
type Outcome string

const (
	// OutcomeProcessed acknowledges a handled callback, however many orders changed.
	OutcomeProcessed Outcome = "ok"
	// OutcomeDisabled answers callbacks while the feature is switched off.
	OutcomeDisabled Outcome = ""
)

// Transition moves orders in From to To.
type Transition struct {
	From orders.OrderStatus
	To   orders.OrderStatus
}

// IsConfigured reports whether both statuses are set.
func (t Transition) IsConfigured() bool {
	return !t.From.IsBlank() && !t.To.IsBlank()
}

// Settings is the callback configuration read on every request.
type Settings struct {
	Enabled    bool
	Transition Transition
}

// SettingsUpdate lists the options an operator changes. Nil fields keep their stored value.
type SettingsUpdate struct {
	Enabled *bool
	From    *orders.OrderStatus
	To      *orders.OrderStatus
}

// IsEmpty reports whether the update changes nothing.
func (u SettingsUpdate) IsEmpty() bool {
	return u.Enabled == nil && u.From == nil && u.To == nil
}

// TransitionResult counts what happened to the resolved orders.
type TransitionResult struct {
	Applied int
	Skipped int
	Failed  int
}

// Secret generation parameters.
const (
	SecretLength   = 32
	SecretAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// NotePrefix starts every order note written by a transition.
const NotePrefix = "SuperFaktura callback: "
