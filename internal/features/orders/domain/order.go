package domain

import (
	"strconv"
)

// OrderStatus is a store-defined order status slug (e.g. "on-hold", "processing").
type OrderStatus string

const (
	OrderStatusPending       OrderStatus = "pending"
	OrderStatusProcessing    OrderStatus = "processing"
	OrderStatusOnHold        OrderStatus = "on-hold"
	OrderStatusCompleted     OrderStatus = "completed"
	OrderStatusCancelled     OrderStatus = "cancelled"
	OrderStatusRefunded      OrderStatus = "refunded"
	OrderStatusFailed        OrderStatus = "failed"
	OrderStatusCheckoutDraft OrderStatus = "checkout-draft"
)

// IsBlank reports whether the status is unset.
func (s OrderStatus) IsBlank() bool {
	return s == ""
}

// InvoiceKind distinguishes the two invoice references an order can carry.
type InvoiceKind string

const (
	// InvoiceKindProforma is the proforma invoice issued before payment.
	InvoiceKindProforma InvoiceKind = "proforma"
	// InvoiceKindRegular is the regular (tax) invoice.
	InvoiceKindRegular InvoiceKind = "regular"
)

// MetaKey returns the order meta key under which the invoicing plugin stores the invoice id.
func (k InvoiceKind) MetaKey() string {
	switch k {
	case InvoiceKindProforma:
		return "wc_sf_internal_proforma_id"
	case InvoiceKindRegular:
		return "wc_sf_internal_regular_id"
	default:
		return ""
	}
}

// InvoiceKinds lists every kind in lookup order.
var InvoiceKinds = []InvoiceKind{InvoiceKindProforma, InvoiceKindRegular}

// InvoiceID is the identifier assigned by the invoicing provider. Zero means "none".
type InvoiceID int64

// String formats the id the way it is stored in order meta.
func (id InvoiceID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Order is the part of a store order the callback reads and mutates.
type Order struct {
	// ID is the unique order identifier.
	ID int64 `json:"id"`
	// Status is the current order status.
	Status OrderStatus `json:"status"`
	// ProformaInvoiceID is the linked proforma invoice, zero if none.
	ProformaInvoiceID InvoiceID `json:"proforma_invoice_id,omitempty"`
	// RegularInvoiceID is the linked regular invoice, zero if none.
	RegularInvoiceID InvoiceID `json:"regular_invoice_id,omitempty"`
}

// InvoiceID returns the invoice of the given kind linked to the order.
func (o Order) InvoiceID(kind InvoiceKind) InvoiceID {
	switch kind {
	case InvoiceKindProforma:
		return o.ProformaInvoiceID
	case InvoiceKindRegular:
		return o.RegularInvoiceID
	default:
		return 0
	}
}

// OrderFilter selects orders by linked invoice. Zero fields are not filtered on.
type OrderFilter struct {
	ProformaID InvoiceID
	RegularID  InvoiceID
}

// ByInvoice builds a filter matching a single invoice kind.
func ByInvoice(kind InvoiceKind, id InvoiceID) OrderFilter {
	switch kind {
	case InvoiceKindProforma:
		return OrderFilter{ProformaID: id}
	case InvoiceKindRegular:
		return OrderFilter{RegularID: id}
	default:
		return OrderFilter{}
	}
}

// IsEmpty reports whether the filter has no criteria.
func (f OrderFilter) IsEmpty() bool {
	return f.ProformaID == 0 && f.RegularID == 0
}

// InvoiceID returns the invoice of the given kind the filter selects, zero if none.
func (f OrderFilter) InvoiceID(kind InvoiceKind) InvoiceID {
	return Order{ProformaInvoiceID: f.ProformaID, RegularInvoiceID: f.RegularID}.InvoiceID(kind)
}

// Matches reports whether the order satisfies every criterion of the filter.
func (f OrderFilter) Matches(o Order) bool {
	for _, kind := range InvoiceKinds {
		if want := f.InvoiceID(kind); want != 0 && o.InvoiceID(kind) != want {
			return false
		}
	}
	return true
}
