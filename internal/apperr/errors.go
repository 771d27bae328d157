// Package apperr holds the typed failures surfaced by the bar core. Every
// error carries a Kind for transport mapping, a stable Code used as the
// translation message id, and the offending values in Fields.
package apperr

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindResource   Kind = "resource"
	KindNotFound   Kind = "not_found"
	KindForbidden  Kind = "forbidden"
)

const (
	CodeInvalidInput        = "invalid_input"
	CodeMissingOption       = "missing_option"
	CodeInvalidOption       = "invalid_option"
	CodeRecipeMissing       = "recipe_missing"
	CodeNotSellable         = "product_not_sellable"
	CodeProductInactive     = "product_inactive"
	CodeDuplicateCode       = "duplicate_code"
	CodeInsufficientStock   = "insufficient_stock"
	CodeStockNotConfigured  = "stock_not_configured"
	CodeNegativeStock       = "negative_stock"
	CodeInsufficientBalance = "insufficient_balance"
	CodeAccountInactive     = "account_inactive"
	CodeAccountExpired      = "account_expired"
	CodeNotTransfer         = "payment_not_transfer"
	CodeAlreadyProcessed    = "payment_already_processed"
	CodeOrderUnpaid         = "order_unpaid"
	CodeOrderDelivered      = "order_already_delivered"
	CodeOrderCancelled      = "order_cancelled"
	CodeOverDelivery        = "over_delivery"
	CodeNotFound            = "not_found"
	CodeForbidden           = "forbidden"
)

type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]any
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on Code so callers can compare against a bare &Error{Code: ...}.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func HasCode(err error, code string) bool {
	e, ok := As(err)
	return ok && e.Code == code
}

func New(kind Kind, code, message string, fields map[string]any) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Fields: fields}
}

func Validation(field, message string) *Error {
	return New(KindValidation, CodeInvalidInput, message, map[string]any{"Field": field, "Reason": message})
}

func NotFound(entity, id string) *Error {
	return New(KindNotFound, CodeNotFound, fmt.Sprintf("%s %s not found", entity, id),
		map[string]any{"Entity": entity, "ID": id})
}

func Forbidden(role string) *Error {
	return New(KindForbidden, CodeForbidden, fmt.Sprintf("role %q is not allowed to perform this action", role),
		map[string]any{"Role": role})
}

func MissingOption(product, group string, options []string) *Error {
	return New(KindValidation, CodeMissingOption,
		fmt.Sprintf("a %s must be chosen for %s (options: %v)", group, product, options),
		map[string]any{"Product": product, "Group": group, "Options": options})
}

func InvalidOption(group, code string) *Error {
	return New(KindValidation, CodeInvalidOption,
		fmt.Sprintf("invalid option for %s: %s", group, code),
		map[string]any{"Group": group, "Code": code})
}

func RecipeMissing(product string) *Error {
	return New(KindValidation, CodeRecipeMissing,
		fmt.Sprintf("product %s has no recipe configured", product),
		map[string]any{"Product": product})
}

func NotSellable(product string) *Error {
	return New(KindValidation, CodeNotSellable,
		fmt.Sprintf("product %s is a base ingredient and cannot be sold directly", product),
		map[string]any{"Product": product})
}

func ProductInactive(product string) *Error {
	return New(KindValidation, CodeProductInactive,
		fmt.Sprintf("product %s is not active", product),
		map[string]any{"Product": product})
}

func DuplicateCode(code string) *Error {
	return New(KindConflict, CodeDuplicateCode,
		fmt.Sprintf("a product with code %s already exists", code),
		map[string]any{"Code": code})
}

func InsufficientStock(product string, available, requested int) *Error {
	return New(KindResource, CodeInsufficientStock,
		fmt.Sprintf("insufficient stock of %s (available: %d, requested: %d)", product, available, requested),
		map[string]any{"Product": product, "Available": available, "Requested": requested, "Shortfall": requested - available})
}

func StockNotConfigured(product, location string) *Error {
	return New(KindResource, CodeStockNotConfigured,
		fmt.Sprintf("%s has no stock configured at location %s", product, location),
		map[string]any{"Product": product, "Location": location})
}

func NegativeStock(product string, current, delta int) *Error {
	return New(KindResource, CodeNegativeStock,
		fmt.Sprintf("adjusting %s by %d would leave %d units", product, delta, current+delta),
		map[string]any{"Product": product, "Current": current, "Delta": delta})
}

func InsufficientBalance(balance, required decimal.Decimal) *Error {
	return New(KindResource, CodeInsufficientBalance,
		fmt.Sprintf("insufficient balance. available: $%s, required: $%s", balance.StringFixed(2), required.StringFixed(2)),
		map[string]any{"Balance": balance.StringFixed(2), "Required": required.StringFixed(2), "Shortfall": required.Sub(balance).StringFixed(2)})
}

func AccountInactive(status string) *Error {
	return New(KindConflict, CodeAccountInactive,
		fmt.Sprintf("balance account is not available (status: %s)", status),
		map[string]any{"Status": status})
}

func AccountExpired() *Error {
	return New(KindConflict, CodeAccountExpired, "balance account has expired", nil)
}

func NotTransfer(method string) *Error {
	return New(KindConflict, CodeNotTransfer,
		fmt.Sprintf("only transfer payments can be reviewed (method: %s)", method),
		map[string]any{"Method": method})
}

func AlreadyProcessed(status string) *Error {
	return New(KindConflict, CodeAlreadyProcessed,
		fmt.Sprintf("payment was already processed (status: %s)", status),
		map[string]any{"Status": status})
}

func OrderUnpaid(status string) *Error {
	return New(KindConflict, CodeOrderUnpaid,
		fmt.Sprintf("payment is not approved, order cannot be delivered (status: %s)", status),
		map[string]any{"Status": status})
}

func OrderDelivered(code string) *Error {
	return New(KindConflict, CodeOrderDelivered,
		fmt.Sprintf("order %s was already delivered in full", code),
		map[string]any{"Order": code})
}

func OrderCancelled(code string) *Error {
	return New(KindConflict, CodeOrderCancelled,
		fmt.Sprintf("order %s is cancelled", code),
		map[string]any{"Order": code})
}

func OverDelivery(lineID, product string, requested, remaining int) *Error {
	return New(KindConflict, CodeOverDelivery,
		fmt.Sprintf("cannot deliver %d of %s, only %d left to deliver", requested, product, remaining),
		map[string]any{"Line": lineID, "Product": product, "Requested": requested, "Remaining": remaining})
}
