// Package errors provides standardized error types for the storefront stores.
// It defines common error types, slot-scoped error wrapping, and helper
// functions for error checking in the store and persistence layers.
//
// Package errors 提供店面状态存储的标准化错误类型。
// 它定义了常见错误类型、按存储槽包装的错误以及用于错误检查的辅助函数。
package errors

import (
	"errors"
	"fmt"
)

// Standard errors that can be returned by the stores and the persistence layer.
//
// 存储和持久化层可能返回的标准错误。
var (
	// ErrSlotNameEmpty is returned when an empty slot name is provided.
	// 当提供空槽名时返回ErrSlotNameEmpty。
	ErrSlotNameEmpty = errors.New("persist: slot name is empty")

	// ErrSerializationFailed is returned when a snapshot cannot be encoded.
	// 当快照无法编码时返回ErrSerializationFailed。
	ErrSerializationFailed = errors.New("persist: serialization failed")

	// ErrDeserializationFailed is returned when a snapshot cannot be decoded.
	// 当快照无法解码时返回ErrDeserializationFailed。
	ErrDeserializationFailed = errors.New("persist: deserialization failed")

	// ErrClosed is returned when an operation is performed on a closed storage.
	// 当对已关闭的存储执行操作时返回ErrClosed。
	ErrClosed = errors.New("persist: storage is closed")

	// ErrInvalidQuantity is returned when a line item quantity is below one.
	// 当购物车条目数量小于1时返回ErrInvalidQuantity。
	ErrInvalidQuantity = errors.New("cart: quantity must be at least 1")

	// ErrInvalidSize is returned when the chosen size is not offered by the product.
	// 当所选尺码不在商品尺码列表中时返回ErrInvalidSize。
	ErrInvalidSize = errors.New("cart: size not offered for product")

	// ErrInvalidColor is returned when the chosen color is not offered by the product.
	// 当所选颜色不在商品颜色列表中时返回ErrInvalidColor。
	ErrInvalidColor = errors.New("cart: color not offered for product")

	// ErrEmptyCart is returned when checking out a cart with no items.
	// 当对空购物车结账时返回ErrEmptyCart。
	ErrEmptyCart = errors.New("checkout: cart is empty")

	// ErrMissingShippingField is returned when a required shipping field is blank.
	// 当必填的配送信息字段为空时返回ErrMissingShippingField。
	ErrMissingShippingField = errors.New("checkout: missing shipping field")

	// ErrInvalidPaymentMethod is returned for a payment method other than card, upi or cod.
	// 当支付方式不是card、upi或cod时返回ErrInvalidPaymentMethod。
	ErrInvalidPaymentMethod = errors.New("checkout: invalid payment method")

	// ErrProductNotFound is returned when a product id is not in the catalog.
	// 当商品ID不在目录中时返回ErrProductNotFound。
	ErrProductNotFound = errors.New("catalog: product not found")

	// ErrUnknownSortKey is returned when a sort key cannot be parsed.
	// 当排序键无法解析时返回ErrUnknownSortKey。
	ErrUnknownSortKey = errors.New("catalog: unknown sort key")

	// ErrAddressNotFound is returned when an address id is not in the address book.
	// 当地址ID不在地址簿中时返回ErrAddressNotFound。
	ErrAddressNotFound = errors.New("auth: address not found")

	// ErrNotAuthenticated is returned when an operation requires a signed-in user.
	// 当操作需要已登录用户时返回ErrNotAuthenticated。
	ErrNotAuthenticated = errors.New("auth: not authenticated")
)

// SlotError represents an error related to a specific persisted slot.
// It wraps an underlying error with the slot name that caused the error.
//
// SlotError 表示与特定持久化槽相关的错误。
// 它用导致错误的槽名包装底层错误。
type SlotError struct {
	Slot string // The slot that caused the error / 导致错误的槽
	Err  error  // The underlying error / 底层错误
}

// Error returns the error message.
//
// Error 返回错误消息。
func (e *SlotError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err, e.Slot)
}

// Unwrap returns the underlying error.
// This allows errors.Is and errors.As to work with wrapped errors.
//
// Unwrap 返回底层错误。
// 这允许errors.Is和errors.As与包装的错误一起工作。
func (e *SlotError) Unwrap() error {
	return e.Err
}

// NewSlotError creates a new SlotError.
//
// NewSlotError 创建一个新的SlotError。
//
// Parameters:
//   - slot: The slot that caused the error
//   - err: The underlying error
//
// Returns:
//   - *SlotError: A new slot error instance
func NewSlotError(slot string, err error) *SlotError {
	return &SlotError{Slot: slot, Err: err}
}

// IsNotFound returns true if the error indicates that a product or address
// was not found. An absent slot is not an error: Slot.Load reports it with
// a false boolean.
//
// IsNotFound 如果错误表示未找到商品或地址，则返回true。
// 槽不存在不是错误：Slot.Load通过false布尔值报告。
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrAddressNotFound)
}

// IsValidation returns true if the error is caused by invalid caller input.
//
// IsValidation 如果错误由调用方的无效输入引起，则返回true。
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrMissingShippingField) ||
		errors.Is(err, ErrInvalidPaymentMethod) ||
		errors.Is(err, ErrInvalidSize) ||
		errors.Is(err, ErrInvalidColor) ||
		errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrUnknownSortKey) ||
		errors.Is(err, ErrSlotNameEmpty)
}

// IsClosed returns true if the error indicates that the storage is closed.
//
// IsClosed 如果错误表示存储已关闭，则返回true。
func IsClosed(err error) bool {
	return errors.Is(err, ErrClosed)
}

// IsNotAuthenticated returns true if the error indicates a missing session user.
//
// IsNotAuthenticated 如果错误表示缺少会话用户，则返回true。
func IsNotAuthenticated(err error) bool {
	return errors.Is(err, ErrNotAuthenticated)
}

// IsSerializationError returns true if the error is related to serialization.
//
// IsSerializationError 如果错误与序列化相关，则返回true。
//
// Parameters:
//   - err: The error to check
//
// Returns:
//   - bool: True if the error is or wraps ErrSerializationFailed or ErrDeserializationFailed
func IsSerializationError(err error) bool {
	return errors.Is(err, ErrSerializationFailed) || errors.Is(err, ErrDeserializationFailed)
}
