package errors

import (
	stderrors "errors"
	"fmt"
)

const (
	CodeNotFound       = "not_found"
	CodeAlreadyLiked   = "already_liked"
	CodeNotLiked       = "not_liked"
	CodeInvalidRequest = "invalid_request"
	CodeUnauthorized   = "unauthorized"
	CodeDataNotFound   = "data_not_found"
	CodeInternal       = "internal_error"
)

// ErrUnsupported marks store operations that exist only to complete the contract.
// Calling one is a programming mistake, so callers panic with it instead of returning it.
var ErrUnsupported = stderrors.New("operation not supported by the video store")

type VideoError struct {
	Code    string
	Message string
	Err     error
}

func (e *VideoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *VideoError) Unwrap() error { return e.Err }

var (
	ErrNotFound = func(err error) *VideoError {
		return &VideoError{Code: CodeNotFound, Message: "Video bulunamadı", Err: err}
	}
	ErrAlreadyLiked = func(err error) *VideoError {
		return &VideoError{Code: CodeAlreadyLiked, Message: "Video zaten beğenildi", Err: err}
	}
	ErrNotLiked = func(err error) *VideoError {
		return &VideoError{Code: CodeNotLiked, Message: "Video henüz beğenilmedi", Err: err}
	}
	ErrInvalidRequest = func(err error) *VideoError {
		return &VideoError{Code: CodeInvalidRequest, Message: "Geçersiz istek", Err: err}
	}
	ErrUnauthorized = func(err error) *VideoError {
		return &VideoError{Code: CodeUnauthorized, Message: "Kullanıcı bilgisi eksik", Err: err}
	}
	ErrDataNotFound = func(err error) *VideoError {
		return &VideoError{Code: CodeDataNotFound, Message: "Video verisi bulunamadı", Err: err}
	}
	ErrInternal = func(err error) *VideoError {
		return &VideoError{Code: CodeInternal, Message: "Sunucu hatası", Err: err}
	}
)

// CodeOf returns the VideoError code carried anywhere in err's chain, or "".
func CodeOf(err error) string {
	var ve *VideoError
	if stderrors.As(err, &ve) {
		return ve.Code
	}
	return ""
}
