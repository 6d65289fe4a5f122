package schema

import (
	"errors"
	"fmt"
	"strings"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Err is an upload failure code. Each code is terminal for the operation in
// which it occurs; nothing is retried internally.
type Err int

// Error is an upload failure carrying the code, an optional chunk or file
// index, the HTTP status (when one was received), a human-readable message
// and the underlying cause.
type Error struct {
	Code    Err
	Index   int
	Status  int
	Message string
	cause   error
	batch   bool // Index is a file position within a batch
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	ErrNetwork Err = iota + 1
	ErrTimeout
	ErrServerRejected
	ErrResponseParse
	ErrCancelled
	ErrChunkUploadFailed
	ErrFinalizeFailed
	ErrBadParameter
)

var _ error = Err(0)
var _ error = (*Error)(nil)

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (code Err) Error() string {
	switch code {
	case ErrNetwork:
		return "خطأ في الشبكة أثناء رفع الملف"
	case ErrTimeout:
		return "انتهت مهلة رفع الملف"
	case ErrServerRejected:
		return "رفض الخادم رفع الملف"
	case ErrResponseParse:
		return "استجابة غير صالحة من الخادم"
	case ErrCancelled:
		return "تم إلغاء الرفع"
	case ErrChunkUploadFailed:
		return "فشل رفع جزء من الملف"
	case ErrFinalizeFailed:
		return "فشل إكمال رفع الملف"
	case ErrBadParameter:
		return "bad parameter"
	default:
		return fmt.Sprintf("upload error %d", int(code))
	}
}

func (e *Error) Error() string {
	if e.batch {
		return fmt.Sprintf("file %d: %v", e.Index, e.cause)
	}
	var parts []string
	switch e.Code {
	case ErrChunkUploadFailed:
		parts = append(parts, fmt.Sprintf("%s (%d)", e.Code.Error(), e.Index))
	case ErrServerRejected:
		// The server message replaces the generic text
	default:
		parts = append(parts, e.Code.Error())
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.cause != nil {
		parts = append(parts, e.cause.Error())
	}
	if len(parts) == 0 {
		return e.Code.Error()
	}
	return strings.Join(parts, ": ")
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// With returns an error for the code with a message built from args.
func (code Err) With(args ...any) error {
	return &Error{Code: code, Message: fmt.Sprint(args...)}
}

// Withf returns an error for the code with a formatted message.
func (code Err) Withf(format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error for the code which wraps cause.
func (code Err) Wrap(cause error) error {
	return &Error{Code: code, cause: cause}
}

// ServerRejected returns a rejection carrying the server message and status.
func ServerRejected(status int, message string) error {
	return &Error{Code: ErrServerRejected, Status: status, Message: message}
}

// ChunkUploadFailed returns a failure for the chunk at index, wrapping cause.
func ChunkUploadFailed(index int, cause error) error {
	return &Error{Code: ErrChunkUploadFailed, Index: index, cause: cause}
}

// FinalizeFailed returns a finalize failure wrapping cause.
func FinalizeFailed(cause error) error {
	return &Error{Code: ErrFinalizeFailed, cause: cause}
}

// FileFailed returns cause annotated with the position of the failing file
// in a batch. The code is taken from cause when it is an upload error.
func FileFailed(index int, cause error) error {
	e := &Error{Index: index, cause: cause, batch: true}
	var inner *Error
	var code Err
	if errors.As(cause, &inner) {
		e.Code = inner.Code
	} else if errors.As(cause, &code) {
		e.Code = code
	} else {
		e.Code = ErrNetwork
	}
	return e
}

// Batch reports whether Index refers to a file within a batch upload.
func (e *Error) Batch() bool {
	return e.batch
}

// Unwrap returns the cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches the error code, so errors.Is(err, ErrCancelled) works for any
// upload error with that code, including wrapped causes.
func (e *Error) Is(target error) bool {
	if code, ok := target.(Err); ok {
		return e.Code == code
	}
	return false
}
