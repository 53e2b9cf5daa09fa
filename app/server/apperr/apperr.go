package apperr

import (
	"errors"
	"net/http"
)

// Kind 错误分类，按标签比较而不是按字符串比较
type Kind int

const (
	Internal Kind = iota
	Validation
	Authentication
	Authorization
	NotFound
	Conflict
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Authentication:
		return "authentication"
	case Authorization:
		return "authorization"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Status 每个分类对应唯一的 HTTP 状态码
func (k Kind) Status() int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case Authentication:
		return http.StatusUnauthorized
	case Authorization:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string            // 返回给调用方的信息
	Details map[string]string // 字段级别的校验信息
	Err     error             // 原始错误，只记录日志，不返回
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 同一分类且信息相同的错误视为相等，方便 errors.Is 与预定义错误比较
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Message == e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Invalid(details map[string]string) *Error {
	return &Error{Kind: Validation, Message: "Validation failed", Details: details}
}

// KindOf 提取错误分类，无法识别的错误一律视为 Internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Body 返回给调用方的错误响应
type Body struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

func (e *Error) Body() Body {
	return Body{Error: e.Message, Details: e.Details}
}
