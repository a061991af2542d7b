package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Op names the fetch that failed.
type Op int

const (
	OpList Op = iota
	OpDetail
)

func (o Op) String() string {
	if o == OpDetail {
		return "get conversation"
	}
	return "list conversations"
}

// Operator-facing messages. Transport failures, timeouts and non-2xx
// responses all collapse to the same text per operation.
const (
	ListFailedMessage   = "会話の取得に失敗しました。サーバーが起動しているか確認してください。"
	DetailFailedMessage = "会話詳細の取得に失敗しました。"
)

// ErrEmptyRecord is wrapped when a detail response decodes to no record.
var ErrEmptyRecord = errors.New("empty conversation record")

// FetchError is returned for every failed list or detail fetch.
type FetchError struct {
	Op     Op
	ID     string // detail fetches only
	Status int    // HTTP status, 0 when no response was received
	Err    error
}

func newFetchError(op Op, id string, err error) *FetchError {
	fe := &FetchError{Op: op, ID: id, Err: err}
	var se *statusError
	if errors.As(err, &se) {
		fe.Status = se.code
	}
	return fe
}

func (e *FetchError) Error() string {
	if e.Op == OpDetail {
		return fmt.Sprintf("%s %q: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Message is the text shown to the operator.
func (e *FetchError) Message() string {
	if e.Op == OpDetail {
		return DetailFailedMessage
	}
	return ListFailedMessage
}

// NotFound reports whether the backend answered 404.
func (e *FetchError) NotFound() bool {
	return e.Status == http.StatusNotFound
}

// OperatorMessage returns the operator-facing text for err. Errors that did
// not come from this package fall back to the list message for OpList and
// the detail message otherwise.
func OperatorMessage(err error, op Op) string {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Message()
	}
	if op == OpDetail {
		return DetailFailedMessage
	}
	return ListFailedMessage
}
