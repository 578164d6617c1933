package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// RequestFailedError is returned when the backend answers with a non-2xx
// status. Message holds the backend detail when one was supplied.
type RequestFailedError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *RequestFailedError) Error() string {
	return e.Message
}

// NetworkError is returned when a request never produced a response.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: backend unreachable: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not a
// *RequestFailedError.
func StatusCode(err error) int {
	var rf *RequestFailedError
	if errors.As(err, &rf) {
		return rf.Status
	}
	return 0
}

func newRequestFailedError(method, path string, status int, body []byte) *RequestFailedError {
	msg := detailMessage(body)
	if msg == "" {
		msg = fmt.Sprintf("Failed (%d)", status)
	}

	return &RequestFailedError{
		Method:  method,
		Path:    path,
		Status:  status,
		Message: msg,
	}
}

// detailMessage extracts the "detail" field of an error body. FastAPI style
// validation lists are flattened to their "msg" entries.
func detailMessage(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err == nil {
		return strings.TrimSpace(detail)
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}
