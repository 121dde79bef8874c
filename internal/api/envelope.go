package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"

	"github.com/five82/kiosk/internal/query"
)

// FallbackMessage is shown when a failed call carries no usable message.
const FallbackMessage = "request failed"

// Code is the envelope's err_code. The API sends it as a string; numeric codes
// are accepted too.
type Code string

func (c *Code) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*c = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Code(strings.TrimSpace(s))
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return errors.Errorf("err_code: unexpected value %s", data)
		}
		*c = Code(n.String())
		return nil
	}
}

// Envelope wraps every API response.
type Envelope[T any] struct {
	Success    bool   `json:"success"`
	ErrCode    Code   `json:"err_code"`
	ErrMessage string `json:"err_message"`
	Data       T      `json:"data"`
}

// Err returns an *EnvelopeError when the envelope reports failure.
func (e Envelope[T]) Err() error {
	if e.Success {
		return nil
	}
	return &EnvelopeError{Code: e.ErrCode, Message: e.ErrMessage}
}

// PagedEnvelope wraps list responses. Paging metadata sits next to data.
type PagedEnvelope[T any] struct {
	Success     bool   `json:"success"`
	ErrCode     Code   `json:"err_code"`
	ErrMessage  string `json:"err_message"`
	Data        []T    `json:"data"`
	Total       int    `json:"total"`
	PageSize    int    `json:"page_size"`
	HasMore     bool   `json:"has_more"`
	CurrentPage int    `json:"current_page"`
	TotalPages  int    `json:"total_pages"`
}

// Err returns an *EnvelopeError when the envelope reports failure.
func (e PagedEnvelope[T]) Err() error {
	if e.Success {
		return nil
	}
	return &EnvelopeError{Code: e.ErrCode, Message: e.ErrMessage}
}

// Page converts the envelope into the synchronizer's page shape.
func (e PagedEnvelope[T]) Page() query.Page[T] {
	return query.Page[T]{
		Items:      e.Data,
		Total:      e.Total,
		Page:       e.CurrentPage,
		PageSize:   e.PageSize,
		TotalPages: e.TotalPages,
	}
}

type envelopeHead struct {
	Success    bool   `json:"success"`
	ErrCode    Code   `json:"err_code"`
	ErrMessage string `json:"err_message"`
}

// EnvelopeError is a well-formed response with success=false.
type EnvelopeError struct {
	Code    Code
	Message string
}

func (e *EnvelopeError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = FallbackMessage
	}
	if e.Code != "" {
		return fmt.Sprintf("api error %s: %s", e.Code, msg)
	}
	return "api error: " + msg
}

// TransportError covers connectivity failures, non-2xx statuses and
// undecodable bodies.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	switch {
	case e.Status > 0 && e.Err != nil:
		return fmt.Sprintf("api %s returned status %d: %v", e.Op, e.Status, e.Err)
	case e.Status > 0:
		return fmt.Sprintf("api %s returned status %d", e.Op, e.Status)
	case e.Err != nil:
		return fmt.Sprintf("api %s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("api %s failed", e.Op)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Message turns an error returned by this package into operator-facing
// text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var envErr *EnvelopeError
	if errors.As(err, &envErr) {
		if msg := strings.TrimSpace(envErr.Message); msg != "" {
			return msg
		}
		return FallbackMessage
	}
	if errors.Is(err, context.Canceled) {
		return "request canceled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "network error: request timed out"
	}
	var terr *TransportError
	if errors.As(err, &terr) {
		if terr.Status > 0 {
			if text := http.StatusText(terr.Status); text != "" {
				return fmt.Sprintf("network error: server returned %d %s", terr.Status, strings.ToLower(text))
			}
			return fmt.Sprintf("network error: server returned %d", terr.Status)
		}
		return "network error: unable to reach server"
	}
	return FallbackMessage
}
