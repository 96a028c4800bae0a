package web

// errors.go maps errors to user-facing messages with support codes.
//
// Codes:
//
//	REQ001 - Bad request: a query parameter is malformed or names an
//	         unknown column (400)
//	EXP001 - Unsupported export format (400)
//	EXP002 - Every export slot is busy (503)
//	TBL001 - Dataset not found (404)
//	TBL002 - Dataset unavailable: its backing database is not configured (503)
//	CFG001 - Table configuration error (500)
//	INV001 - Internal invariant violated (500)
//	DB004  - Database connection refused (503)
//	REQ002 - Request timed out (504)
//	ERR000 - Anything else (500)
//
// Sentinel errors are matched with errors.Is first; the text patterns catch
// driver errors that carry no sentinel.

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/tablekit/internal/catalog"
	"github.com/JonMunkholm/tablekit/internal/export"
	"github.com/JonMunkholm/tablekit/internal/logging"
	"github.com/JonMunkholm/tablekit/internal/table"
	"github.com/JonMunkholm/tablekit/internal/web/views"
)

// UserMessage is an error as shown to users.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference
	Status  int    `json:"-"`
}

// ErrorResponse is the JSON body of an API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

var sentinelMessages = []struct {
	target error
	msg    UserMessage
}{
	{errBadRequest, UserMessage{
		Message: "The request is invalid",
		Action:  "Check the query parameters and column ids",
		Code:    "REQ001",
		Status:  http.StatusBadRequest,
	}},
	{export.ErrUnsupportedFormat, UserMessage{
		Message: "Unsupported export format",
		Action:  "Use csv, json or parquet",
		Code:    "EXP001",
		Status:  http.StatusBadRequest,
	}},
	{errTooManyExports, UserMessage{
		Message: "Too many exports in progress",
		Action:  "Please wait a moment and try again",
		Code:    "EXP002",
		Status:  http.StatusServiceUnavailable,
	}},
	{catalog.ErrNotFound, UserMessage{
		Message: "Dataset not found",
		Action:  "Verify the dataset key is correct",
		Code:    "TBL001",
		Status:  http.StatusNotFound,
	}},
	{catalog.ErrUnavailable, UserMessage{
		Message: "Dataset is unavailable",
		Action:  "Its database is not configured on this server",
		Code:    "TBL002",
		Status:  http.StatusServiceUnavailable,
	}},
	{table.ErrConfiguration, UserMessage{
		Message: "The table is misconfigured",
		Action:  "Check the dataset's column definitions",
		Code:    "CFG001",
		Status:  http.StatusInternalServerError,
	}},
	{table.ErrInvariantViolation, UserMessage{
		Message: "The table reached an inconsistent state",
		Action:  "Please report this error",
		Code:    "INV001",
		Status:  http.StatusInternalServerError,
	}},
	{context.DeadlineExceeded, timeoutMessage},
}

var timeoutMessage = UserMessage{
	Message: "The request timed out",
	Action:  "Try a smaller page or try again later",
	Code:    "REQ002",
	Status:  http.StatusGatewayTimeout,
}

// errorPatterns are matched case-insensitively against the error text. The
// first match wins.
var errorPatterns = []struct {
	pattern string
	msg     UserMessage
}{
	{"connection refused", UserMessage{
		Message: "Unable to connect to database",
		Action:  "Please try again in a few moments",
		Code:    "DB004",
		Status:  http.StatusServiceUnavailable,
	}},
	{"timeout", timeoutMessage},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
	Status:  http.StatusInternalServerError,
}

// MapError returns the user message for err. A nil error maps to the zero
// message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}
	for _, s := range sentinelMessages {
		if errors.Is(err, s.target) {
			return s.msg
		}
	}
	text := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(text, p.pattern) {
			return p.msg
		}
	}
	return defaultMessage
}

// respondError logs err with request context and writes the mapped message
// as JSON for API routes and as an HTML page otherwise.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	msg := MapError(err)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", msg.Status,
		"code", msg.Code,
		"error", err.Error(),
	}
	if msg.Status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	if wantsJSON(r) {
		respondErrorJSON(w, msg)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(msg.Status)
	if err := views.ErrorPage(msg.Message, msg.Action, msg.Code).Render(r.Context(), w); err != nil {
		logger.Error("render error page", "error", err)
	}
}

func respondErrorJSON(w http.ResponseWriter, msg UserMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(msg.Status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// wantsJSON reports whether the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
