package suggest

import (
	"fmt"
)

// Kind classifies a failed suggestion request.
type Kind int

const (
	KindInvalidEndpoint Kind = iota + 1
	KindRequestEncoding
	KindNetwork
	KindHTTPStatus
	KindDecoding
	KindNoContent
)

func (k Kind) String() string {
	switch k {
	case KindInvalidEndpoint:
		return "invalid_endpoint"
	case KindRequestEncoding:
		return "request_encoding"
	case KindNetwork:
		return "network"
	case KindHTTPStatus:
		return "http_status"
	case KindDecoding:
		return "decoding"
	case KindNoContent:
		return "no_content"
	default:
		return "unknown"
	}
}

// Error is the error returned by Client.Suggest.
type Error struct {
	Kind Kind
	// StatusCode is set for KindHTTPStatus.
	StatusCode int
	// Message is the API's own error message when it sent one.
	Message string
	Err     error
}

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrInvalidEndpoint = &Error{Kind: KindInvalidEndpoint}
	ErrRequestEncoding = &Error{Kind: KindRequestEncoding}
	ErrNetwork         = &Error{Kind: KindNetwork}
	ErrHTTPStatus      = &Error{Kind: KindHTTPStatus}
	ErrDecoding        = &Error{Kind: KindDecoding}
	ErrNoContent       = &Error{Kind: KindNoContent}
)

func (e *Error) Error() string {
	switch e.Kind {
	case KindInvalidEndpoint:
		return "The API URL is invalid."
	case KindRequestEncoding:
		return "Failed to encode the request."
	case KindNetwork:
		return "A network error occurred. Please check your connection."
	case KindHTTPStatus:
		msg := fmt.Sprintf("The API returned an error: HTTP Status %d", e.StatusCode)
		if e.Message != "" {
			msg += ": " + e.Message
		}
		return msg
	case KindDecoding:
		return "Failed to decode the AI response. Please try again."
	case KindNoContent:
		return "The AI could not generate ideas for this request. Try adjusting the interests."
	default:
		return "suggestion request failed"
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}
