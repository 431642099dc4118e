package client

import (
	"fmt"
)

// TransportErrorKind enumerates the failures that originate below the
// JSON-RPC layer.
type TransportErrorKind int

const (
	// TransportBadURL means the request URL could not be used at all.
	TransportBadURL TransportErrorKind = iota

	// TransportTimeout means the call exceeded a deadline.
	TransportTimeout

	// TransportNetworkError means the request never completed: DNS failure,
	// refused connection, dropped body and the like.
	TransportNetworkError

	// TransportBadStatus means the server answered outside the 2xx range.
	TransportBadStatus

	// TransportBadBody means the response arrived but its body did not
	// decode as a JSON-RPC response.
	TransportBadBody
)

// TransportError is a failure below the RPC semantics. Exactly one of the
// payload fields is meaningful, selected by Kind.
type TransportError struct {
	Kind TransportErrorKind

	// URL is the offending request URL for TransportBadURL.
	URL string

	// Status is the HTTP status code for TransportBadStatus.
	Status int

	// Body holds the raw response text for TransportBadBody. Keeping the
	// original bytes rather than the decoder's complaint lets callers see
	// exactly what the server sent.
	Body string
}

// Error implements the error interface with one human-readable sentence per
// kind. The bad body variant renders the body text verbatim.
func (e *TransportError) Error() string {
	switch e.Kind {
	case TransportBadURL:
		return "Bad request url: " + e.URL
	case TransportTimeout:
		return "Request timed out"
	case TransportNetworkError:
		return "Network error"
	case TransportBadStatus:
		return fmt.Sprintf("Bad response status: %d", e.Status)
	case TransportBadBody:
		return e.Body
	default:
		return fmt.Sprintf("unknown transport error kind %d", e.Kind)
	}
}

// OutcomeKind enumerates the raw transport outcomes of one HTTP exchange.
type OutcomeKind int

const (
	// OutcomeBadURL means the request was never sent.
	OutcomeBadURL OutcomeKind = iota

	// OutcomeTimeout means a deadline fired while waiting.
	OutcomeTimeout

	// OutcomeNetworkError means the exchange broke before a status arrived
	// or while reading the body.
	OutcomeNetworkError

	// OutcomeBadStatus means a complete response with a non-2xx status.
	OutcomeBadStatus

	// OutcomeGoodStatus means a complete response with a 2xx status.
	OutcomeGoodStatus
)

// Outcome is what the transport produced before any JSON-RPC interpretation
// is applied. Status is set for OutcomeBadStatus, Body for OutcomeGoodStatus,
// URL for OutcomeBadURL.
type Outcome struct {
	Kind   OutcomeKind
	URL    string
	Status int
	Body   []byte
}

// HandleJSONResponse maps a transport outcome to either a decoded value or a
// TransportError. Every outcome kind maps to exactly one case: the body of a
// bad status response is discarded, and a good status body that the decoder
// rejects comes back as TransportBadBody carrying the raw body text.
func HandleJSONResponse[R any](outcome Outcome, decode func([]byte) (R, error)) (R, *TransportError) {
	var zero R
	switch outcome.Kind {
	case OutcomeBadURL:
		return zero, &TransportError{Kind: TransportBadURL, URL: outcome.URL}
	case OutcomeTimeout:
		return zero, &TransportError{Kind: TransportTimeout}
	case OutcomeNetworkError:
		return zero, &TransportError{Kind: TransportNetworkError}
	case OutcomeBadStatus:
		return zero, &TransportError{Kind: TransportBadStatus, Status: outcome.Status}
	case OutcomeGoodStatus:
		v, err := decode(outcome.Body)
		if err != nil {
			return zero, &TransportError{Kind: TransportBadBody, Body: string(outcome.Body)}
		}
		return v, nil
	default:
		// Unknown kinds are treated like a broken exchange
		return zero, &TransportError{Kind: TransportNetworkError}
	}
}
