package errors

// Messages emitted in the "message" field of error responses. Clients
// match on these strings, so they must stay stable.
const (
	MsgBadRequest       = "bad request"
	MsgNotFound         = "resource not found"
	MsgMethodNotAllowed = "method not allowed"
	MsgUnprocessable    = "unprocessable"
	MsgInternalError    = "internal server error"
)

// MessageFor returns the canonical message for an HTTP status code.
func MessageFor(status int) string {
	switch status {
	case 400:
		return MsgBadRequest
	case 404:
		return MsgNotFound
	case 405:
		return MsgMethodNotAllowed
	case 422:
		return MsgUnprocessable
	default:
		return MsgInternalError
	}
}
