package profileapi

// ProfileResponse mirrors the payload returned by GET /api/profile.
type ProfileResponse struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Handle string `json:"handle"`
	Avatar string `json:"avatar,omitempty"` // empty when never chosen
}

// UpdateRequest is the body of PUT /api/profile.
type UpdateRequest struct {
	Handle string `json:"handle"`
	Avatar string `json:"avatar"`
}

// ErrorResponse is the body of every 4xx/5xx answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Error codes carried in ErrorResponse.Error.
const (
	CodeUnauthorized  = "unauthorized"
	CodeInvalidHandle = "invalid_handle"
	CodeInvalidAvatar = "invalid_avatar"
	CodeBadRequest    = "bad_request"
	CodeRateLimited   = "rate_limited"
	CodeInternal      = "internal"
)
