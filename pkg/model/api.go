package model

// Envelope is the common shape of backend responses: a success flag and an
// optional human-readable message. Endpoint payloads embed it.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Reason returns the server-supplied failure text, or fallback when empty.
func (e Envelope) Reason(fallback string) string {
	if e.Message != "" {
		return e.Message
	}
	if e.Error != "" {
		return e.Error
	}
	return fallback
}

// LoginRequest is the body sent to the login endpoint.
type LoginRequest struct {
	Role Role `json:"role"`
	Credentials
}

// LoginResponse is the body returned by the login endpoint.
type LoginResponse struct {
	Envelope
	User  *User  `json:"user,omitempty"`
	Token string `json:"token,omitempty"`
}

// GenerateCodeRequest registers a client-generated pairing code.
type GenerateCodeRequest struct {
	Code     string `json:"code"`
	UserID   string `json:"userId"`
	UserRole Role   `json:"userRole"`
}

// VerifyCodeRequest submits a student-entered pairing code.
type VerifyCodeRequest struct {
	Code      string `json:"code"`
	StudentID string `json:"studentId,omitempty"`
}

// VerifiedPeer is the account a verified code belongs to.
type VerifiedPeer struct {
	Type   ConnectionType `json:"type"`
	Name   string         `json:"name"`
	UserID string         `json:"userId"`
}

// VerifyCodeResponse is the body returned by the verify endpoint.
type VerifyCodeResponse struct {
	Envelope
	Connection *VerifiedPeer `json:"connection,omitempty"`
}
