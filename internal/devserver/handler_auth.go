package devserver

import (
	"net/http"

	"github.com/me/eduportal/pkg/model"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := req.Credentials.Validate(req.Role); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Message)
		return
	}

	a := s.authenticate(req.Role, req.Credentials)
	if a == nil {
		s.logger.Debug("login rejected", "role", req.Role)
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	respondOK(w, map[string]any{
		"user":  a.user(),
		"token": s.issueToken(a),
	})
}
