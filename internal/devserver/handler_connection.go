package devserver

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/me/eduportal/pkg/model"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// pendingCode is a registered pairing code. Codes stay valid until they
// expire so a teacher can share one code with a whole class.
type pendingCode struct {
	accountID string
	expiresAt time.Time
}

func (s *Server) handleGenerateCode(w http.ResponseWriter, r *http.Request) {
	var req model.GenerateCodeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !codePattern.MatchString(req.Code) {
		respondError(w, http.StatusBadRequest, "Connection code must be 6 uppercase letters or digits")
		return
	}
	if req.UserRole != model.RoleTeacher && req.UserRole != model.RoleParent {
		respondError(w, http.StatusBadRequest, "Only teachers and parents can generate connection codes")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.accountByIDLocked(req.UserID)
	if a == nil || a.Role != req.UserRole {
		respondError(w, http.StatusNotFound, "Unknown user")
		return
	}
	if existing, ok := s.codes[req.Code]; ok && time.Now().Before(existing.expiresAt) {
		respondError(w, http.StatusConflict, "Connection code already in use")
		return
	}
	s.codes[req.Code] = pendingCode{accountID: a.ID, expiresAt: time.Now().Add(s.config.CodeTTL)}

	respondOK(w, map[string]any{"code": req.Code})
}

func (s *Server) handleVerifyCode(w http.ResponseWriter, r *http.Request) {
	var req model.VerifyCodeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	s.mu.Lock()
	defer s.mu.Unlock()

	pc, ok := s.codes[code]
	if !ok || time.Now().After(pc.expiresAt) {
		delete(s.codes, code)
		respondError(w, http.StatusNotFound, "Invalid or expired connection code")
		return
	}
	a := s.accountByIDLocked(pc.accountID)
	if a == nil {
		respondError(w, http.StatusNotFound, "Invalid or expired connection code")
		return
	}

	respondOK(w, map[string]any{
		"connection": model.VerifiedPeer{
			Type:   model.ConnectionType(a.Role),
			Name:   a.Name,
			UserID: a.ID,
		},
	})
}
