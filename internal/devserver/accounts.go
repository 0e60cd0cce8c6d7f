package devserver

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/me/eduportal/pkg/model"
	"golang.org/x/crypto/bcrypt"
)

// AccountSpec describes an account in plain text. Passwords are hashed when
// the server is built.
type AccountSpec struct {
	ID         string
	Role       model.Role
	Name       string
	Email      string
	Password   string
	AccessCode string
}

// DemoAccounts returns the accounts every stand-in server starts with.
func DemoAccounts() []AccountSpec {
	return []AccountSpec{
		{ID: "usr_admin", Role: model.RoleAdmin, Name: "Demo Admin", Email: "admin@demo.eduportal.dev", Password: "demo-admin"},
		{ID: "usr_teacher", Role: model.RoleTeacher, Name: "Demo Teacher", Email: "teacher@demo.eduportal.dev", Password: "demo-teacher"},
		{ID: "usr_parent", Role: model.RoleParent, Name: "Demo Parent", Email: "parent@demo.eduportal.dev", Password: "demo-parent"},
		{ID: "usr_student", Role: model.RoleStudent, Name: "Demo Student", AccessCode: "STUDEMO"},
	}
}

type account struct {
	ID           string
	Role         model.Role
	Name         string
	Email        string
	PasswordHash []byte
	AccessCode   string
}

func (a *account) user() *model.User {
	return &model.User{ID: a.ID, Role: a.Role, Name: a.Name, Email: a.Email}
}

type issuedToken struct {
	accountID string
	expiresAt time.Time
}

// authenticate finds the account matching role and credentials.
func (s *Server) authenticate(role model.Role, c model.Credentials) *account {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if a.Role != role {
			continue
		}
		if role.UsesAccessCode() {
			if strings.EqualFold(strings.TrimSpace(a.Name), strings.TrimSpace(c.Name)) &&
				a.AccessCode == strings.TrimSpace(c.AccessCode) {
				return a
			}
			continue
		}
		if !strings.EqualFold(a.Email, strings.TrimSpace(c.Email)) {
			continue
		}
		if bcrypt.CompareHashAndPassword(a.PasswordHash, []byte(c.Password)) == nil {
			return a
		}
		return nil
	}
	return nil
}

// issueToken creates a bearer token for a.
func (s *Server) issueToken(a *account) string {
	token := "tok_" + uuid.New().String()
	s.mu.Lock()
	s.tokens[token] = issuedToken{accountID: a.ID, expiresAt: time.Now().Add(s.config.TokenTTL)}
	s.mu.Unlock()
	return token
}

// lookupToken returns the account for a live token, or nil.
func (s *Server) lookupToken(token string) *account {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.tokens[token]
	if !ok {
		return nil
	}
	if time.Now().After(it.expiresAt) {
		delete(s.tokens, token)
		return nil
	}
	return s.accountByIDLocked(it.accountID)
}

func (s *Server) accountByIDLocked(id string) *account {
	for _, a := range s.accounts {
		if a.ID == id {
			return a
		}
	}
	return nil
}
