package connection

import (
	"context"

	"github.com/me/eduportal/pkg/model"
)

// ModalView is the role-specific content of the connections dialog.
type ModalView struct {
	Role  model.Role
	Title string
	// ShowInput is set for students, who type a code.
	ShowInput   bool
	Connections []model.Connection
	// Code is the code just registered for a teacher or parent.
	Code    string
	Message string
}

// View builds the dialog for the given user. For teachers and parents it
// registers a fresh code and shows exactly the code Generate returned.
func (s *Service) View(ctx context.Context, role model.Role, userID string) ModalView {
	switch role {
	case model.RoleStudent:
		return ModalView{
			Role:        role,
			Title:       "Connect with your teacher or parent",
			ShowInput:   true,
			Connections: s.Connections(ctx, role),
		}
	case model.RoleTeacher, model.RoleParent:
		v := ModalView{Role: role, Title: "Share this code with your student"}
		res := s.Generate(ctx, userID, role)
		if res.Success {
			v.Code = res.Code
		} else {
			v.Message = res.Message
		}
		return v
	default:
		return ModalView{Role: role, Message: "Connections are available to students, teachers and parents"}
	}
}
