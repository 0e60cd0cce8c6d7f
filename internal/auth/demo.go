package auth

import "github.com/me/eduportal/pkg/model"

// demoCredentials are the pre-canned logins behind LoginDemo.
var demoCredentials = map[model.Role]model.Credentials{
	model.RoleAdmin:   {Email: "admin@demo.eduportal.dev", Password: "demo-admin"},
	model.RoleTeacher: {Email: "teacher@demo.eduportal.dev", Password: "demo-teacher"},
	model.RoleParent:  {Email: "parent@demo.eduportal.dev", Password: "demo-parent"},
	model.RoleStudent: {Name: "Demo Student", AccessCode: "STUDEMO"},
}

// DemoCredentials returns the demo login for role.
func DemoCredentials(role model.Role) (model.Credentials, bool) {
	c, ok := demoCredentials[role]
	return c, ok
}
