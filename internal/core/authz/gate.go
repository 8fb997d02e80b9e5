// Package authz holds the access gate: a single declarative table mapping
// each operation to the role allowed to invoke it, plus any extra
// predicate. Keeping the whole policy in one data structure keeps it
// auditable and testable in isolation.
package authz

import (
	"github.com/whiteboard/enrollment-service/internal/core/domain"
)

// Operation names a privileged action. Download variants share the
// policy row of their base operation.
type Operation string

const (
	OpAddCourse        Operation = "add-course"
	OpRegisterCourse   Operation = "register-course"
	OpMyCourses        Operation = "my-courses"
	OpMyCourseStudents Operation = "my-course-students"
	OpListStudents     Operation = "list-students"
	OpListProfessors   Operation = "list-professors"
	OpDeleteStudent    Operation = "delete-student"
	OpRegisterUser     Operation = "register-user"
)

// policy is one row of the authorization table. Extra, when set, is an
// additional predicate over the caller and the operation target.
type policy struct {
	role  domain.Role
	extra func(p domain.Principal, target string) bool
}

// selfOnly forbids acting on behalf of another identity: the target
// email must be the caller's own.
func selfOnly(p domain.Principal, target string) bool {
	return target == p.Email
}

var table = map[Operation]policy{
	OpAddCourse:        {role: domain.RoleAdmin},
	OpRegisterCourse:   {role: domain.RoleStudent, extra: selfOnly},
	OpMyCourses:        {role: domain.RoleStudent},
	OpMyCourseStudents: {role: domain.RoleProfessor},
	OpListStudents:     {role: domain.RoleAdmin},
	OpListProfessors:   {role: domain.RoleAdmin},
	OpDeleteStudent:    {role: domain.RoleAdmin},
	OpRegisterUser:     {role: domain.RoleAdmin},
}

// Gate evaluates the policy table. It is stateless and consulted on
// every call; a denial is terminal for the request.
type Gate struct{}

func NewGate() *Gate { return &Gate{} }

// Authorize returns nil when the caller's role (and the extra predicate,
// if any) permits the operation, ErrNotAuthorized otherwise. The denial
// carries no detail beyond that, to avoid leaking role information.
func (g *Gate) Authorize(p domain.Principal, op Operation, target string) error {
	pol, ok := table[op]
	if !ok {
		return domain.ErrNotAuthorized
	}
	if p.Role != pol.role {
		return domain.ErrNotAuthorized
	}
	if pol.extra != nil && !pol.extra(p, target) {
		return domain.ErrNotAuthorized
	}
	return nil
}
