package echoapi

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/guicardoso0404/sigeas/core/user"
)

const (
	ped = user.RolePedagogue
	tch = user.RoleTeacher
	stu = user.RoleStudent
)

// rule lists the roles allowed to perform an action.
// Callers whose role is in selfRoles may only act on the record named by the selfParam route param.
type rule struct {
	roles     []string
	selfParam string
	selfRoles []string
}

var policies = map[string]rule{
	"users.list":   {roles: []string{ped}},
	"users.create": {roles: []string{ped}},
	"users.read":   {roles: []string{ped, tch, stu}, selfParam: "id", selfRoles: []string{stu}},
	"users.update": {roles: []string{ped, tch, stu}, selfParam: "id", selfRoles: []string{tch, stu}},

	"classes.list":     {roles: []string{ped, tch, stu}},
	"classes.read":     {roles: []string{ped, tch, stu}},
	"classes.create":   {roles: []string{ped}},
	"classes.update":   {roles: []string{ped}},
	"classes.delete":   {roles: []string{ped}},
	"classes.students": {roles: []string{ped, tch}},

	"enrollments.list":   {roles: []string{ped, tch}},
	"enrollments.create": {roles: []string{ped}},
	"enrollments.update": {roles: []string{ped}},
	"enrollments.delete": {roles: []string{ped}},

	"grades.list":    {roles: []string{ped, tch}},
	"grades.create":  {roles: []string{ped, tch}},
	"grades.update":  {roles: []string{ped, tch}},
	"grades.delete":  {roles: []string{ped, tch}},
	"grades.export":  {roles: []string{ped, tch}},
	"grades.student": {roles: []string{ped, tch, stu}, selfParam: "studentId", selfRoles: []string{stu}},

	"attendance.list":    {roles: []string{ped, tch}},
	"attendance.record":  {roles: []string{ped, tch}},
	"attendance.update":  {roles: []string{ped, tch}},
	"attendance.delete":  {roles: []string{ped, tch}},
	"attendance.export":  {roles: []string{ped, tch}},
	"attendance.student": {roles: []string{ped, tch, stu}, selfParam: "studentId", selfRoles: []string{stu}},

	"assignments.list":   {roles: []string{ped, tch, stu}},
	"assignments.create": {roles: []string{ped, tch}},
	"assignments.update": {roles: []string{ped, tch}},
	"assignments.delete": {roles: []string{ped, tch}},
}

func hasRole(role string, roles []string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// requireRole lets through callers whose role is one of allowed.
func requireRole(allowed ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil || claims.Role == "" {
				return errUnauthorized
			}
			if !hasRole(claims.Role, allowed) {
				return errHttpForbidden
			}
			return next(ctx)
		}
	}
}

// allow enforces the policy of action; unknown actions panic at route registration.
func allow(action string) echo.MiddlewareFunc {
	r, ok := policies[action]
	if !ok {
		panic(fmt.Sprintf("no policy for %q", action))
	}
	roleGate := requireRole(r.roles...)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		self := func(ctx echo.Context) error {
			if r.selfParam != "" {
				claims, err := getContextClaims(ctx)
				if err != nil {
					return err
				}
				if hasRole(claims.Role, r.selfRoles) && ctx.Param(r.selfParam) != strconv.Itoa(claims.UserID) {
					return errHttpForbidden
				}
			}
			return next(ctx)
		}
		return roleGate(self)
	}
}
