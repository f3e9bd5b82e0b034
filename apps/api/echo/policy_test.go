package echoapi

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/guicardoso0404/sigeas/core/user"
)

func TestAllowUnknownAction(t *testing.T) {
	assert.Panics(t, func() { allow("users.destroy") })
}

func TestPoliciesAreWellFormed(t *testing.T) {
	for action, r := range policies {
		assert.NotEmpty(t, r.roles, action)
		for _, role := range append(r.roles, r.selfRoles...) {
			assert.True(t, user.IsValidRole(role), "%s: %s", action, role)
		}
		if len(r.selfRoles) > 0 {
			assert.NotEmpty(t, r.selfParam, action)
		}
	}
}

// no route answers an authenticated student with a server error
func TestRoutesAsStudent(t *testing.T) {
	app := setup(t)
	std := app.createUser(t, "Bruno Lima", "bruno@school.test", user.RoleStudent)
	token := app.token(t, std)

	for _, r := range app.app.Routes() {
		if r.Method == "echo_route_not_found" || !strings.Contains(r.Path, "/") || r.Path == "/" ||
			strings.HasPrefix(r.Path, "/auth") || r.Path == "/health" || r.Path == "/metrics" || strings.HasSuffix(r.Path, "*") {
			continue
		}
		path := strings.NewReplacer(":studentId", "999", ":id", "999").Replace(r.Path)
		rec := app.do(r.Method, path, token)
		assert.Contains(t, []int{http.StatusOK, http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound}, rec.Code, fmt.Sprintf("%s %s", r.Method, r.Path))
		assert.NotEqual(t, http.StatusInternalServerError, rec.Code)
	}
}

func TestRoleGate(t *testing.T) {
	app := setup(t)
	ped := app.createUser(t, "Paula Souza", "paula@school.test", user.RolePedagogue)
	tch := app.createUser(t, "Tiago Alves", "tiago@school.test", user.RoleTeacher)
	std := app.createUser(t, "Bruno Lima", "bruno@school.test", user.RoleStudent)
	other := app.createUser(t, "Carla Dias", "carla@school.test", user.RoleStudent)

	pedToken, tchToken, stdToken := app.token(t, ped), app.token(t, tch), app.token(t, std)
	usrPath := func(u user.User) string { return fmt.Sprintf("/users/%d", u.ID) }

	app.run(t, []httpTest{
		{name: "student cannot list users", method: http.MethodGet, path: "/users", token: stdToken, wantCode: http.StatusForbidden, wantMsg: "permission denied"},
		{name: "teacher cannot list users", method: http.MethodGet, path: "/users", token: tchToken, wantCode: http.StatusForbidden},
		{name: "pedagogue lists users", method: http.MethodGet, path: "/users", token: pedToken, wantCode: http.StatusOK},
		{name: "student reads self", method: http.MethodGet, path: usrPath(std), token: stdToken, wantCode: http.StatusOK},
		{name: "student cannot read other", method: http.MethodGet, path: usrPath(other), token: stdToken, wantCode: http.StatusForbidden},
		{name: "teacher reads student", method: http.MethodGet, path: usrPath(std), token: tchToken, wantCode: http.StatusOK},
		{name: "teacher patches self", method: http.MethodPatch, path: usrPath(tch), token: tchToken, body: `{"name":"Tiago A. Alves"}`, wantCode: http.StatusOK},
		{name: "teacher cannot patch student", method: http.MethodPatch, path: usrPath(std), token: tchToken, body: `{"name":"X"}`, wantCode: http.StatusForbidden},
		{name: "pedagogue patches student", method: http.MethodPatch, path: usrPath(std), token: pedToken, body: `{"age":15}`, wantCode: http.StatusOK},
		{name: "unknown user", method: http.MethodGet, path: "/users/999", token: pedToken, wantCode: http.StatusNotFound, wantMsg: "user not found"},
		{name: "student cannot create class", method: http.MethodPost, path: "/classes", token: stdToken, body: `{}`, wantCode: http.StatusForbidden},
		{name: "teacher cannot enroll", method: http.MethodPost, path: "/enrollments", token: tchToken, body: `{}`, wantCode: http.StatusForbidden},
		{name: "student cannot read others grades", method: http.MethodGet, path: fmt.Sprintf("/students/%d/grades", other.ID), token: stdToken, wantCode: http.StatusForbidden},
		{name: "student reads own grades", method: http.MethodGet, path: fmt.Sprintf("/students/%d/grades", std.ID), token: stdToken, wantCode: http.StatusOK},
		{name: "student reads own attendance", method: http.MethodGet, path: fmt.Sprintf("/students/%d/attendance", std.ID), token: stdToken, wantCode: http.StatusOK},
		{name: "student cannot record attendance", method: http.MethodPost, path: "/attendance", token: stdToken, body: `{}`, wantCode: http.StatusForbidden},
	})
}
