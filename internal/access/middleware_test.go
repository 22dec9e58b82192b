package access

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campus-erp/campus-erp/internal/shared"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestWithRole(role string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/students", nil)
	if role == "" {
		return req
	}
	identity := &shared.Identity{UserID: 7, Email: "u@example.com", Role: role}
	return req.WithContext(shared.ContextWithIdentity(req.Context(), identity))
}

func TestRequireAuthWithoutIdentity(t *testing.T) {
	guard := Guard{}
	rr := httptest.NewRecorder()
	guard.RequireAuth(okHandler()).ServeHTTP(rr, requestWithRole(""))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireRolesDeniesWrongRole(t *testing.T) {
	guard := Guard{}
	mw := guard.RequireRoles(RoleSuperAdmin, RoleSchoolAdmin)

	rr := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rr, requestWithRole(string(RoleTeacher)))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rr, requestWithRole(string(RoleSchoolAdmin)))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rr, requestWithRole(""))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireModuleEnforcesAccessTable(t *testing.T) {
	guard := Guard{}
	mw := guard.RequireModule("students")

	rr := httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rr, requestWithRole(string(RoleStudent)))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rr, requestWithRole(string(RoleReceptionist)))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	mw(okHandler()).ServeHTTP(rr, requestWithRole("made_up_role"))
	assert.Equal(t, http.StatusForbidden, rr.Code)
}
