package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whiteboard/enrollment-service/internal/adapters/export"
	"github.com/whiteboard/enrollment-service/internal/adapters/middleware"
	"github.com/whiteboard/enrollment-service/internal/core/authz"
	"github.com/whiteboard/enrollment-service/internal/core/domain"
	"github.com/whiteboard/enrollment-service/internal/core/services"
	"github.com/whiteboard/enrollment-service/test/mocks"
)

func newUserFixture() (*UserHandler, *mocks.MockIdentityProvider) {
	identity := mocks.NewMockIdentityProvider()
	svc := services.NewDirectoryService(identity)
	return NewUserHandler(authz.NewGate(), svc, export.NewExcelExporter()), identity
}

func seedDirectory(identity *mocks.MockIdentityProvider) {
	identity.SeedUser(domain.Identity{ID: "s1", Email: "a@x.com", FullName: "Ada Lovelace", Role: domain.RoleStudent})
	identity.SeedUser(domain.Identity{ID: "s2", Email: "b@x.com", FullName: "Barbara Liskov", Role: domain.RoleStudent})
	identity.SeedUser(domain.Identity{ID: "p1", Email: "prof@x.com", FullName: "Grace Hopper", Role: domain.RoleProfessor, Course: "CS101"})
}

func TestUserHandler_ListStudents(t *testing.T) {
	h, identity := newUserFixture()
	seedDirectory(identity)

	rec := doJSON(t, h.ListStudents, http.MethodGet, "/api/user/liststudents", adminPrincipal, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []domain.StudentRow
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rows))
	assert.Len(t, rows, 2)

	rec = doJSON(t, h.ListStudents, http.MethodGet, "/api/user/liststudents", professorPrincipal, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserHandler_ListProfessors(t *testing.T) {
	h, identity := newUserFixture()
	seedDirectory(identity)

	rec := doJSON(t, h.ListProfessors, http.MethodGet, "/api/user/listprofessors", adminPrincipal, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []domain.ProfessorRow
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "CS101", rows[0].Course)
}

func TestUserHandler_RegisterUser(t *testing.T) {
	h, identity := newUserFixture()

	rec := doJSON(t, h.RegisterUser, http.MethodPost, "/api/user/register", adminPrincipal,
		RegisterUserRequest{FullName: "New Student", Email: "new@x.com", Password: "secret", Role: "STUDENT"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, identity.CreatedUsers, 1)

	// a professor needs an assigned course
	rec = doJSON(t, h.RegisterUser, http.MethodPost, "/api/user/register", adminPrincipal,
		RegisterUserRequest{FullName: "New Prof", Email: "np@x.com", Password: "secret", Role: "PROFESSOR"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h.RegisterUser, http.MethodPost, "/api/user/register", adminPrincipal,
		RegisterUserRequest{FullName: "X", Email: "x@x.com", Password: "secret", Role: "WIZARD"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h.RegisterUser, http.MethodPost, "/api/user/register", studentPrincipal,
		RegisterUserRequest{FullName: "New Student", Email: "new2@x.com", Password: "secret", Role: "STUDENT"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func deleteRequest(t *testing.T, h *UserHandler, principal domain.Principal, username string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodDelete, "/api/user/"+username, nil)
	req.SetPathValue("username", username)
	req = req.WithContext(middleware.WithPrincipal(req.Context(), principal))
	rec := httptest.NewRecorder()
	h.DeleteStudent(rec, req)
	return rec
}

func TestUserHandler_DeleteStudent(t *testing.T) {
	h, identity := newUserFixture()
	seedDirectory(identity)

	rec := deleteRequest(t, h, adminPrincipal, "a@x.com")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"a@x.com"}, identity.DeleteCalls)

	rec = deleteRequest(t, h, adminPrincipal, "ghost@x.com")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = deleteRequest(t, h, adminPrincipal, "prof@x.com")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = deleteRequest(t, h, professorPrincipal, "b@x.com")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserHandler_DeleteStudentUpstreamFailure(t *testing.T) {
	h, identity := newUserFixture()
	seedDirectory(identity)
	identity.DeleteError = assert.AnError

	rec := deleteRequest(t, h, adminPrincipal, "a@x.com")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestUserHandler_DownloadStudents(t *testing.T) {
	h, identity := newUserFixture()
	seedDirectory(identity)

	rec := doJSON(t, h.DownloadStudents, http.MethodGet, "/api/user/liststudents/download", adminPrincipal, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Students.xlsx")
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestUserHandler_DownloadProfessors(t *testing.T) {
	h, identity := newUserFixture()
	seedDirectory(identity)

	rec := doJSON(t, h.DownloadProfessors, http.MethodGet, "/api/user/listprofessors/download", adminPrincipal, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Professors.xlsx")
}
