package handler

import (
	"bytes"
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

var (
	adminPrincipal     = domain.Principal{UserID: "a1", Email: "admin@x.com", Role: domain.RoleAdmin}
	studentPrincipal   = domain.Principal{UserID: "s1", Email: "a@x.com", Role: domain.RoleStudent}
	professorPrincipal = domain.Principal{UserID: "p1", Email: "prof@x.com", Role: domain.RoleProfessor, Course: "CS101"}
)

func newCourseFixture() (*CourseHandler, *mocks.MockIdentityProvider) {
	repo := mocks.NewMockEnrollmentRepository()
	identity := mocks.NewMockIdentityProvider()
	svc := services.NewEnrollmentService(repo, identity)
	return NewCourseHandler(authz.NewGate(), svc, export.NewExcelExporter()), identity
}

func doJSON(t *testing.T, h http.HandlerFunc, method, path string, principal domain.Principal, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req = req.WithContext(middleware.WithPrincipal(req.Context(), principal))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestCourseHandler_AddCourse(t *testing.T) {
	h, _ := newCourseFixture()

	rec := doJSON(t, h.AddCourse, http.MethodPost, "/api/courses/add", adminPrincipal,
		AddCourseRequest{CourseID: "CS101", CourseName: "Intro"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h.AddCourse, http.MethodPost, "/api/courses/add", adminPrincipal,
		AddCourseRequest{CourseID: "CS101", CourseName: "Intro"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCourseHandler_AddCourseValidation(t *testing.T) {
	h, _ := newCourseFixture()

	rec := doJSON(t, h.AddCourse, http.MethodPost, "/api/courses/add", adminPrincipal,
		AddCourseRequest{CourseID: "CS101", CourseName: "ab"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h.AddCourse, http.MethodPost, "/api/courses/add", adminPrincipal,
		AddCourseRequest{CourseName: "Valid Name"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCourseHandler_AddCourseRequiresAdmin(t *testing.T) {
	h, _ := newCourseFixture()

	rec := doJSON(t, h.AddCourse, http.MethodPost, "/api/courses/add", studentPrincipal,
		AddCourseRequest{CourseID: "CS101", CourseName: "Intro"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCourseHandler_RegisterCourse(t *testing.T) {
	h, identity := newCourseFixture()
	identity.SeedUser(domain.Identity{ID: "s1", Email: "a@x.com", FullName: "Ada Lovelace", Role: domain.RoleStudent})

	rec := doJSON(t, h.AddCourse, http.MethodPost, "/api/courses/add", adminPrincipal,
		AddCourseRequest{CourseID: "CS101", CourseName: "Intro"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h.RegisterCourse, http.MethodPost, "/api/courses/registerCourse", studentPrincipal,
		RegisterCourseRequest{Email: "a@x.com", CourseID: "CS101"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	// registering on behalf of another student is denied outright
	rec = doJSON(t, h.RegisterCourse, http.MethodPost, "/api/courses/registerCourse", studentPrincipal,
		RegisterCourseRequest{Email: "b@x.com", CourseID: "CS101"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, h.RegisterCourse, http.MethodPost, "/api/courses/registerCourse", studentPrincipal,
		RegisterCourseRequest{Email: "a@x.com", CourseID: "CS101"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, h.RegisterCourse, http.MethodPost, "/api/courses/registerCourse", studentPrincipal,
		RegisterCourseRequest{Email: "a@x.com", CourseID: "NOPE"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCourseHandler_MyCourses(t *testing.T) {
	h, identity := newCourseFixture()
	identity.SeedUser(domain.Identity{ID: "s1", Email: "a@x.com", FullName: "Ada Lovelace", Role: domain.RoleStudent})

	doJSON(t, h.AddCourse, http.MethodPost, "/api/courses/add", adminPrincipal,
		AddCourseRequest{CourseID: "CS101", CourseName: "Intro"})
	doJSON(t, h.RegisterCourse, http.MethodPost, "/api/courses/registerCourse", studentPrincipal,
		RegisterCourseRequest{Email: "a@x.com", CourseID: "CS101"})

	rec := doJSON(t, h.MyCourses, http.MethodGet, "/api/courses/myCourses", studentPrincipal, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var courses []domain.Course
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&courses))
	require.Len(t, courses, 1)
	assert.Equal(t, "CS101", courses[0].ID)
}

func TestCourseHandler_MyCourseStudents(t *testing.T) {
	h, identity := newCourseFixture()
	identity.SeedUser(domain.Identity{ID: "s1", Email: "a@x.com", FullName: "Ada Lovelace", Role: domain.RoleStudent})

	doJSON(t, h.AddCourse, http.MethodPost, "/api/courses/add", adminPrincipal,
		AddCourseRequest{CourseID: "CS101", CourseName: "Intro"})
	doJSON(t, h.RegisterCourse, http.MethodPost, "/api/courses/registerCourse", studentPrincipal,
		RegisterCourseRequest{Email: "a@x.com", CourseID: "CS101"})

	rec := doJSON(t, h.MyCourseStudents, http.MethodGet, "/api/courses/myCourseStudents", professorPrincipal, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var rows []domain.StudentRow
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "a@x.com", rows[0].Email)
	assert.Equal(t, "Ada Lovelace", rows[0].FullName)

	rec = doJSON(t, h.MyCourseStudents, http.MethodGet, "/api/courses/myCourseStudents", adminPrincipal, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCourseHandler_DownloadMyCourseStudents(t *testing.T) {
	h, identity := newCourseFixture()
	identity.SeedUser(domain.Identity{ID: "s1", Email: "a@x.com", FullName: "Ada Lovelace", Role: domain.RoleStudent})

	doJSON(t, h.AddCourse, http.MethodPost, "/api/courses/add", adminPrincipal,
		AddCourseRequest{CourseID: "CS101", CourseName: "Intro"})
	doJSON(t, h.RegisterCourse, http.MethodPost, "/api/courses/registerCourse", studentPrincipal,
		RegisterCourseRequest{Email: "a@x.com", CourseID: "CS101"})

	rec := doJSON(t, h.DownloadMyCourseStudents, http.MethodGet, "/api/courses/myCourseStudents/download", professorPrincipal, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Students.xlsx")
	assert.NotEmpty(t, rec.Body.Bytes())
}
