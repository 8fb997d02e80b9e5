package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/whiteboard/enrollment-service/internal/adapters/middleware"
	"github.com/whiteboard/enrollment-service/internal/core/authz"
	"github.com/whiteboard/enrollment-service/internal/core/domain"
	"github.com/whiteboard/enrollment-service/internal/core/ports"
)

type CourseHandler struct {
	gate       *authz.Gate
	enrollment ports.EnrollmentService
	exporter   ports.RosterExporter
}

func NewCourseHandler(gate *authz.Gate, enrollment ports.EnrollmentService, exporter ports.RosterExporter) *CourseHandler {
	return &CourseHandler{gate: gate, enrollment: enrollment, exporter: exporter}
}

type AddCourseRequest struct {
	CourseID   string `json:"course_id"`
	CourseName string `json:"course_name"`
}

type RegisterCourseRequest struct {
	Email    string `json:"email"`
	CourseID string `json:"course_id"`
}

// AddCourse creates a catalog entry. Admin only.
func (h *CourseHandler) AddCourse(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req AddCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ValidationError("invalid request payload"))
		return
	}

	if err := h.gate.Authorize(principal, authz.OpAddCourse, req.CourseID); err != nil {
		writeError(w, err)
		return
	}

	if req.CourseID == "" {
		writeError(w, domain.ValidationError("course_id is required"))
		return
	}
	if len(req.CourseName) < 3 || len(req.CourseName) > 100 {
		writeError(w, domain.ValidationError("course_name must be between 3 and 100 characters"))
		return
	}

	if err := h.enrollment.AddCourse(r.Context(), req.CourseID, req.CourseName); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{Message: "Course added successfully."})
}

// RegisterCourse enrolls the calling student into a course. The gate
// rejects registration on behalf of anyone else.
func (h *CourseHandler) RegisterCourse(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req RegisterCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ValidationError("invalid request payload"))
		return
	}

	if err := h.gate.Authorize(principal, authz.OpRegisterCourse, req.Email); err != nil {
		writeError(w, err)
		return
	}

	if err := h.enrollment.RegisterStudent(r.Context(), req.Email, req.CourseID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{Message: "Student registered for course successfully."})
}

// MyCourses lists the calling student's enrollments.
func (h *CourseHandler) MyCourses(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	if err := h.gate.Authorize(principal, authz.OpMyCourses, ""); err != nil {
		writeError(w, err)
		return
	}

	courses, err := h.enrollment.ListCoursesForStudent(r.Context(), principal.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, courses)
}

// MyCourseStudents lists the roster of the calling professor's assigned
// course. The scope is implicit; there is no course parameter.
func (h *CourseHandler) MyCourseStudents(w http.ResponseWriter, r *http.Request) {
	rows, err := h.courseRoster(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// DownloadMyCourseStudents hands the same roster to the spreadsheet
// exporter.
func (h *CourseHandler) DownloadMyCourseStudents(w http.ResponseWriter, r *http.Request) {
	rows, err := h.courseRoster(r)
	if err != nil {
		writeError(w, err)
		return
	}

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, []string{row.Email, row.FullName})
	}

	data, contentType, err := h.exporter.Export("Students", []string{"Email", "Full Name"}, cells)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "Students.xlsx"))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *CourseHandler) courseRoster(r *http.Request) ([]domain.StudentRow, error) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		return nil, domain.ErrNotAuthorized
	}

	if err := h.gate.Authorize(principal, authz.OpMyCourseStudents, ""); err != nil {
		return nil, err
	}

	return h.enrollment.ListStudentsForCourse(r.Context(), principal.Course)
}
