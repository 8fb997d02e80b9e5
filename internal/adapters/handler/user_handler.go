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

type UserHandler struct {
	gate      *authz.Gate
	directory ports.DirectoryService
	exporter  ports.RosterExporter
}

func NewUserHandler(gate *authz.Gate, directory ports.DirectoryService, exporter ports.RosterExporter) *UserHandler {
	return &UserHandler{gate: gate, directory: directory, exporter: exporter}
}

type RegisterUserRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Course   string `json:"course,omitempty"`
}

// RegisterUser passes a new identity through to the provider. Admin only.
func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	if err := h.gate.Authorize(principal, authz.OpRegisterUser, ""); err != nil {
		writeError(w, err)
		return
	}

	var req RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ValidationError("invalid request payload"))
		return
	}
	if req.FullName == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		writeError(w, domain.ValidationError("full_name, email, password and role are required"))
		return
	}
	switch domain.Role(req.Role) {
	case domain.RoleAdmin, domain.RoleProfessor, domain.RoleStudent:
	default:
		writeError(w, domain.ValidationError("unsupported role"))
		return
	}
	if domain.Role(req.Role) == domain.RoleProfessor && req.Course == "" {
		writeError(w, domain.ValidationError("a professor requires an assigned course"))
		return
	}

	created, err := h.directory.RegisterUser(r.Context(), ports.NewUser{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Course:   req.Course,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ListStudents returns every Student identity. Admin only.
func (h *UserHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	rows, err := h.studentRows(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// DownloadStudents exports the student listing as a spreadsheet.
func (h *UserHandler) DownloadStudents(w http.ResponseWriter, r *http.Request) {
	rows, err := h.studentRows(r)
	if err != nil {
		writeError(w, err)
		return
	}

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, []string{row.Email, row.FullName})
	}

	h.download(w, "Students", []string{"Email", "Full Name"}, cells, "Students.xlsx")
}

// ListProfessors returns every Professor identity with their assigned
// course. Admin only.
func (h *UserHandler) ListProfessors(w http.ResponseWriter, r *http.Request) {
	rows, err := h.professorRows(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// DownloadProfessors exports the professor listing as a spreadsheet.
func (h *UserHandler) DownloadProfessors(w http.ResponseWriter, r *http.Request) {
	rows, err := h.professorRows(r)
	if err != nil {
		writeError(w, err)
		return
	}

	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, []string{row.Email, row.FullName, row.Course})
	}

	h.download(w, "Professors", []string{"Email", "Full Name", "Course"}, cells, "Professors.xlsx")
}

// DeleteStudent removes a student identity by email. Admin only; a
// non-student email is rejected before any mutation.
func (h *UserHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	email := r.PathValue("username")
	if email == "" {
		writeError(w, domain.ValidationError("username is required"))
		return
	}

	if err := h.gate.Authorize(principal, authz.OpDeleteStudent, email); err != nil {
		writeError(w, err)
		return
	}

	if err := h.directory.DeleteStudent(r.Context(), email); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Student deleted successfully."})
}

func (h *UserHandler) studentRows(r *http.Request) ([]domain.StudentRow, error) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		return nil, domain.ErrNotAuthorized
	}
	if err := h.gate.Authorize(principal, authz.OpListStudents, ""); err != nil {
		return nil, err
	}
	return h.directory.ListStudents(r.Context())
}

func (h *UserHandler) professorRows(r *http.Request) ([]domain.ProfessorRow, error) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		return nil, domain.ErrNotAuthorized
	}
	if err := h.gate.Authorize(principal, authz.OpListProfessors, ""); err != nil {
		return nil, err
	}
	return h.directory.ListProfessors(r.Context())
}

func (h *UserHandler) download(w http.ResponseWriter, sheet string, headers []string, cells [][]string, filename string) {
	data, contentType, err := h.exporter.Export(sheet, headers, cells)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
