package domain

type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleProfessor Role = "PROFESSOR"
	RoleStudent   Role = "STUDENT"
)

// Identity is an authenticated principal managed by the external identity
// provider. The enrollment service only reads it; creation and deletion go
// through the provider.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
	// Course is the professor's single assigned course. Empty for every
	// other role. One professor teaches exactly one course.
	Course string `json:"course,omitempty"`
}

// Principal carries the authenticated caller's claims through a request.
type Principal struct {
	UserID string
	Email  string
	Role   Role
	Course string
}
