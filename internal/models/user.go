package models

// Roles
const (
	RoleAdmin       = "admin"
	RoleFuncionario = "funcionario"
	RoleConsulta    = "consulta"
)

type User struct {
	ID           string `json:"id"`
	Nombre       string `json:"nombre"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Never expose in JSON
	Rol          string `json:"rol"`
	AgenciaID    string `json:"agenciaId,omitempty"`
}

// ValidRole reports whether r is one of the known roles
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleFuncionario, RoleConsulta:
		return true
	}
	return false
}

// CanWrite reports whether the role may create, edit or delete records
func (u *User) CanWrite() bool {
	return u.Rol == RoleAdmin || u.Rol == RoleFuncionario
}

// Officer is the reduced projection of a user embedded in visit views
type Officer struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
}

// Caller identifies the authenticated user on whose behalf a mutation runs
type Caller struct {
	ID     string
	Nombre string
	Email  string
	Rol    string
}

// Authenticated reports whether the caller carries an identity
func (c Caller) Authenticated() bool {
	return c.ID != ""
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
