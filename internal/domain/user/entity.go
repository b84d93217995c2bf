package user

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
	DepartmentID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleSupervisor Role = "Supervisor"
	RoleTechnician Role = "Technician"
)

var RoleValues = []string{
	string(RoleAdmin),
	string(RoleSupervisor),
	string(RoleTechnician),
}

// ParseRole normalizes loosely-typed role values coming from legacy rows
// or request payloads into a strict Role. Unknown values map to Technician.
func ParseRole(s string) Role {
	switch normalized(s) {
	case "admin":
		return RoleAdmin
	case "supervisor":
		return RoleSupervisor
	case "technician", "tecnico":
		return RoleTechnician
	default:
		return RoleTechnician
	}
}

func normalized(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ' || r == '_' || r == '-':
			// drop separators
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
