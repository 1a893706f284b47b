package models

// Role is the closed set of authorization roles a user can hold.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// IsAdmin reports whether the role grants administrative access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// User represents the user model in the database
type User struct {
	Base
	Username string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     Role      `gorm:"size:16;not null;default:user" json:"role"`
	Budget   float64   `gorm:"not null;default:0" json:"budget"`
	Expenses []Expense `gorm:"foreignKey:UserID" json:"expenses,omitempty"`
	Incomes  []Income  `gorm:"foreignKey:UserID" json:"incomes,omitempty"`
	Sessions []Session `gorm:"foreignKey:UserID" json:"-"`
}
