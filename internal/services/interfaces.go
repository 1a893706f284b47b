package services

import (
	"time"

	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(username, email, password string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	ChangePassword(userID uint, oldPassword, newPassword string) error
	UpdateBudget(userID uint, budget float64) (*models.User, error)
	DeleteUser(id uint) error
	GetAllUsers(page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	GetUserRole(userID uint) (models.Role, error)

	// Active-token set management.
	StoreToken(userID uint, tokenHash string, expiresAt time.Time) error
	RevokeToken(userID uint, tokenHash string) error
	IsTokenActive(userID uint, tokenHash string) bool
}

// ExpenseReport aggregates a user's expenses over an inclusive date range.
type ExpenseReport struct {
	TotalExpenses     float64                            `json:"totalExpenses"`
	ExpenseByCategory map[models.ExpenseCategory]float64 `json:"expenseByCategory"`
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(userID uint, title, description string, amount float64, category models.ExpenseCategory, date time.Time, paymentMethod models.PaymentMethod) (*models.Expense, error)
	GetUserExpenses(userID uint, page pagination.PageRequest, category *models.ExpenseCategory) (*pagination.PageResponse[models.Expense], error)
	GetAllExpenses(page pagination.PageRequest, category *models.ExpenseCategory) (*pagination.PageResponse[models.Expense], error)
	UpdateExpense(userID, expenseID uint, title, description string, amount float64, category models.ExpenseCategory, date time.Time, paymentMethod models.PaymentMethod) (*models.Expense, error)
	DeleteExpense(userID, expenseID uint) (*models.Expense, error)
	GenerateReport(userID uint, start, end time.Time) (*ExpenseReport, error)
}

// IncomeServicer defines the contract for income-related business logic.
type IncomeServicer interface {
	CreateIncome(userID uint, title, description string, amount float64, category models.IncomeCategory, date time.Time) (*models.Income, error)
	GetUserIncomes(userID uint, page pagination.PageRequest, category *models.IncomeCategory) (*pagination.PageResponse[models.Income], error)
	GetAllIncomes(page pagination.PageRequest, category *models.IncomeCategory) (*pagination.PageResponse[models.Income], error)
	UpdateIncome(userID, incomeID uint, title, description string, amount float64, category models.IncomeCategory, date time.Time) (*models.Income, error)
	DeleteIncome(userID, incomeID uint) (*models.Income, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
