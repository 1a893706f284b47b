package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fintrack/internal/models"
)

// DefaultPassword is the plaintext password of every fixture user.
const DefaultPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password, unique username and
// email, and the given budget ceiling.
func CreateTestUser(t *testing.T, db *gorm.DB, budget float64) *models.User {
	t.Helper()
	n := nextID()
	return createUser(t, db, fmt.Sprintf("user%d", n), fmt.Sprintf("user%d@test.com", n), models.RoleUser, budget)
}

// CreateTestAdmin creates a user with the admin role.
func CreateTestAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := nextID()
	return createUser(t, db, fmt.Sprintf("admin%d", n), fmt.Sprintf("admin%d@test.com", n), models.RoleAdmin, 0)
}

func createUser(t *testing.T, db *gorm.DB, username, email string, role models.Role, budget float64) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Role:     role,
		Budget:   budget,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestExpense creates an expense with the given amount and category.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID uint, amount float64, category models.ExpenseCategory) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:   userID,
		Title:    fmt.Sprintf("Test Expense %d", nextID()),
		Amount:   amount,
		Category: category,
		Date:     time.Now(),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestExpenseOn creates an expense dated on the given day.
func CreateTestExpenseOn(t *testing.T, db *gorm.DB, userID uint, amount float64, category models.ExpenseCategory, date time.Time) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:   userID,
		Title:    fmt.Sprintf("Test Expense %d", nextID()),
		Amount:   amount,
		Category: category,
		Date:     date,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestIncome creates an income with the given amount and category.
func CreateTestIncome(t *testing.T, db *gorm.DB, userID uint, amount float64, category models.IncomeCategory) *models.Income {
	t.Helper()

	income := &models.Income{
		UserID:   userID,
		Title:    fmt.Sprintf("Test Income %d", nextID()),
		Amount:   amount,
		Category: category,
		Date:     time.Now(),
	}
	if err := db.Create(income).Error; err != nil {
		t.Fatalf("failed to create test income: %v", err)
	}
	return income
}
