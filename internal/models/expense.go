package models

import "time"

// ExpenseCategory is the closed set of categories an expense can belong to.
type ExpenseCategory string

const (
	ExpenseCategoryFood      ExpenseCategory = "food"
	ExpenseCategoryRent      ExpenseCategory = "rent"
	ExpenseCategoryTravel    ExpenseCategory = "travel"
	ExpenseCategoryEducation ExpenseCategory = "education"
	ExpenseCategoryOthers    ExpenseCategory = "others"
)

// PaymentMethod represents how an expense was paid.
type PaymentMethod string

const (
	PaymentMethodCash       PaymentMethod = "cash"
	PaymentMethodCreditCard PaymentMethod = "credit card"
	PaymentMethodDebitCard  PaymentMethod = "debit card"
	PaymentMethodOthers     PaymentMethod = "others"
)

// Expense represents a single spend recorded by a user.
type Expense struct {
	Base
	UserID        uint            `gorm:"not null;index" json:"user_id"`
	Title         string          `gorm:"not null" json:"title"`
	Description   string          `json:"description,omitempty"`
	Amount        float64         `gorm:"not null" json:"amount"`
	Category      ExpenseCategory `gorm:"size:32;not null;index" json:"category"`
	Date          time.Time       `gorm:"not null" json:"date"`
	PaymentMethod PaymentMethod   `gorm:"size:32" json:"payment_method,omitempty"`
}
