package models

import "time"

// IncomeCategory is the closed set of categories an income can belong to.
type IncomeCategory string

const (
	IncomeCategorySalary   IncomeCategory = "salary"
	IncomeCategoryBusiness IncomeCategory = "business"
	IncomeCategoryGift     IncomeCategory = "gift"
	IncomeCategoryOthers   IncomeCategory = "others"
)

// Income represents a single earning recorded by a user.
type Income struct {
	Base
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description,omitempty"`
	Amount      float64        `gorm:"not null" json:"amount"`
	Category    IncomeCategory `gorm:"size:32;not null;index" json:"category"`
	Date        time.Time      `gorm:"not null" json:"date"`
}
