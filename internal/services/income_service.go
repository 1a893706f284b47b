package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// incomeService handles income-related business logic. Incomes never count
// against the budget ceiling.
type incomeService struct {
	db *gorm.DB
}

// NewIncomeService creates a new IncomeServicer.
func NewIncomeService(db *gorm.DB) IncomeServicer {
	return &incomeService{db: db}
}

// CreateIncome persists a new income owned by the caller.
func (s *incomeService) CreateIncome(userID uint, title, description string, amount float64, category models.IncomeCategory, date time.Time) (*models.Income, error) {
	income := &models.Income{
		UserID:      userID,
		Title:       title,
		Description: description,
		Amount:      amount,
		Category:    category,
		Date:        date,
	}

	if err := s.db.Create(income).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return income, nil
}

// GetUserIncomes returns the caller's incomes, newest first, optionally
// filtered by category.
func (s *incomeService) GetUserIncomes(userID uint, page pagination.PageRequest, category *models.IncomeCategory) (*pagination.PageResponse[models.Income], error) {
	base := s.db.Model(&models.Income{}).Where("user_id = ?", userID)
	return s.listIncomes(base, page, category)
}

// GetAllIncomes returns every user's incomes, newest first. Callers must be
// authorized as admin before reaching this.
func (s *incomeService) GetAllIncomes(page pagination.PageRequest, category *models.IncomeCategory) (*pagination.PageResponse[models.Income], error) {
	return s.listIncomes(s.db.Model(&models.Income{}), page, category)
}

// UpdateIncome applies all fields to an income owned by the caller.
func (s *incomeService) UpdateIncome(userID, incomeID uint, title, description string, amount float64, category models.IncomeCategory, date time.Time) (*models.Income, error) {
	income, err := s.getOwnedIncome(userID, incomeID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"title":       title,
		"description": description,
		"amount":      amount,
		"category":    category,
		"date":        date,
	}
	if err := s.db.Model(income).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return income, nil
}

// DeleteIncome removes an income owned by the caller and returns it.
func (s *incomeService) DeleteIncome(userID, incomeID uint) (*models.Income, error) {
	income, err := s.getOwnedIncome(userID, incomeID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Delete(income).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return income, nil
}

// getOwnedIncome fetches an income by ID scoped to its owner.
func (s *incomeService) getOwnedIncome(userID, incomeID uint) (*models.Income, error) {
	var income models.Income
	if err := s.db.Where("id = ? AND user_id = ?", incomeID, userID).First(&income).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIncomeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &income, nil
}

// listIncomes applies the shared filter/order/paginate pipeline.
func (s *incomeService) listIncomes(base *gorm.DB, page pagination.PageRequest, category *models.IncomeCategory) (*pagination.PageResponse[models.Income], error) {
	page.Defaults()

	if category != nil {
		base = base.Where("category = ?", *category)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var incomes []models.Income
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&incomes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(incomes, page.Page, page.Limit, totalItems)
	return &result, nil
}
