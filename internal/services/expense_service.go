package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"fintrack/internal/budget"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/notify"
	"fintrack/internal/pagination"
)

// expenseService handles expense-related business logic.
type expenseService struct {
	db      *gorm.DB
	alerter notify.Alerter
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB, alerter notify.Alerter) ExpenseServicer {
	return &expenseService{db: db, alerter: alerter}
}

// CreateExpense evaluates the candidate amount against the user's budget
// ceiling and persists it when admissible. A rejected expense is not
// persisted; the user is alerted with the overage instead.
//
// The prior-total read and the insert are not atomic: concurrent creates for
// the same user can both pass the check against a stale total.
func (s *expenseService) CreateExpense(userID uint, title, description string, amount float64, category models.ExpenseCategory, date time.Time, paymentMethod models.PaymentMethod) (*models.Expense, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	priorTotal, err := s.sumExpenses(s.db.Model(&models.Expense{}).Where("user_id = ?", userID))
	if err != nil {
		return nil, err
	}

	verdict := budget.Evaluate(user.Budget, priorTotal, amount)
	if !verdict.Allowed {
		s.alerter.BudgetExceeded(user.Email, verdict.Overage)
		return nil, apperrors.WithMessage(apperrors.ErrOverBudget,
			fmt.Sprintf("You have exceeded your budget by %g", verdict.Overage))
	}

	expense := &models.Expense{
		UserID:        userID,
		Title:         title,
		Description:   description,
		Amount:        amount,
		Category:      category,
		Date:          date,
		PaymentMethod: paymentMethod,
	}

	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

// GetUserExpenses returns the caller's expenses, newest first, optionally
// filtered by category.
func (s *expenseService) GetUserExpenses(userID uint, page pagination.PageRequest, category *models.ExpenseCategory) (*pagination.PageResponse[models.Expense], error) {
	base := s.db.Model(&models.Expense{}).Where("user_id = ?", userID)
	return s.listExpenses(base, page, category)
}

// GetAllExpenses returns every user's expenses, newest first. Callers must be
// authorized as admin before reaching this.
func (s *expenseService) GetAllExpenses(page pagination.PageRequest, category *models.ExpenseCategory) (*pagination.PageResponse[models.Expense], error) {
	return s.listExpenses(s.db.Model(&models.Expense{}), page, category)
}

// UpdateExpense applies all fields to an expense owned by the caller.
func (s *expenseService) UpdateExpense(userID, expenseID uint, title, description string, amount float64, category models.ExpenseCategory, date time.Time, paymentMethod models.PaymentMethod) (*models.Expense, error) {
	expense, err := s.getOwnedExpense(userID, expenseID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"title":          title,
		"description":    description,
		"amount":         amount,
		"category":       category,
		"date":           date,
		"payment_method": paymentMethod,
	}
	if err := s.db.Model(expense).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

// DeleteExpense removes an expense owned by the caller and returns it.
func (s *expenseService) DeleteExpense(userID, expenseID uint) (*models.Expense, error) {
	expense, err := s.getOwnedExpense(userID, expenseID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Delete(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// GenerateReport sums the caller's expenses within the inclusive [start, end]
// range into a total and per-category subtotals.
func (s *expenseService) GenerateReport(userID uint, start, end time.Time) (*ExpenseReport, error) {
	var expenses []models.Expense
	err := s.db.
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, start, end).
		Find(&expenses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	report := &ExpenseReport{
		ExpenseByCategory: make(map[models.ExpenseCategory]float64),
	}
	for _, e := range expenses {
		report.TotalExpenses += e.Amount
		report.ExpenseByCategory[e.Category] += e.Amount
	}
	return report, nil
}

// getOwnedExpense fetches an expense by ID scoped to its owner.
func (s *expenseService) getOwnedExpense(userID, expenseID uint) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// listExpenses applies the shared filter/order/paginate pipeline.
func (s *expenseService) listExpenses(base *gorm.DB, page pagination.PageRequest, category *models.ExpenseCategory) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	if category != nil {
		base = base.Where("category = ?", *category)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.Limit, totalItems)
	return &result, nil
}

// sumExpenses evaluates SUM(amount) over the given query.
func (s *expenseService) sumExpenses(query *gorm.DB) (float64, error) {
	var total float64
	if err := query.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return total, nil
}
