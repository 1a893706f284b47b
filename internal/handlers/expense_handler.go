package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
	"fintrack/internal/response"
	"fintrack/internal/services"
)

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// ExpenseRequest represents the payload for creating or updating an expense.
type ExpenseRequest struct {
	Title         string  `json:"title" binding:"required,max=255"`
	Description   string  `json:"description" binding:"max=1000"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Category      string  `json:"category" binding:"required,expense_category"`
	Date          string  `json:"date" binding:"required"`
	PaymentMethod string  `json:"paymentMethod" binding:"omitempty,payment_method"`
}

// listExpensesQuery represents the query parameters for listing expenses.
type listExpensesQuery struct {
	pagination.PageRequest
	Category string `form:"category" binding:"omitempty,expense_category"`
}

// reportQuery represents the query parameters for report generation.
type reportQuery struct {
	Start string `form:"start" binding:"required"`
	End   string `form:"end" binding:"required"`
}

// CreateExpense handles the creation of a new expense
// @Summary     Create an expense
// @Description Record a new expense; rejected with the overage when it would exceed the caller's budget
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ExpenseRequest true "Expense details"
// @Success     201 {object} response.Success "Expense created"
// @Failure     400 {object} response.Failure "Missing fields or over budget"
// @Failure     401 {object} response.Failure "Unauthorized"
// @Router      /expenses/create-expense [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.CreateExpense(
		userID,
		req.Title,
		req.Description,
		req.Amount,
		models.ExpenseCategory(req.Category),
		date,
		models.PaymentMethod(req.PaymentMethod),
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount, "category": req.Category})

	response.OK(c, http.StatusCreated, "Expense created successfully", expense)
}

// GetExpenses lists the caller's expenses
// @Summary     Get expenses
// @Description Get a paginated list of the caller's expenses, newest first, optionally filtered by category
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       category query string false "Category filter"
// @Param       page     query int    false "Page number (default 1)"
// @Param       limit    query int    false "Items per page (default 10)"
// @Success     200 {object} response.Success "Expenses fetched"
// @Failure     401 {object} response.Failure "Unauthorized"
// @Router      /expenses/get-expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query listExpensesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var category *models.ExpenseCategory
	if query.Category != "" {
		cat := models.ExpenseCategory(query.Category)
		category = &cat
	}

	expenses, err := h.expenseService.GetUserExpenses(userID, query.PageRequest, category)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Expenses fetched successfully", expenses)
}

// GetAllExpenses lists every user's expenses (admin only)
// @Summary     Get all expenses
// @Description Get a paginated list of all users' expenses; administrator only
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       category query string false "Category filter"
// @Param       page     query int    false "Page number (default 1)"
// @Param       limit    query int    false "Items per page (default 10)"
// @Success     200 {object} response.Success "Expenses fetched"
// @Failure     403 {object} response.Failure "Not an administrator"
// @Router      /expenses/getall-expenses [get]
func (h *ExpenseHandler) GetAllExpenses(c *gin.Context) {
	var query listExpensesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var category *models.ExpenseCategory
	if query.Category != "" {
		cat := models.ExpenseCategory(query.Category)
		category = &cat
	}

	expenses, err := h.expenseService.GetAllExpenses(query.PageRequest, category)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Expenses fetched successfully", expenses)
}

// UpdateExpense applies all fields to one of the caller's expenses
// @Summary     Update an expense
// @Description Update an expense by ID; all required fields must be present
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int            true "Expense ID"
// @Param       request body ExpenseRequest true "Expense details"
// @Success     200 {object} response.Success "Expense updated"
// @Failure     404 {object} response.Failure "Expense not found"
// @Failure     409 {object} response.Failure "Missing fields"
// @Router      /expenses/update-expense/{id} [patch]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrMissingFields, err.Error()))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.UpdateExpense(
		userID,
		expenseID,
		req.Title,
		req.Description,
		req.Amount,
		models.ExpenseCategory(req.Category),
		date,
		models.PaymentMethod(req.PaymentMethod),
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EXPENSE", "expense", expenseID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount, "category": req.Category})

	response.OK(c, http.StatusOK, "Expense updated successfully", expense)
}

// DeleteExpense removes one of the caller's expenses
// @Summary     Delete an expense
// @Description Delete an expense by ID and return the deleted record
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Expense ID"
// @Success     200 {object} response.Success "Expense deleted"
// @Failure     404 {object} response.Failure "Expense not found"
// @Router      /expenses/delete-expense/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.DeleteExpense(userID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_EXPENSE", "expense", expenseID, c.ClientIP(), nil)

	response.OK(c, http.StatusOK, "Expense deleted successfully", expense)
}

// GenerateReport sums the caller's expenses over a date range
// @Summary     Generate an expense report
// @Description Sum the caller's expenses within an inclusive date range, total and per category
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       start query string true "Range start (YYYY-MM-DD)"
// @Param       end   query string true "Range end (YYYY-MM-DD)"
// @Success     200 {object} response.Success "Report generated"
// @Failure     400 {object} response.Failure "Missing or invalid dates"
// @Router      /expenses/generate-report [get]
func (h *ExpenseHandler) GenerateReport(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query reportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Start and end date are required"))
		return
	}

	start, err := parseDate(query.Start)
	if err != nil {
		respondWithError(c, err)
		return
	}
	end, err := parseDate(query.End)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.expenseService.GenerateReport(userID, start, end)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Report generated", report)
}
