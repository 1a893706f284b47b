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

// IncomeHandler handles income-related requests.
type IncomeHandler struct {
	incomeService services.IncomeServicer
	auditService  services.AuditServicer
}

// NewIncomeHandler creates a new IncomeHandler.
func NewIncomeHandler(incomeService services.IncomeServicer, auditService services.AuditServicer) *IncomeHandler {
	return &IncomeHandler{incomeService: incomeService, auditService: auditService}
}

// IncomeRequest represents the payload for creating or updating an income.
type IncomeRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description string  `json:"description" binding:"max=1000"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Category    string  `json:"category" binding:"required,income_category"`
	Date        string  `json:"date" binding:"required"`
}

// listIncomesQuery represents the query parameters for listing incomes.
type listIncomesQuery struct {
	pagination.PageRequest
	Category string `form:"category" binding:"omitempty,income_category"`
}

// CreateIncome handles the creation of a new income
// @Summary     Create an income
// @Description Record a new income for the authenticated user
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body IncomeRequest true "Income details"
// @Success     201 {object} response.Success "Income created"
// @Failure     400 {object} response.Failure "Missing fields"
// @Router      /incomes/create-income [post]
func (h *IncomeHandler) CreateIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req IncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	income, err := h.incomeService.CreateIncome(
		userID,
		req.Title,
		req.Description,
		req.Amount,
		models.IncomeCategory(req.Category),
		date,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_INCOME", "income", income.ID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount, "category": req.Category})

	response.OK(c, http.StatusCreated, "Income created successfully", income)
}

// GetIncomes lists the caller's incomes
// @Summary     Get incomes
// @Description Get a paginated list of the caller's incomes, newest first, optionally filtered by category
// @Tags        incomes
// @Produce     json
// @Security    BearerAuth
// @Param       category query string false "Category filter"
// @Param       page     query int    false "Page number (default 1)"
// @Param       limit    query int    false "Items per page (default 10)"
// @Success     200 {object} response.Success "Incomes fetched"
// @Failure     401 {object} response.Failure "Unauthorized"
// @Router      /incomes/get-incomes [get]
func (h *IncomeHandler) GetIncomes(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query listIncomesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var category *models.IncomeCategory
	if query.Category != "" {
		cat := models.IncomeCategory(query.Category)
		category = &cat
	}

	incomes, err := h.incomeService.GetUserIncomes(userID, query.PageRequest, category)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Incomes fetched successfully", incomes)
}

// GetAllIncomes lists every user's incomes (admin only)
// @Summary     Get all incomes
// @Description Get a paginated list of all users' incomes; administrator only
// @Tags        incomes
// @Produce     json
// @Security    BearerAuth
// @Param       category query string false "Category filter"
// @Param       page     query int    false "Page number (default 1)"
// @Param       limit    query int    false "Items per page (default 10)"
// @Success     200 {object} response.Success "Incomes fetched"
// @Failure     403 {object} response.Failure "Not an administrator"
// @Router      /incomes/getall-incomes [get]
func (h *IncomeHandler) GetAllIncomes(c *gin.Context) {
	var query listIncomesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var category *models.IncomeCategory
	if query.Category != "" {
		cat := models.IncomeCategory(query.Category)
		category = &cat
	}

	incomes, err := h.incomeService.GetAllIncomes(query.PageRequest, category)
	if err != nil {
		respondWithError(c, err)
		return
	}

	response.OK(c, http.StatusOK, "Incomes fetched successfully", incomes)
}

// UpdateIncome applies all fields to one of the caller's incomes
// @Summary     Update an income
// @Description Update an income by ID; all required fields must be present
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int           true "Income ID"
// @Param       request body IncomeRequest true "Income details"
// @Success     200 {object} response.Success "Income updated"
// @Failure     404 {object} response.Failure "Income not found"
// @Failure     409 {object} response.Failure "Missing fields"
// @Router      /incomes/update-income/{id} [patch]
func (h *IncomeHandler) UpdateIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	incomeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req IncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrMissingFields, err.Error()))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	income, err := h.incomeService.UpdateIncome(
		userID,
		incomeID,
		req.Title,
		req.Description,
		req.Amount,
		models.IncomeCategory(req.Category),
		date,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_INCOME", "income", incomeID, c.ClientIP(),
		map[string]interface{}{"amount": req.Amount, "category": req.Category})

	response.OK(c, http.StatusOK, "Income updated successfully", income)
}

// DeleteIncome removes one of the caller's incomes
// @Summary     Delete an income
// @Description Delete an income by ID and return the deleted record
// @Tags        incomes
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Income ID"
// @Success     200 {object} response.Success "Income deleted"
// @Failure     404 {object} response.Failure "Income not found"
// @Router      /incomes/delete-income/{id} [delete]
func (h *IncomeHandler) DeleteIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	incomeID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	income, err := h.incomeService.DeleteIncome(userID, incomeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_INCOME", "income", incomeID, c.ClientIP(), nil)

	response.OK(c, http.StatusOK, "Income deleted successfully", income)
}
