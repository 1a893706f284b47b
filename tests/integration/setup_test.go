package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"fintrack/internal/handlers"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/models"
	"fintrack/internal/services"
	"fintrack/internal/validator"
)

// capturingAlerter records budget alerts instead of sending mail.
type capturingAlerter struct {
	mu       sync.Mutex
	emails   []string
	overages []float64
}

func (a *capturingAlerter) BudgetExceeded(email string, overage float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.emails = append(a.emails, email)
	a.overages = append(a.overages, overage)
}

func (a *capturingAlerter) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.emails)
}

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB      *gorm.DB
	Router  *gin.Engine
	Alerter *capturingAlerter
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Expense{},
		&models.Income{},
		&models.Session{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	alerter := &capturingAlerter{}

	// Services
	userService := services.NewUserService(db)
	expenseService := services.NewExpenseService(db, alerter)
	incomeService := services.NewIncomeService(db)
	auditService := services.NewAuditService(db)

	// Handlers
	userHandler := handlers.NewUserHandler(userService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	incomeHandler := handlers.NewIncomeHandler(incomeService, auditService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	authRequired := middleware.AuthMiddleware(userService)
	adminOnly := middleware.RequireAdmin(userService)

	api := router.Group("/api")

	users := api.Group("/users")
	users.POST("/register", userHandler.Register)
	users.POST("/login", userHandler.Login)
	users.GET("/logout", authRequired, userHandler.Logout)
	users.PATCH("/change-password", authRequired, userHandler.ChangePassword)
	users.PATCH("/update-budget", authRequired, userHandler.UpdateBudget)
	users.DELETE("/delete/:id", authRequired, adminOnly, userHandler.DeleteUser)
	users.GET("/get-all-users", authRequired, adminOnly, userHandler.GetAllUsers)

	expenses := api.Group("/expenses", authRequired)
	expenses.POST("/create-expense", expenseHandler.CreateExpense)
	expenses.GET("/get-expenses", expenseHandler.GetExpenses)
	expenses.GET("/getall-expenses", adminOnly, expenseHandler.GetAllExpenses)
	expenses.PATCH("/update-expense/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/delete-expense/:id", expenseHandler.DeleteExpense)
	expenses.GET("/generate-report", expenseHandler.GenerateReport)

	incomes := api.Group("/incomes", authRequired)
	incomes.POST("/create-income", incomeHandler.CreateIncome)
	incomes.GET("/get-incomes", incomeHandler.GetIncomes)
	incomes.GET("/getall-incomes", adminOnly, incomeHandler.GetAllIncomes)
	incomes.PATCH("/update-income/:id", incomeHandler.UpdateIncome)
	incomes.DELETE("/delete-income/:id", incomeHandler.DeleteIncome)

	return &testApp{DB: db, Router: router, Alerter: alerter}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// data extracts the data object from a success envelope.
func data(t *testing.T, result map[string]interface{}) map[string]interface{} {
	t.Helper()
	d, ok := result["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected data object in envelope, got: %v", result)
	}
	return d
}

// registerUser registers a new user and returns its ID.
func (app *testApp) registerUser(t *testing.T, username, email, password string) float64 {
	t.Helper()
	body := fmt.Sprintf(`{"username":%q,"email":%q,"password":%q}`, username, email, password)
	rec := app.request("POST", "/api/users/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	return data(t, parseJSON(t, rec))["id"].(float64)
}

// loginUser logs in and returns the issued token.
func (app *testApp) loginUser(t *testing.T, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/users/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	token, _ := data(t, parseJSON(t, rec))["token"].(string)
	if token == "" {
		t.Fatal("login response carried no token")
	}
	return token
}

// itoa renders a JSON-decoded numeric ID as a path segment.
func itoa(id float64) string {
	return strconv.Itoa(int(id))
}

// promoteToAdmin flips a user's role directly in the database.
func (app *testApp) promoteToAdmin(t *testing.T, userID float64) {
	t.Helper()
	if err := app.DB.Model(&models.User{}).Where("id = ?", uint(userID)).
		Update("role", models.RoleAdmin).Error; err != nil {
		t.Fatalf("failed to promote user: %v", err)
	}
}

// setBudget sets the authenticated user's budget through the API.
func (app *testApp) setBudget(t *testing.T, token string, budget float64) {
	t.Helper()
	rec := app.request("PATCH", "/api/users/update-budget",
		fmt.Sprintf(`{"budget":%g}`, budget), token)
	if rec.Code != http.StatusOK {
		t.Fatalf("update-budget failed: %d %s", rec.Code, rec.Body.String())
	}
}
