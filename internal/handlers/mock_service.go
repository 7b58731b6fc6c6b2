package handlers

import (
	"context"
	"net/http"
	"time"

	"itemtrack/internal/config"
	"itemtrack/internal/models"
	"itemtrack/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerToken string
	registerUser  models.User
	registerErr   error
	loginToken    string
	loginUser     models.User
	loginErr      error
	authIdent     models.Identity
	authErr       error

	lastRegister  service.RegisterInput
	lastLoginEmail string
	lastLoginPass  string
	lastToken      string
}

func (m *mockAuth) Register(ctx context.Context, in service.RegisterInput) (string, models.User, error) {
	m.lastRegister = in
	return m.registerToken, m.registerUser, m.registerErr
}

func (m *mockAuth) Login(ctx context.Context, email, password string) (string, models.User, error) {
	m.lastLoginEmail = email
	m.lastLoginPass = password
	return m.loginToken, m.loginUser, m.loginErr
}

func (m *mockAuth) Authenticate(tokenString string) (models.Identity, error) {
	m.lastToken = tokenString
	return m.authIdent, m.authErr
}

type mockItems struct {
	createItem models.Item
	createErr  error
	listItems  []models.Item
	listPag    service.Pagination
	listErr    error
	getItem    models.Item
	getErr     error
	updateItem models.Item
	updateErr  error
	deleteErr  error

	lastIdent  models.Identity
	lastCreate service.CreateItemInput
	lastList   service.ListItemsInput
	lastUpdate service.UpdateItemInput
	lastID     string
}

func (m *mockItems) Create(ctx context.Context, ident models.Identity, in service.CreateItemInput) (models.Item, error) {
	m.lastIdent = ident
	m.lastCreate = in
	return m.createItem, m.createErr
}

func (m *mockItems) List(ctx context.Context, ident models.Identity, in service.ListItemsInput) ([]models.Item, service.Pagination, error) {
	m.lastIdent = ident
	m.lastList = in
	return m.listItems, m.listPag, m.listErr
}

func (m *mockItems) GetByID(ctx context.Context, ident models.Identity, id string) (models.Item, error) {
	m.lastIdent = ident
	m.lastID = id
	return m.getItem, m.getErr
}

func (m *mockItems) Update(ctx context.Context, ident models.Identity, id string, in service.UpdateItemInput) (models.Item, error) {
	m.lastIdent = ident
	m.lastID = id
	m.lastUpdate = in
	return m.updateItem, m.updateErr
}

func (m *mockItems) Delete(ctx context.Context, ident models.Identity, id string) error {
	m.lastIdent = ident
	m.lastID = id
	return m.deleteErr
}

// ---- Shared Test Helpers ----

const testCookieName = "auth_token"

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		SigningKey: "test-secret",
		CookieName: testCookieName,
		TokenTTL:   time.Hour,
	}
}

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, testAuthConfig(), nil)
	return h.InitRoutes()
}

// sessionCookie builds the cookie the guard expects.
func sessionCookie(value string) *http.Cookie {
	return &http.Cookie{Name: testCookieName, Value: value}
}
