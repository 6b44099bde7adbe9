package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/homeos_backend/cmd/docs"
	"github.com/SscSPs/homeos_backend/internal/apperrors"
	"github.com/SscSPs/homeos_backend/internal/core/domain"
	portssvc "github.com/SscSPs/homeos_backend/internal/core/ports/services"
	"github.com/SscSPs/homeos_backend/internal/dto"
	"github.com/SscSPs/homeos_backend/internal/handlers"
	"github.com/SscSPs/homeos_backend/internal/platform/config"
	"github.com/SscSPs/homeos_backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const adminKey = "let-me-in"

// --- Test Suite ---
type HandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	cfg       *config.Config
	ledger    *MockLedgerService
	inventory *MockInventoryService
	shift     *MockShiftService
	record    *MockRecordService
	auth      *MockAuthService
	seed      *MockSeedService
	caller    domain.Identity
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	adminHash, err := utils.HashPassword(adminKey)
	suite.Require().NoError(err)

	suite.cfg = &config.Config{
		IsProduction:      true,
		BotToken:          "123:abc",
		JWTSecret:         "test-secret-key-that-is-long-enough",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "homeos-test",
		SessionCookieName: "homeos_session",
		LoginRateLimit:    "100-M",
		AdminTokenHash:    adminHash,
	}
	suite.ledger = new(MockLedgerService)
	suite.inventory = new(MockInventoryService)
	suite.shift = new(MockShiftService)
	suite.record = new(MockRecordService)
	suite.auth = new(MockAuthService)
	suite.seed = new(MockSeedService)
	suite.caller = domain.Identity{UserID: 1001, Username: "alice"}

	suite.router = suite.newRouter()
}

func (suite *HandlerTestSuite) newRouter() *gin.Engine {
	r := gin.New()
	handlers.RegisterRoutes(r, suite.cfg, &portssvc.ServiceContainer{
		Ledger:    suite.ledger,
		Inventory: suite.inventory,
		Shift:     suite.shift,
		Record:    suite.record,
		Auth:      suite.auth,
		Seed:      suite.seed,
	}, stubStore{}, nil)
	return r
}

// generateTestToken creates a session JWT for the caller.
func (suite *HandlerTestSuite) generateTestToken(identity domain.Identity) string {
	token, _, err := utils.GenerateSessionJWT(identity, suite.cfg.JWTSecret, time.Hour, suite.cfg.JWTIssuer)
	suite.Require().NoError(err)
	return token
}

func (suite *HandlerTestSuite) do(method, path, body string, authed bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(suite.caller))
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// decimalEq matches a decimal argument by value rather than representation.
func decimalEq(want string) interface{} {
	expected := decimal.RequireFromString(want)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(expected) })
}

func (suite *HandlerTestSuite) errorBody(w *httptest.ResponseRecorder) dto.ErrorResponse {
	var body dto.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	suite.False(body.Success)
	return body
}

// --- Test Cases ---

func (suite *HandlerTestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/api/health", "", false)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.HealthResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("ok", body.Status)
	suite.Equal("memory", body.Backend)
	suite.True(body.BotConfigured)
}

func (suite *HandlerTestSuite) TestTranslations() {
	for lang, want := range map[string]string{"ru": "Баланс", "en": "Balance", "de": "Balance"} {
		w := suite.do(http.MethodGet, "/api/translations/"+lang, "", false)

		suite.Equal(http.StatusOK, w.Code)
		var table map[string]string
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &table))
		suite.Equal(want, table["balance"], lang)
	}
}

func (suite *HandlerTestSuite) TestInit_RequiresAdminKey() {
	w := suite.do(http.MethodPost, "/api/init", "", false)
	suite.Equal(http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/init", nil)
	req.Header.Set("x-api-key", "wrong")
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	suite.Equal(http.StatusUnauthorized, w.Code)

	suite.seed.AssertNotCalled(suite.T(), "Seed", mock.Anything)
}

func (suite *HandlerTestSuite) TestInit_DisabledWithoutHash() {
	suite.cfg.AdminTokenHash = ""
	suite.router = suite.newRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/init", nil)
	req.Header.Set("x-api-key", adminKey)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestInit_Success() {
	suite.seed.On("Seed", mock.Anything).Return(&domain.SeedReport{
		Created: []domain.DocumentKey{domain.ProductsDocument},
		Skipped: []domain.DocumentKey{domain.AccountsDocument},
	}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/init", nil)
	req.Header.Set("x-api-key", adminKey)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.SeedResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.True(body.Success)
	suite.Equal([]string{"products"}, body.Created)
	suite.Equal([]string{"accounts"}, body.Skipped)
	suite.seed.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestTelegramLogin_Success() {
	session := &domain.Session{Identity: suite.caller, Token: "signed-token", ExpiresAt: time.Now().Add(time.Hour)}
	suite.auth.On("Authenticate", mock.Anything, "query_id=1&hash=ab").Return(session, nil).Once()

	w := suite.do(http.MethodPost, "/api/auth/telegram", `{"initData":"query_id=1&hash=ab"}`, false)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.AuthResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.True(body.Success)
	suite.Equal("signed-token", body.Token)
	suite.Equal(int64(1001), body.User.ID)
	suite.Contains(w.Header().Get("Set-Cookie"), "homeos_session=signed-token")
	suite.Contains(w.Header().Get("Set-Cookie"), "HttpOnly")
	suite.auth.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestTelegramLogin_Rejections() {
	w := suite.do(http.MethodPost, "/api/auth/telegram", `{}`, false)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("No init data provided", suite.errorBody(w).Error)

	suite.auth.On("Authenticate", mock.Anything, "forged").Return(nil, fmt.Errorf("%w: hash mismatch", apperrors.ErrUnauthorized)).Once()
	w = suite.do(http.MethodPost, "/api/auth/telegram", `{"initData":"forged"}`, false)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestTelegramLogin_RateLimited() {
	suite.cfg.LoginRateLimit = "2-M"
	suite.router = suite.newRouter()
	suite.auth.On("Authenticate", mock.Anything, "x").Return(nil, apperrors.ErrUnauthorized)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, suite.do(http.MethodPost, "/api/auth/telegram", `{"initData":"x"}`, false).Code)
	}

	suite.Equal([]int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}

func (suite *HandlerTestSuite) TestAuthCheck() {
	w := suite.do(http.MethodGet, "/api/auth/check", "", false)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"authenticated":false}`, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
	req.AddCookie(&http.Cookie{Name: "homeos_session", Value: suite.generateTestToken(suite.caller)})
	w = httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var body dto.AuthCheckResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.True(body.Authenticated)
	suite.Equal("alice", body.User.Username)
}

func (suite *HandlerTestSuite) TestLogoutClearsCookie() {
	w := suite.do(http.MethodPost, "/api/auth/logout", "", false)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Header().Get("Set-Cookie"), "homeos_session=;")
}

func (suite *HandlerTestSuite) TestProtectedRoutesRequireSession() {
	for _, path := range []string{"/api/bank/my-account", "/api/bank/history", "/api/mywork/shifts", "/api/myinfo/records", "/api/shop/my-store"} {
		w := suite.do(http.MethodGet, path, "", false)
		suite.Equal(http.StatusUnauthorized, w.Code, path)
		suite.Equal("Not authenticated", suite.errorBody(w).Error)
	}
}

func (suite *HandlerTestSuite) TestMyAccount() {
	suite.ledger.On("GetAccount", mock.Anything, suite.caller).
		Return(&domain.Account{TelegramID: 1001, Username: "alice", Balance: decimal.NewFromInt(1000)}, nil).Once()

	w := suite.do(http.MethodGet, "/api/bank/my-account", "", true)

	suite.Equal(http.StatusOK, w.Code)
	var acc domain.Account
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &acc))
	suite.True(acc.Balance.Equal(decimal.NewFromInt(1000)))
	suite.ledger.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestTransfer_Success() {
	suite.ledger.On("Transfer", mock.Anything, suite.caller, "bob", decimalEq("30.5"), "lunch").
		Return(decimal.RequireFromString("69.5"), nil).Once()

	w := suite.do(http.MethodPost, "/api/bank/transfer", `{"to":"bob","amount":30.5,"comment":"lunch"}`, true)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.BalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.True(body.Success)
	suite.True(body.Balance.Equal(decimal.RequireFromString("69.5")))
	suite.ledger.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestTransfer_ErrorMapping() {
	testCases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"insufficient funds", apperrors.ErrInsufficientFunds, http.StatusBadRequest, "Insufficient funds"},
		{"invalid amount", fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation), http.StatusBadRequest, "validation error: amount must be positive"},
		{"unknown user", fmt.Errorf("%w: recipient", apperrors.ErrNotFound), http.StatusNotFound, "resource not found: recipient"},
		{"busy", fmt.Errorf("%w: accounts", apperrors.ErrBusy), http.StatusConflict, "Too many concurrent updates, please retry"},
		{"backend down", fmt.Errorf("%w: timeout", apperrors.ErrBackend), http.StatusServiceUnavailable, "Storage temporarily unavailable"},
		{"inconsistent", fmt.Errorf("%w: history", apperrors.ErrInconsistentState), http.StatusInternalServerError, "Operation partially applied, please contact support"},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.SetupTest()
			suite.ledger.On("Transfer", mock.Anything, suite.caller, "bob", mock.Anything, "").
				Return(decimal.Zero, tc.err).Once()

			w := suite.do(http.MethodPost, "/api/bank/transfer", `{"to":"bob","amount":"10"}`, true)

			suite.Equal(tc.status, w.Code)
			suite.Equal(tc.message, suite.errorBody(w).Error)
		})
	}
}

func (suite *HandlerTestSuite) TestTransfer_BadBody() {
	w := suite.do(http.MethodPost, "/api/bank/transfer", `{"amount":10}`, true)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.ledger.AssertNotCalled(suite.T(), "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestHistory_PassesLimit() {
	suite.ledger.On("GetHistory", mock.Anything, suite.caller, 5).Return([]domain.Transaction{}, nil).Once()

	w := suite.do(http.MethodGet, "/api/bank/history?limit=5", "", true)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`[]`, w.Body.String())
	suite.ledger.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestProductsArePublic() {
	suite.inventory.On("ListProducts", mock.Anything).Return([]domain.Product{{ID: 1, Title: "Смартфон", Price: decimal.NewFromInt(2500), Stock: 5}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/shop/products", "", false)

	suite.Equal(http.StatusOK, w.Code)
	var products []domain.Product
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &products))
	suite.Len(products, 1)
}

func (suite *HandlerTestSuite) TestMyStore_NullWhenNone() {
	suite.inventory.On("GetMyStore", mock.Anything, suite.caller).Return(nil, nil).Once()

	w := suite.do(http.MethodGet, "/api/shop/my-store", "", true)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("null", strings.TrimSpace(w.Body.String()))
}

func (suite *HandlerTestSuite) TestPurchase() {
	cart := []domain.CartLine{{ProductID: 1, Qty: 2}}
	suite.inventory.On("Purchase", mock.Anything, suite.caller, cart).Return(decimal.NewFromInt(500), nil).Once()

	w := suite.do(http.MethodPost, "/api/shop/purchase", `{"cart":[{"id":1,"qty":2}]}`, true)

	suite.Equal(http.StatusOK, w.Code)
	suite.inventory.AssertExpectations(suite.T())

	suite.inventory.On("Purchase", mock.Anything, suite.caller, mock.Anything).
		Return(decimal.Zero, fmt.Errorf("%w: only 0 left", apperrors.ErrProductUnavailable)).Once()
	w = suite.do(http.MethodPost, "/api/shop/purchase", `{"cart":[{"id":1,"qty":9}]}`, true)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("Product unavailable", suite.errorBody(w).Error)
}

func (suite *HandlerTestSuite) TestShifts() {
	suite.shift.On("StartShift", mock.Anything, suite.caller).Return(nil, fmt.Errorf("%w: shift already started", apperrors.ErrShiftState)).Once()
	w := suite.do(http.MethodPost, "/api/mywork/start-shift", "", true)
	suite.Equal(http.StatusConflict, w.Code)

	suite.shift.On("StopShift", mock.Anything, suite.caller, 0, decimalEq("0")).Return(&domain.ShiftRecord{}, nil).Once()
	w = suite.do(http.MethodPost, "/api/mywork/stop-shift", "", true)
	suite.Equal(http.StatusOK, w.Code)

	suite.shift.On("StopShift", mock.Anything, suite.caller, 45, decimalEq("300")).Return(&domain.ShiftRecord{}, nil).Once()
	w = suite.do(http.MethodPost, "/api/mywork/stop-shift", `{"minutes":45,"pay":300}`, true)
	suite.Equal(http.StatusOK, w.Code)

	suite.shift.On("GetRunningShift", mock.Anything, suite.caller).Return(nil, nil).Once()
	w = suite.do(http.MethodGet, "/api/mywork/running", "", true)
	suite.Equal("null", strings.TrimSpace(w.Body.String()))

	suite.shift.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestRecords() {
	suite.record.On("GetRecords", mock.Anything, suite.caller).Return(json.RawMessage(`{"height":180}`), nil).Once()
	w := suite.do(http.MethodGet, "/api/myinfo/records", "", true)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"height":180}`, w.Body.String())

	suite.record.On("SetRecords", mock.Anything, suite.caller, json.RawMessage(`{"height":181}`)).Return(nil).Once()
	w = suite.do(http.MethodPost, "/api/myinfo/records", `{"height":181}`, true)
	suite.Equal(http.StatusOK, w.Code)

	suite.record.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestSwaggerDisabledInProduction() {
	w := suite.do(http.MethodGet, "/swagger/index.html", "", false)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestSwaggerDocumentsEveryRoute() {
	var spec struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	suite.Require().NoError(json.Unmarshal([]byte(docs.SwaggerInfo.ReadDoc()), &spec))

	documented := 0
	for _, route := range suite.router.Routes() {
		if !strings.HasPrefix(route.Path, "/api/") {
			continue
		}
		path := strings.TrimPrefix(route.Path, "/api")
		if i := strings.Index(path, "/:"); i >= 0 {
			path = path[:i] + "/{" + path[i+2:] + "}"
		}
		suite.Contains(spec.Paths, path, "route %s %s", route.Method, route.Path)
		suite.Contains(spec.Paths[path], strings.ToLower(route.Method), "route %s %s", route.Method, route.Path)
		documented++
	}
	suite.Equal(19, documented)
}

// --- Run Test Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
