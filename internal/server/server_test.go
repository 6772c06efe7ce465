package server_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"threadshop/internal/access"
	"threadshop/internal/config"
	"threadshop/internal/domain/model"
	"threadshop/internal/handler"
	"threadshop/internal/infra/metrics"
	"threadshop/internal/infra/storage"
	repo "threadshop/internal/repository"
	"threadshop/internal/repository/mocks"
	"threadshop/internal/server"
	"threadshop/internal/usecase"
	auth "threadshop/internal/usecase/auth_usecase"
	"threadshop/internal/validator"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var now = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return now }

type fixedID struct{}

func (fixedID) NewID() string { return "3f1c7d0e-8d6a-4b39-9f62-5a4c2e0b9d11" }

// cookieの値をそのままユーザーに対応づける
type stubSessions map[string]*access.Principal

func (s stubSessions) Authenticate(_ context.Context, raw string) (*access.Principal, error) {
	return s[raw], nil
}

type paymentStub struct{}

func (paymentStub) CreatePaymentIntent(context.Context, int64, string) (string, error) {
	return "pi_secret", nil
}

type fixture struct {
	e        *echo.Echo
	users    *mocks.UserRepoMock
	sessions *mocks.SessionRepoMock
	products *mocks.ProductRepoMock
	r        *mocks.TxRepos
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		users:    new(mocks.UserRepoMock),
		sessions: new(mocks.SessionRepoMock),
		products: new(mocks.ProductRepoMock),
		r:        mocks.NewTxRepos(),
	}
	tx := mocks.NewTxManagerMock(f.r)
	log, _ := test.NewNullLogger()
	m := metrics.New()
	signer := storage.NoopSigner{}

	v := validator.NewAuthValidator()
	codec := auth.NewSessionTokenCodec("server-test-secret-0123456789")
	hasher := auth.NewBcryptPasswordHasher(bcrypt.MinCost)
	cookies := handler.SessionCookies{TTL: 30 * 24 * time.Hour, Secure: true}

	orders := new(mocks.OrderRepoMock)
	orderProducts := new(mocks.OrderProductRepoMock)
	carts := new(mocks.CartRepoMock)

	cfg := config.Config{FEURL: "http://localhost:3000", AuthRateLimit: 100}

	f.e = server.New(server.Deps{
		Config:   cfg,
		Log:      log,
		Metrics:  m,
		Sessions: stubSessions{
			"alice-cookie": {UserID: 1, SessionID: "s1"},
			"admin-cookie": {UserID: 9, IsAdmin: true, SessionID: "s9"},
		},
		Handlers: server.Handlers{
			Auth: handler.NewAuthHandler(
				auth.NewRegisterUserUsecase(f.users, hasher, v),
				auth.NewLoginUsecase(f.users, f.sessions, auth.NewBcryptPasswordVerifier(), codec, v, fixedID{}, fixedClock{}, 30*24*time.Hour),
				auth.NewLogoutUsecase(f.sessions, codec, fixedClock{}),
				cookies,
			),
			User:    handler.NewUserHandler(usecase.NewUserUsecase(tx, f.users, new(mocks.AuditLogRepoMock), hasher, v, fixedClock{}), cookies),
			Product: handler.NewProductHandler(usecase.NewProductUsecase(f.products, signer, log)),
			Cart:    handler.NewCartHandler(usecase.NewCartUsecase(tx, f.users, carts, f.products, signer, log)),
			Order:   handler.NewOrderHandler(usecase.NewOrderUsecase(tx, f.users, orders, orderProducts, fixedClock{}, m, signer, log)),
			Payment: handler.NewPaymentHandler(usecase.NewPaymentUsecase(f.products, paymentStub{}, "gbp", "pk_test", log)),
			Health:  handler.NewHealthHandler(func(context.Context) error { return nil }, m.Handler()),
		},
	})
	return f
}

func (f *fixture) do(method, path, body, cookie string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "sid", Value: cookie})
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func TestRegister_DuplicateUsernameIs400(t *testing.T) {
	f := newFixture(t)
	f.users.On("Create", mock.Anything, mock.Anything).Return(repo.ErrDuplicate)

	rec := f.do(http.MethodPost, "/register", `{"username":"alice","password":"password123"}`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Username already in use"}`, rec.Body.String())
}

func TestRegister_Created(t *testing.T) {
	f := newFixture(t)
	f.users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Username == "alice" && u.FirstName == "Alice" && u.PasswordHash != "password123"
	})).Return(nil)

	rec := f.do(http.MethodPost, "/register", `{"username":"alice","password":"password123","firstName":"Alice"}`, "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"message":"Account created successfully"}`, rec.Body.String())
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	f := newFixture(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	f.users.On("FindByUsername", mock.Anything, "alice").
		Return(&model.User{ID: 1, Username: "alice", PasswordHash: string(hash)}, nil)
	f.sessions.On("Create", mock.Anything, mock.MatchedBy(func(s model.Session) bool {
		return s.UserID == 1 && s.ExpiresAt.Equal(now.Add(30*24*time.Hour))
	})).Return(nil)

	rec := f.do(http.MethodPost, "/login", `{"username":"alice","password":"password123"}`, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"username":"alice","userID":1}`, rec.Body.String())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Equal(t, 30*24*60*60, cookies[0].MaxAge)
}

func TestLogin_WrongPasswordIs401(t *testing.T) {
	f := newFixture(t)
	f.users.On("FindByUsername", mock.Anything, "alice").Return(nil, repo.ErrNotFound)

	rec := f.do(http.MethodPost, "/login", `{"username":"alice","password":"password123"}`, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"message":"Incorrect username or password."}`, rec.Body.String())
}

func TestLogout_WithoutSessionIs200(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/logout", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Logged Out"}`, rec.Body.String())
}

func TestCart_OwnerOrAdmin(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/cart/2", "", "").Code)
	assert.Equal(t, http.StatusForbidden, f.do(http.MethodGet, "/cart/2", "", "alice-cookie").Code)
	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodGet, "/cart/two", "", "alice-cookie").Code)
}

func TestCheckout_InsufficientStockIs400(t *testing.T) {
	f := newFixture(t)
	f.r.UserRepo.On("Exists", mock.Anything, int64(1)).Return(true, nil)
	f.r.CartRepo.On("ListLinesForUpdate", mock.Anything, int64(1)).Return([]model.CartLine{{ProductID: 10, Quantity: 3}}, nil)
	f.r.ProductRepo.On("FindByIDsForUpdate", mock.Anything, []int64{10}).Return([]model.Product{{ID: 10, StockCount: 1}}, nil)

	rec := f.do(http.MethodPost, "/cart/1/checkout", `{"date":"2024-06-01","total_cost":"10.00"}`, "alice-cookie")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not enough stock to complete order")
	f.r.OrderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrders_ListAllIsAdminOnly(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/orders", "", "alice-cookie")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"Unauthorized access"}`, rec.Body.String())
}

func TestProducts_PublicAndNotFound(t *testing.T) {
	f := newFixture(t)
	f.products.On("FindByID", mock.Anything, int64(42)).Return(model.Product{}, repo.ErrNotFound)

	rec := f.do(http.MethodGet, "/products/42", "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message":"Invalid product ID"}`, rec.Body.String())
}

func TestUnexpectedErrorIs500(t *testing.T) {
	f := newFixture(t)
	f.products.On("List", mock.Anything).Return([]model.Product{}, errors.New("connection reset by peer"))

	rec := f.do(http.MethodGet, "/products", "", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"internal error"}`, rec.Body.String())
}

func TestPayment_CreateIntentAndConfig(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/create-payment-intent", `{"items":[{"cost":"12.50","quantity":2}]}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"clientSecret":"pi_secret"}`, rec.Body.String())

	rec = f.do(http.MethodGet, "/stripe-config", "", "")
	assert.JSONEq(t, `{"publishableKey":"pk_test"}`, rec.Body.String())
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodGet, "/healthz", "", "")
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = f.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",path="/healthz",status="200"} 1`)
}
