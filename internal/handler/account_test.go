package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/clinic-management/internal/config"
	"github.com/iliyamo/clinic-management/internal/handler"
	"github.com/iliyamo/clinic-management/internal/model"
	"github.com/iliyamo/clinic-management/internal/repository"
	"github.com/iliyamo/clinic-management/internal/result"
	"github.com/iliyamo/clinic-management/internal/utils"
)

// ----- in-memory stores -----

type fakeUserStore struct {
	mu      sync.Mutex
	nextID  uint64
	byEmail map[string]model.User
	queries int // lookups + writes, to prove validation never reaches the store
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, byEmail: map[string]model.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, email, passwordHash, firstName, lastName, role string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++
	email = strings.ToLower(strings.TrimSpace(email))
	if _, ok := s.byEmail[email]; ok {
		return 0, repository.ErrEmailExists
	}
	u := model.User{ID: s.nextID, Email: email, PasswordHash: passwordHash,
		FirstName: firstName, LastName: lastName, Role: role, IsActive: true}
	s.nextID++
	s.byEmail[email] = u
	return u.ID, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++
	u, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++
	for _, u := range s.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, email, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries++
	email = strings.ToLower(strings.TrimSpace(email))
	u, ok := s.byEmail[email]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	s.byEmail[email] = u
	return nil
}

type storedToken struct {
	userID  uint64
	exp     time.Time
	revoked bool
}

type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*storedToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]*storedToken{}}
}

func (s *fakeTokenStore) StoreRefresh(_ context.Context, userID uint64, tokenHash string, exp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenHash] = &storedToken{userID: userID, exp: exp}
	return nil
}

// ConsumeRefresh mirrors the SQL repository's conditional update: under the
// lock a token moves to revoked at most once, so concurrent callers cannot
// both win.
func (s *fakeTokenStore) ConsumeRefresh(_ context.Context, tokenHash string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[tokenHash]
	if !ok || t.revoked || time.Now().UTC().After(t.exp) {
		return 0, repository.ErrTokenConsumed
	}
	t.revoked = true
	return t.userID, nil
}

func (s *fakeTokenStore) RevokeByHash(_ context.Context, tokenHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tokens[tokenHash]; ok {
		t.revoked = true
	}
	return nil
}

func (s *fakeTokenStore) RevokeAllForUser(_ context.Context, userID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tokens {
		if t.userID == userID {
			t.revoked = true
		}
	}
	return nil
}

func (s *fakeTokenStore) active(tokenHash string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[tokenHash]
	return ok && !t.revoked && time.Now().UTC().Before(t.exp)
}

// ----- harness -----

func testConfig() config.Config {
	return config.Config{
		Env:               "test",
		JWTSecret:         "handler-test-secret",
		JWTIssuer:         "clinic-api",
		JWTAudience:       "clinic-clients",
		AccessTTLMin:      15,
		RefreshTTLDays:    7,
		RefreshCookieDays: 7,
		BcryptCost:        bcrypt.MinCost,
	}
}

func newHarness(t *testing.T) (*handler.AccountHandler, *fakeUserStore, *fakeTokenStore) {
	t.Helper()
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	return handler.NewAccountHandler(testConfig(), users, tokens), users, tokens
}

func seedUser(t *testing.T, users *fakeUserStore, email, password, role string) model.User {
	t.Helper()
	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	id, err := users.Create(context.Background(), email, hash, "Test", "User", role)
	require.NoError(t, err)
	users.mu.Lock()
	users.queries = 0 // seeding does not count against the handler
	users.mu.Unlock()
	u, err := users.GetByEmail(context.Background(), email)
	require.NoError(t, err)
	users.mu.Lock()
	users.queries = 0
	users.mu.Unlock()
	require.Equal(t, id, u.ID)
	return u
}

func doJSON(h echo.HandlerFunc, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func decodeLogin(t *testing.T, rec *httptest.ResponseRecorder) result.Result[handler.LoginResponse] {
	t.Helper()
	var res result.Result[handler.LoginResponse]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res
}

func refreshCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "RefreshToken" {
			return ck
		}
	}
	return nil
}

// ----- validation -----

func TestLoginValidationFailsFast(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty password", `{"email":"a@b.com","password":""}`},
		{"empty email", `{"email":"","password":"pw"}`},
		{"whitespace email", `{"email":"   ","password":"pw"}`},
		{"whitespace password", `{"email":"a@b.com","password":" \t "}`},
		{"missing fields", `{}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, users, _ := newHarness(t)
			rec := doJSON(h.Login, http.MethodPost, "/api/account/login", tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			res := decodeLogin(t, rec)
			assert.False(t, res.IsSuccess)
			assert.Equal(t, http.StatusBadRequest, res.StatusCode)
			require.NotNil(t, res.Error)
			assert.Equal(t, "invalid input values.", res.Error.Message)
			assert.Equal(t, 0, users.queries, "validation must not touch the store")
		})
	}
}

func TestRegisterAndForgetPasswordValidationFailFast(t *testing.T) {
	h, users, _ := newHarness(t)

	rec := doJSON(h.Register, http.MethodPost, "/api/account/register",
		`{"email":"a@b.com","password":"","firstName":"A","lastName":"B"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, users.queries)

	rec = doJSON(h.ForgetPassword, http.MethodPost, "/api/account/forget-password",
		`{"email":"a@b.com","newPassword":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, users.queries)
}

// ----- login -----

func TestLoginSuccessIssuesTokenPair(t *testing.T) {
	h, users, tokens := newHarness(t)
	u := seedUser(t, users, "doc@clinic.test", "pa55word", model.RoleDoctor)

	rec := doJSON(h.Login, http.MethodPost, "/api/account/login",
		`{"email":"doc@clinic.test","password":"pa55word"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	res := decodeLogin(t, rec)
	assert.True(t, res.IsSuccess)
	assert.Nil(t, res.Error)
	assert.True(t, res.Data.Success)
	assert.NotEmpty(t, res.Data.Token)
	assert.NotEmpty(t, res.Data.RefreshToken)

	// The access token verifies against the configured issuer/audience and
	// carries the user's identity.
	claims, err := utils.ParseAccessToken("handler-test-secret", "clinic-api", "clinic-clients", res.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.Subject)
	assert.Equal(t, u.Role, claims.Role)

	// The refresh token is persisted (as a hash) and retrievable.
	assert.True(t, tokens.active(utils.HashRefreshRaw(res.Data.RefreshToken)))

	// The refresh token also travels as a hardened cookie.
	ck := refreshCookie(rec)
	require.NotNil(t, ck)
	assert.Equal(t, res.Data.RefreshToken, ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)
	assert.Equal(t, http.SameSiteStrictMode, ck.SameSite)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	h, users, _ := newHarness(t)
	seedUser(t, users, "known@clinic.test", "correct-pw", model.RolePatient)

	unknown := doJSON(h.Login, http.MethodPost, "/api/account/login",
		`{"email":"nobody@clinic.test","password":"whatever"}`)
	wrongPw := doJSON(h.Login, http.MethodPost, "/api/account/login",
		`{"email":"known@clinic.test","password":"wrong-pw"}`)

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)

	a := decodeLogin(t, unknown)
	b := decodeLogin(t, wrongPw)
	require.NotNil(t, a.Error)
	require.NotNil(t, b.Error)
	assert.Equal(t, a.Error.Type, b.Error.Type)
	assert.Equal(t, a.Error.Message, b.Error.Message)
	assert.False(t, a.Data.Success)
	assert.False(t, b.Data.Success)
	// Whole bodies match, not just messages.
	assert.JSONEq(t, unknown.Body.String(), wrongPw.Body.String())
}

// ----- refresh -----

func loginFor(t *testing.T, h *handler.AccountHandler, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	rec := doJSON(h.Login, http.MethodPost, "/api/account/login",
		`{"email":"`+email+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	return rec
}

func TestRefreshRotatesExactlyOnce(t *testing.T) {
	h, users, tokens := newHarness(t)
	seedUser(t, users, "p@clinic.test", "pw123456", model.RolePatient)
	first := refreshCookie(loginFor(t, h, "p@clinic.test", "pw123456"))
	require.NotNil(t, first)

	// First refresh succeeds and returns a new pair.
	rec := doJSON(h.RefreshToken, http.MethodPost, "/api/account/refresh-token", "",
		&http.Cookie{Name: "RefreshToken", Value: first.Value})
	assert.Equal(t, http.StatusOK, rec.Code)
	res := decodeLogin(t, rec)
	assert.True(t, res.IsSuccess)
	assert.NotEmpty(t, res.Data.Token)
	assert.NotEmpty(t, res.Data.RefreshToken)
	assert.NotEqual(t, first.Value, res.Data.RefreshToken, "refresh token must rotate")

	// The old token is revoked, the new one active.
	assert.False(t, tokens.active(utils.HashRefreshRaw(first.Value)))
	assert.True(t, tokens.active(utils.HashRefreshRaw(res.Data.RefreshToken)))

	// Replaying the consumed token is rejected as an authentication error.
	rec = doJSON(h.RefreshToken, http.MethodPost, "/api/account/refresh-token", "",
		&http.Cookie{Name: "RefreshToken", Value: first.Value})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	replay := decodeLogin(t, rec)
	require.NotNil(t, replay.Error)
	assert.Equal(t, result.KindAuthentication, replay.Error.Type)
}

func TestRefreshWithoutCookie(t *testing.T) {
	h, _, _ := newHarness(t)

	rec := doJSON(h.RefreshToken, http.MethodPost, "/api/account/refresh-token", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	res := decodeLogin(t, rec)
	require.NotNil(t, res.Error)
	assert.Equal(t, result.KindAuthentication, res.Error.Type)
}

func TestConcurrentRefreshSingleWinner(t *testing.T) {
	h, users, _ := newHarness(t)
	seedUser(t, users, "c@clinic.test", "pw123456", model.RolePatient)
	ck := refreshCookie(loginFor(t, h, "c@clinic.test", "pw123456"))
	require.NotNil(t, ck)

	const attempts = 8
	codes := make(chan int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := doJSON(h.RefreshToken, http.MethodPost, "/api/account/refresh-token", "",
				&http.Cookie{Name: "RefreshToken", Value: ck.Value})
			codes <- rec.Code
		}()
	}
	wg.Wait()
	close(codes)

	wins := 0
	for code := range codes {
		if code == http.StatusOK {
			wins++
		} else {
			assert.Equal(t, http.StatusUnauthorized, code)
		}
	}
	assert.Equal(t, 1, wins, "exactly one concurrent refresh may succeed")
}

// ----- register / forget-password / logout -----

func TestRegisterCreatesAccount(t *testing.T) {
	h, users, _ := newHarness(t)

	rec := doJSON(h.Register, http.MethodPost, "/api/account/register",
		`{"email":"New@Clinic.Test","password":"pw123456","firstName":"New","lastName":"User"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	u, err := users.GetByEmail(context.Background(), "new@clinic.test")
	require.NoError(t, err)
	assert.Equal(t, model.RolePatient, u.Role, "role defaults to PATIENT")
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "pw123456"))
	assert.NotEqual(t, "pw123456", u.PasswordHash)
}

func TestRegisterNeverGrantsAdmin(t *testing.T) {
	h, users, _ := newHarness(t)

	rec := doJSON(h.Register, http.MethodPost, "/api/account/register",
		`{"email":"evil@clinic.test","password":"pw","firstName":"E","lastName":"V","role":"ADMIN"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	u, err := users.GetByEmail(context.Background(), "evil@clinic.test")
	require.NoError(t, err)
	assert.Equal(t, model.RolePatient, u.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, users, _ := newHarness(t)
	seedUser(t, users, "dup@clinic.test", "pw", model.RolePatient)

	rec := doJSON(h.Register, http.MethodPost, "/api/account/register",
		`{"email":"dup@clinic.test","password":"pw","firstName":"D","lastName":"U"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestForgetPasswordUpdatesHash(t *testing.T) {
	h, users, _ := newHarness(t)
	seedUser(t, users, "reset@clinic.test", "old-pw", model.RolePatient)

	rec := doJSON(h.ForgetPassword, http.MethodPost, "/api/account/forget-password",
		`{"email":"reset@clinic.test","newPassword":"new-pw-99"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	u, err := users.GetByEmail(context.Background(), "reset@clinic.test")
	require.NoError(t, err)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "new-pw-99"))
	assert.False(t, utils.VerifyPassword(u.PasswordHash, "old-pw"))
}

func TestForgetPasswordUnknownEmailIsGeneric(t *testing.T) {
	h, _, _ := newHarness(t)

	rec := doJSON(h.ForgetPassword, http.MethodPost, "/api/account/forget-password",
		`{"email":"ghost@clinic.test","newPassword":"x-pw-1234"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, rec.Body.String(), "not found")
	assert.NotContains(t, rec.Body.String(), "ghost@clinic.test")
}

func TestLogoutRevokesCookieToken(t *testing.T) {
	h, users, tokens := newHarness(t)
	seedUser(t, users, "out@clinic.test", "pw123456", model.RolePatient)
	ck := refreshCookie(loginFor(t, h, "out@clinic.test", "pw123456"))
	require.NotNil(t, ck)

	rec := doJSON(h.Logout, http.MethodPost, "/api/account/logout", "",
		&http.Cookie{Name: "RefreshToken", Value: ck.Value})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, tokens.active(utils.HashRefreshRaw(ck.Value)))

	// The consumed token can no longer refresh.
	rec = doJSON(h.RefreshToken, http.MethodPost, "/api/account/refresh-token", "",
		&http.Cookie{Name: "RefreshToken", Value: ck.Value})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
