// Package devstub is a local, in-memory rendition of the backend's auth
// contract, used for development and for exercising the client's refresh
// and retry paths in tests.
package devstub

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/workforce-client/internal/api/dto"
	"github.com/spec-kit/workforce-client/internal/config"
	"github.com/spec-kit/workforce-client/internal/domain"
)

const refreshCookie = "refresh_token"

type account struct {
	user         domain.UserRecord
	passwordHash string
	plan         domain.SubscriptionPlan
}

// Server implements POST /api/v1/auth/login, POST /api/v1/auth/refresh,
// GET /api/v1/auth/me and POST /api/v1/auth/logout against in-memory
// state. Refresh authenticates through an HttpOnly-style cookie, the way
// the real backend does.
type Server struct {
	app    *fiber.App
	tokens *TokenManager
	cost   int
	logger *zap.Logger

	mu          sync.Mutex
	accounts    map[string]*account // by email
	sessions    map[string]string   // refresh cookie value -> user id
	generation  int
	failRefresh bool
	lastTenant  string
}

// New builds the stub from config.
func New(cfg config.StubConfig, logger *zap.Logger) *Server {
	s := &Server{
		tokens:   NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		cost:     cfg.BcryptCost,
		logger:   logger,
		accounts: make(map[string]*account),
		sessions: make(map[string]string),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fiberErr *fiber.Error
			if e, ok := err.(*fiber.Error); ok {
				fiberErr = e
				code = e.Code
			}
			message := http.StatusText(code)
			if fiberErr != nil {
				message = fiberErr.Message
			}
			return c.Status(code).JSON(fiber.Map{"message": message})
		},
	})

	app.Use(func(c *fiber.Ctx) error {
		s.mu.Lock()
		s.lastTenant = c.Get("X-Tenant")
		s.mu.Unlock()
		return c.Next()
	})

	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1/auth")
	v1.Post("/register", s.register)
	v1.Post("/login", s.login)
	v1.Post("/refresh", s.refresh)
	v1.Get("/me", s.me)
	v1.Post("/logout", s.logout)

	s.app = app
	return s
}

// App exposes the fiber app for in-process testing.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves on addr until the process ends.
func (s *Server) Listen(addr string) error { return s.app.Listen(addr) }

// Shutdown stops the app.
func (s *Server) Shutdown() error { return s.app.Shutdown() }

// SeedUser registers an account for login.
func (s *Server) SeedUser(email, password string, user domain.UserRecord, plan domain.SubscriptionPlan) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return err
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.Email = email
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	s.mu.Lock()
	s.accounts[strings.ToLower(email)] = &account{user: user, passwordHash: string(hash), plan: plan}
	s.mu.Unlock()
	return nil
}

// RevokeAccessTokens invalidates every outstanding access token while
// keeping refresh sessions alive, forcing clients through the refresh
// path on their next call.
func (s *Server) RevokeAccessTokens() {
	s.mu.Lock()
	s.generation++
	s.mu.Unlock()
}

// FailRefresh makes the refresh endpoint reject until reset.
func (s *Server) FailRefresh(fail bool) {
	s.mu.Lock()
	s.failRefresh = fail
	s.mu.Unlock()
}

// LastTenantHeader reports the X-Tenant value of the most recent request.
func (s *Server) LastTenantHeader() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTenant
}

func (s *Server) register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	s.mu.Lock()
	_, exists := s.accounts[strings.ToLower(req.Email)]
	s.mu.Unlock()
	if exists {
		return fiber.NewError(http.StatusUnprocessableEntity, "email already registered")
	}

	user := domain.UserRecord{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      domain.RoleOwner,
	}
	if err := s.SeedUser(req.Email, req.Password, user, domain.PlanFree); err != nil {
		return fiber.NewError(http.StatusInternalServerError, "account creation failed")
	}

	return s.issueSession(c, strings.ToLower(req.Email))
}

func (s *Server) login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	s.mu.Lock()
	acct, ok := s.accounts[strings.ToLower(req.Email)]
	s.mu.Unlock()
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.passwordHash), []byte(req.Password)); err != nil {
		return fiber.NewError(http.StatusUnauthorized, "invalid credentials")
	}

	return s.issueSession(c, strings.ToLower(req.Email))
}

func (s *Server) issueSession(c *fiber.Ctx, email string) error {
	s.mu.Lock()
	acct, ok := s.accounts[email]
	gen := s.generation
	s.mu.Unlock()
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "invalid credentials")
	}

	token, err := s.tokens.Generate(acct.user.ID, acct.user.Role, gen)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "token issue failed")
	}

	session := uuid.NewString()
	s.mu.Lock()
	s.sessions[session] = acct.user.ID
	s.mu.Unlock()

	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    session,
		HTTPOnly: true,
		Path:     "/",
	})

	return c.JSON(dto.AuthResponse{
		User:         acct.user,
		AccessToken:  token,
		Subscription: &domain.Subscription{Plan: acct.plan},
	})
}

func (s *Server) refresh(c *fiber.Ctx) error {
	session := c.Cookies(refreshCookie)
	if session == "" {
		return fiber.NewError(http.StatusUnauthorized, "missing refresh session")
	}

	s.mu.Lock()
	fail := s.failRefresh
	userID, ok := s.sessions[session]
	gen := s.generation
	s.mu.Unlock()
	if fail || !ok {
		return fiber.NewError(http.StatusUnauthorized, "refresh rejected")
	}

	acct := s.accountByID(userID)
	if acct == nil {
		return fiber.NewError(http.StatusUnauthorized, "refresh rejected")
	}

	token, err := s.tokens.Generate(acct.user.ID, acct.user.Role, gen)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, "token issue failed")
	}
	return c.JSON(dto.RefreshResponse{AccessToken: token})
}

func (s *Server) me(c *fiber.Ctx) error {
	acct, err := s.authenticate(c)
	if err != nil {
		return err
	}
	return c.JSON(dto.MeResponse{
		User:         acct.user,
		Subscription: &domain.Subscription{Plan: acct.plan},
	})
}

func (s *Server) logout(c *fiber.Ctx) error {
	if session := c.Cookies(refreshCookie); session != "" {
		s.mu.Lock()
		delete(s.sessions, session)
		s.mu.Unlock()
	}
	c.Cookie(&fiber.Cookie{
		Name:    refreshCookie,
		Value:   "",
		Expires: time.Now().Add(-time.Hour),
		Path:    "/",
	})
	return c.JSON(fiber.Map{})
}

func (s *Server) authenticate(c *fiber.Ctx) (*account, error) {
	header := c.Get("Authorization")
	if header == "" {
		return nil, fiber.NewError(http.StatusUnauthorized, "missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, fiber.NewError(http.StatusUnauthorized, "invalid authorization header")
	}

	claims, err := s.tokens.Parse(parts[1])
	if err != nil {
		return nil, fiber.NewError(http.StatusUnauthorized, "invalid token")
	}

	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()
	if claims.Generation != gen {
		return nil, fiber.NewError(http.StatusUnauthorized, "token revoked")
	}

	acct := s.accountByID(claims.UserID)
	if acct == nil {
		return nil, fiber.NewError(http.StatusUnauthorized, "user not found")
	}
	return acct, nil
}

func (s *Server) accountByID(id string) *account {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range s.accounts {
		if acct.user.ID == id {
			return acct
		}
	}
	return nil
}
