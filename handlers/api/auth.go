package api

import (
	"errors"
	"leadboard/config"
	"leadboard/middleware"
	"leadboard/models"
	"leadboard/storage"
	"leadboard/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// AuthHandler handles registration, login and session lifecycle
type AuthHandler struct {
	store  *session.Store
	users  *storage.UserStorage
	config *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(store *session.Store, users *storage.UserStorage, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		store:  store,
		users:  users,
		config: cfg,
	}
}

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates an account and signs the new user in
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user := &models.User{Name: req.Name, Email: req.Email}
	if err := h.users.CreateUser(c.UserContext(), user, req.Password); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return utils.NewAppError(fiber.StatusConflict, "Email already registered", err)
		}
		return utils.StoreUnavailableError(err)
	}

	resp, err := h.signIn(c, user)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login checks credentials, starts a session and issues a bearer token
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.users.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidCredentials) {
			return utils.UnauthorizedError("Invalid email or password", err).WithKey("error_invalid_credentials")
		}
		return utils.StoreUnavailableError(err)
	}

	resp, err := h.signIn(c, user)
	if err != nil {
		return err
	}
	utils.Log.WithField("user", user.ID).Info("User logged in")
	return c.JSON(resp)
}

// Logout destroys the session
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err != nil {
		return utils.InternalServerError("Failed to load session", err)
	}
	if err := sess.Destroy(); err != nil {
		return utils.InternalServerError("Failed to destroy session", err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// Me returns the acting user
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	user, err := h.users.GetUser(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return utils.UnauthorizedError("Unauthenticated", err)
		}
		return utils.StoreUnavailableError(err)
	}
	return c.JSON(user)
}

// CSRF issues a double-submit token for cookie-authenticated writes
func (h *AuthHandler) CSRF(c *fiber.Ctx) error {
	cfg := middleware.DefaultCSRFConfig()
	cfg.CookieSecure = h.config.Server.CookieSecure
	token, err := middleware.IssueCSRFToken(c, cfg)
	if err != nil {
		return utils.InternalServerError("Failed to issue CSRF token", err)
	}
	return c.JSON(fiber.Map{"token": token})
}

func (h *AuthHandler) signIn(c *fiber.Ctx, user *models.User) (*authResponse, error) {
	sess, err := h.store.Get(c)
	if err != nil {
		return nil, utils.InternalServerError("Failed to load session", err)
	}
	if err := sess.Regenerate(); err != nil {
		return nil, utils.InternalServerError("Failed to start session", err)
	}
	sess.Set(middleware.SessionUserKey, user.ID)
	if err := sess.Save(); err != nil {
		return nil, utils.InternalServerError("Failed to save session", err)
	}

	token, err := utils.GenerateToken(user.ID, user.Email, h.config.JWT.Secret, h.config.TokenTTL())
	if err != nil {
		return nil, utils.InternalServerError("Failed to issue token", err)
	}
	return &authResponse{User: user, Token: token}, nil
}
