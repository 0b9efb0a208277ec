package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rmoreas/library-admin/internal/auth"
	"github.com/rmoreas/library-admin/internal/domain/user"
	"github.com/rmoreas/library-admin/internal/http/middlewares"
	"github.com/rmoreas/library-admin/internal/repo/userfile"
)

// CredentialStore is what the auth endpoints need from the user file repo.
type CredentialStore interface {
	Register(username, password, name string, role user.Role) (user.User, error)
	Authenticate(username, password string) (user.User, error)
}

type AuthHandler struct {
	users CredentialStore
	jwt   *auth.Manager
}

func NewAuthHandler(users CredentialStore, jwtManager *auth.Manager) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwtManager,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SignUpRequest struct {
	Username        string `json:"username" binding:"required,min=3,max=40"`
	Password        string `json:"password" binding:"required,min=6"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required,eqfield=Password"`
	Name            string `json:"name" binding:"required,max=120"`
}

func (h *AuthHandler) SignUp(ctx *gin.Context) {
	var req SignUpRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// self-service signup always gets the plain user role
	u, err := h.users.Register(req.Username, req.Password, req.Name, user.RoleUser)

	if err != nil {
		if errors.Is(err, user.ErrUserExists) {
			RespondConflict(ctx, "user_exists", "Username is already taken.")
			return
		}

		if errors.Is(err, userfile.ErrStorage) {
			RespondError(ctx, http.StatusInternalServerError, "storage_error", "Could not persist the new user.", nil)
			return
		}

		RespondInternal(ctx, "Could not create user")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"username": u.Username,
		"name":     u.Name,
		"role":     u.Role,
	})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	foundUser, err := h.users.Authenticate(req.Username, req.Password)

	if err != nil {
		// one undifferentiated failure for unknown user and wrong password
		if errors.Is(err, user.ErrInvalidCredentials) {
			RespondUnAuthorized(ctx, "invalid_credentials", "Username or password is incorrect.")
			return
		}

		RespondInternal(ctx, "Could not verify credentials")
		return
	}

	accessToken, err := h.jwt.GenerateAccessToken(foundUser.Username, foundUser.Name, string(foundUser.Role))

	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"accessToken": accessToken,
		"user": gin.H{
			"username": foundUser.Username,
			"name":     foundUser.Name,
			"role":     foundUser.Role,
		},
	})
}

// Logout exists so the UI has an explicit end-of-session action. Tokens are
// stateless, so there is nothing to revoke server-side.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	ctx.Status(http.StatusNoContent)
}

// Me returns the identity behind the presented token (sidebar greeting).
func (h *AuthHandler) Me(ctx *gin.Context) {
	username, _ := middlewares.UsernameFromContext(ctx)
	role, _ := middlewares.RoleFromContext(ctx)

	name := ""
	if v, ok := ctx.Get(middlewares.CtxName); ok {
		name, _ = v.(string)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"username": username,
		"name":     name,
		"role":     role,
	})
}
