package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"research-samples/internal/domain"
	"research-samples/internal/service"
)

const currentUserKey = "current_user"

type registerRequest struct {
	Username    string `json:"username" binding:"required,max=150"`
	Password    string `json:"password" binding:"required,max=72"`
	IsTechnical bool   `json:"is_technical"`
}

// loginRequest binds either an OAuth2 password form or a JSON body.
type loginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

type UserResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	CreatedAt   string `json:"created_at"`
	IsTechnical bool   `json:"is_technical"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), service.RegisterInput{
		Username:    req.Username,
		Password:    req.Password,
		IsTechnical: req.IsTechnical,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			h.logger.WithField("username", req.Username).Warn("registration with existing username")
		}
		h.writeError(c, err)
		return
	}

	h.logger.WithField("username", user.Username).Info("user registered")
	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.WithField("username", req.Username).Warn("failed login attempt")
		}
		h.writeError(c, err)
		return
	}

	h.logger.WithField("username", token.User.Username).Info("user logged in")
	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: token.Token,
		TokenType:   token.TokenType,
	})
}

// requireAuth rejects the request unless it carries a valid bearer token for
// an existing user.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.auth.Authorize(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			h.writeError(c, err)
			c.Abort()
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
		IsTechnical: user.IsTechnical,
	}
}
