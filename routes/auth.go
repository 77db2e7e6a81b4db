package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"oficios-server/apperrors"
	"oficios-server/config"
	"oficios-server/services"
	"oficios-server/utils"
)

type AuthHandler struct {
	accounts *services.AccountService
	cfg      *config.Config
}

// RegisterAuthRoutes registers signup, signin and the current-user route.
func RegisterAuthRoutes(router *gin.RouterGroup, cfg *config.Config, svc *services.AccountService, authRequired gin.HandlerFunc) {
	h := &AuthHandler{accounts: svc, cfg: cfg}

	router.POST("/signup", h.signUp)
	router.POST("/signin", h.signIn)
	router.GET("/me", authRequired, h.me)
}

type signUpRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) signUp(c *gin.Context) {
	var body signUpRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.NewValidationError("Invalid signup data: "+err.Error()))
		return
	}

	user, err := h.accounts.SignUp(services.SignUpInput{
		FullName: body.FullName,
		Email:    body.Email,
		Password: body.Password,
		Role:     body.Role,
	})
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	token, err := utils.GenerateToken(h.cfg, user.ID, string(user.Role))
	if err != nil {
		apperrors.Respond(c, apperrors.NewInternalError("Failed to issue token", err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"token":  token,
		"user":   user,
	})
}

func (h *AuthHandler) signIn(c *gin.Context) {
	var body signInRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apperrors.Respond(c, apperrors.NewValidationError("Invalid signin data: "+err.Error()))
		return
	}

	user, err := h.accounts.Authenticate(body.Email, body.Password)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	token, err := utils.GenerateToken(h.cfg, user.ID, string(user.Role))
	if err != nil {
		apperrors.Respond(c, apperrors.NewInternalError("Failed to issue token", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"token":  token,
		"user":   user,
	})
}

func (h *AuthHandler) me(c *gin.Context) {
	user, err := h.accounts.ByID(c.GetUint("user_id"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"user":   user,
	})
}
