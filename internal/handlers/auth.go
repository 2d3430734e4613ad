package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"foresttrack/internal/ids"
	"foresttrack/internal/models"
	"foresttrack/internal/security"
	"foresttrack/internal/service"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type authResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
	User        userResponse `json:"user"`
}

type userResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	Phone          string    `json:"phone,omitempty"`
	Location       string    `json:"location,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	LookingFor     string    `json:"lookingFor,omitempty"`
	JoinDate       string    `json:"joinDate,omitempty"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           string(u.Role),
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
		Phone:          u.Phone,
		Location:       u.Location,
		Bio:            u.Bio,
		LookingFor:     u.LookingFor,
		JoinDate:       u.JoinDate,
	}
}

func (h HandlerSet) RegisterAccount(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request")
		return
	}

	user, err := h.app.Accounts.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     models.UserRole(req.Role),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.sendAuthResponse(c, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request")
		return
	}

	user, err := h.app.Accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.sendAuthResponse(c, http.StatusOK, user)
}

// Session restores a persisted session: it returns the session user with a
// fresh token, or 401 when nobody is logged in.
func (h HandlerSet) Session(c *gin.Context) {
	user, err := h.app.Accounts.Current(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.sendAuthResponse(c, http.StatusOK, user)
}

func (h HandlerSet) Logout(c *gin.Context) {
	if err := h.app.Accounts.Logout(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type profileRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	Role           *string `json:"role"`
	ProfilePicture *string `json:"profilePicture"`
	Phone          *string `json:"phone"`
	Location       *string `json:"location"`
	Bio            *string `json:"bio"`
	LookingFor     *string `json:"lookingFor"`
	JoinDate       *string `json:"joinDate"`
}

func (h HandlerSet) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_request")
		return
	}

	patch := models.ProfilePatch{
		Name:           req.Name,
		Email:          req.Email,
		ProfilePicture: req.ProfilePicture,
		Phone:          req.Phone,
		Location:       req.Location,
		Bio:            req.Bio,
		LookingFor:     req.LookingFor,
		JoinDate:       req.JoinDate,
	}
	if req.Role != nil {
		role := models.UserRole(*req.Role)
		patch.Role = &role
	}

	user, err := h.app.Accounts.UpdateProfile(c.Request.Context(), patch)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toUserResponse(user)})
}

func (h HandlerSet) sendAuthResponse(c *gin.Context, status int, user models.User) {
	ttl := h.cfg.Security.JWTAccessTTL
	token, err := security.GenerateAccessToken(h.cfg.Security.JWTAccessSecret, user.ID, ids.New(), string(user.Role), ttl)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(status, authResponse{
		AccessToken: token,
		ExpiresAt:   time.Now().Add(ttl).UTC(),
		User:        toUserResponse(user),
	})
}
