package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kendall-kelly/garage-jobs-api/models"
	"github.com/kendall-kelly/garage-jobs-api/utils"
)

// RegisterRequest represents the request body for registering a user
type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	Role      string `json:"role"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	PushToken string `json:"push_token"`
}

// LoginRequest represents the request body for logging in.
// Either username or email identifies the account.
type LoginRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	PushToken string `json:"push_token"`
}

// SavePushTokenRequest represents the request body for registering a device
type SavePushTokenRequest struct {
	PushToken string `json:"push_token" binding:"required"`
}

// UserController serves registration, login and user lookups
type UserController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

// NewUserController creates a user controller
func NewUserController(db *gorm.DB, logger *log.Logger) *UserController {
	return &UserController{DB: db, Logger: logger}
}

// Register handles POST /api/register - creates a user account
func (uc *UserController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "username and password are required")
		return
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = models.RoleUser
	}
	if !models.IsValidRole(role) {
		utils.RespondError(c, http.StatusBadRequest, "role must be 'user' or 'admin'")
		return
	}

	user := models.User{
		Username: req.Username,
		Name:     req.Name,
		Password: req.Password,
		Role:     role,
	}
	if req.Email != "" {
		user.Email = &req.Email
	}
	if req.PushToken != "" {
		user.PushToken = &req.PushToken
	}

	if err := uc.DB.WithContext(c.Request.Context()).Create(&user).Error; err != nil {
		if utils.IsDuplicateKey(err) {
			utils.RespondError(c, http.StatusBadRequest, "a user with this username or email already exists")
			return
		}
		uc.Logger.WithError(err).Error("failed to create user")
		utils.RespondError(c, http.StatusBadRequest, "failed to register user")
		return
	}

	c.JSON(http.StatusCreated, user.Profile())
}

// Login handles POST /api/login - checks credentials and refreshes the push token
func (uc *UserController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	identifier := req.Username
	if identifier == "" {
		identifier = req.Email
	}
	if identifier == "" || req.Password == "" {
		utils.RespondError(c, http.StatusBadRequest, "username and password are required")
		return
	}

	db := uc.DB.WithContext(c.Request.Context())

	var user models.User
	err := db.Where("(username = ? OR email = ?) AND password = ?", identifier, identifier, req.Password).
		First(&user).Error
	if err != nil {
		if utils.IsNotFound(err) {
			utils.RespondError(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		uc.Logger.WithError(err).Error("failed to look up user for login")
		utils.RespondError(c, http.StatusInternalServerError, "failed to log in")
		return
	}

	if req.PushToken != "" && (user.PushToken == nil || *user.PushToken != req.PushToken) {
		if err := db.Model(&user).Update("push_token", req.PushToken).Error; err != nil {
			uc.Logger.WithError(err).WithField("user_id", user.ID).Error("failed to update push token on login")
		} else {
			uc.Logger.WithField("user_id", user.ID).Info("push token updated on login")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user.Profile(),
	})
}

// SavePushToken handles PUT /api/users/:id/push-token - stores the user's device token
func (uc *UserController) SavePushToken(c *gin.Context) {
	var req SavePushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "push_token is required")
		return
	}

	id, ok := utils.ParseID(c, "id")
	if !ok {
		utils.RespondError(c, http.StatusNotFound, "user not found")
		return
	}

	result := uc.DB.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("push_token", req.PushToken)
	if result.Error != nil {
		uc.Logger.WithError(result.Error).WithField("user_id", id).Error("failed to save push token")
		utils.RespondError(c, http.StatusInternalServerError, "failed to save push token")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, "user not found")
		return
	}

	c.JSON(http.StatusOK, utils.MessageResponse{Message: "push token saved"})
}

// ListUsers handles GET /api/users - lists users, optionally filtered by ?role=
func (uc *UserController) ListUsers(c *gin.Context) {
	query := uc.DB.WithContext(c.Request.Context()).Order("id")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		uc.Logger.WithError(err).Error("failed to list users")
		utils.RespondError(c, http.StatusInternalServerError, "failed to fetch users")
		return
	}

	profiles := make([]models.UserProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.Profile())
	}
	c.JSON(http.StatusOK, profiles)
}
