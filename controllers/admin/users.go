package adminController

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jnineawiwii/maquillaje-mac/models"
	"gorm.io/gorm"
)

type userInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func validRole(role string) bool {
	switch models.Role(role) {
	case models.RoleCustomer, models.RoleAdmin, models.RoleMasterAdmin:
		return true
	}
	return false
}

// GET /admin/users (master_admin)
func ListUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Order("created_at DESC").Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch users"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
	}
}

// POST /admin/users (master_admin)
func CreateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input userInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid input: " + err.Error()})
			return
		}
		if input.Username == "" || input.Email == "" || input.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "username, email, and password are required"})
			return
		}
		if !validRole(input.Role) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid role"})
			return
		}

		var existing models.User
		if err := db.Where("username = ? OR email = ?", input.Username, input.Email).
			First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "username or email already registered"})
			return
		}

		user := models.User{
			Username:  input.Username,
			Email:     input.Email,
			Role:      models.Role(input.Role),
			CreatedAt: time.Now(),
		}
		if err := user.SetPassword(input.Password); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to hash password"})
			return
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to create user"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "user": user})
	}
}

// PUT /admin/users/:id (master_admin)
func UpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.First(&user, c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch user"})
			return
		}

		var input userInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid input: " + err.Error()})
			return
		}
		if input.Username != "" {
			user.Username = input.Username
		}
		if input.Email != "" {
			user.Email = input.Email
		}
		if input.Role != "" {
			if !validRole(input.Role) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid role"})
				return
			}
			user.Role = models.Role(input.Role)
		}
		if input.Password != "" {
			if err := user.SetPassword(input.Password); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to hash password"})
				return
			}
		}

		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update user"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
	}
}

// DELETE /admin/users/:id (master_admin)
// A master admin cannot delete their own account.
func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := db.First(&user, c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch user"})
			return
		}

		if callerID, exists := c.Get("user_id"); exists && callerID.(uint) == user.ID {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "cannot delete your own account"})
			return
		}

		if err := db.Delete(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to delete user"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "user deleted"})
	}
}
