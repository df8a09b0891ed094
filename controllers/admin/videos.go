package adminController

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jnineawiwii/maquillaje-mac/models"
	"gorm.io/gorm"
)

var allowedVideoExts = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".wmv": true, ".webm": true, ".mkv": true,
}

func videoDir() string {
	if dir := os.Getenv("VIDEO_UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "static/videos"
}

// GET /admin/videos
func ListVideos(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var videos []models.Video
		if err := db.Order("created_at DESC").Find(&videos).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch videos"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "videos": videos})
	}
}

// POST /admin/videos
func CreateVideo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		title := c.PostForm("title")
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "title is required"})
			return
		}

		video := models.Video{
			Title:       title,
			Description: c.PostForm("description"),
			Category:    c.PostForm("category"),
			IsFeatured:  c.PostForm("is_featured") == "true" || c.PostForm("is_featured") == "on",
			CreatedAt:   time.Now(),
		}

		if _, err := c.FormFile("video_file"); err == nil {
			path, err := saveUpload(c, "video_file", videoDir(), "/videos", allowedVideoExts)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "failed to save video: " + err.Error()})
				return
			}
			video.FilePath = path
		} else if url := c.PostForm("url"); url != "" {
			video.URL = url
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "a video file or embed url is required"})
			return
		}

		if err := db.Create(&video).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to create video"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "video": video})
	}
}

// PUT /admin/videos/:id
func UpdateVideo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var video models.Video
		if err := db.First(&video, c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "video not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch video"})
			return
		}

		if title := c.PostForm("title"); title != "" {
			video.Title = title
		}
		if desc := c.PostForm("description"); desc != "" {
			video.Description = desc
		}
		if category := c.PostForm("category"); category != "" {
			video.Category = category
		}
		if featured, ok := c.GetPostForm("is_featured"); ok {
			video.IsFeatured = featured == "true" || featured == "on"
		}
		if _, err := c.FormFile("video_file"); err == nil {
			path, err := saveUpload(c, "video_file", videoDir(), "/videos", allowedVideoExts)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "failed to save video: " + err.Error()})
				return
			}
			video.FilePath = path
			video.URL = ""
		}

		if err := db.Save(&video).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update video"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "video": video})
	}
}

// DELETE /admin/videos/:id
func DeleteVideo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Delete(&models.Video{}, c.Param("id"))
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to delete video"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "video not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "video deleted"})
	}
}
