package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/jnineawiwii/maquillaje-mac/controllers/paypal"
	"github.com/jnineawiwii/maquillaje-mac/models"
	"github.com/jnineawiwii/maquillaje-mac/routes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	log.Println("✅ Starting application...")

	// Load environment variables
	_ = godotenv.Load()

	// Init DB
	db := initDatabase()

	// Auto-migrate all tables
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.PaymentIntent{},
		&models.Venta{},
		&models.Video{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}
	if err := models.MigrateCartIndexes(db); err != nil {
		log.Fatalf("❌ Cart index migration failed: %v", err)
	}

	seedDatabase(db)

	// Gin setup
	r := gin.Default()

	// Allow large video uploads (100 MB)
	r.MaxMultipartMemory = 100 << 20

	// CORS settings
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Directories
	uploadsDir := envOr("UPLOAD_DIR", "static/uploads")
	videosDir := envOr("VIDEO_UPLOAD_DIR", "static/videos")
	backupDir := envOr("BACKUP_DIR", "backup/uploads")

	// Serve uploaded images and videos
	r.Static("/uploads", uploadsDir)
	r.Static("/videos", videosDir)

	// Setup routes
	routes.SetupRoutes(r, db, paypal.NewClientFromEnv())

	// Start backup routine at 2 AM daily, keep 4 days of backups
	go startDailyBackupAtFixedTime(uploadsDir, backupDir, 4*24*time.Hour, 2, 0)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Server running on port %s...", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// initDatabase sets up the GORM DB connection
func initDatabase() *gorm.DB {
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err != nil {
			log.Fatalf("❌ DB connection failed: %v", err)
		}
		return db
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"), os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Failed to connect DB: %v", err)
	}
	return db
}

// seedDatabase creates the bootstrap admin accounts and a few sample
// products on an empty database.
func seedDatabase(db *gorm.DB) {
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)
	if userCount == 0 {
		masterAdmin := models.User{Username: "master_admin", Email: "master@example.com", Role: models.RoleMasterAdmin, CreatedAt: time.Now()}
		admin := models.User{Username: "admin", Email: "admin@example.com", Role: models.RoleAdmin, CreatedAt: time.Now()}
		if masterAdmin.SetPassword(envOr("MASTER_ADMIN_PASSWORD", "master123")) == nil &&
			admin.SetPassword(envOr("ADMIN_PASSWORD", "admin123")) == nil {
			db.Create(&masterAdmin)
			db.Create(&admin)
			log.Println("✅ Bootstrap admin accounts created")
		}
	}

	var productCount int64
	db.Model(&models.Product{}).Count(&productCount)
	if productCount == 0 {
		samples := []models.Product{
			{Name: "Labial Mate Ruby Woo", Description: "Labial de larga duración color rojo intenso", Price: 25.00, Category: "labios", ImageURL: "/static/images/lipstick.jpg", Stock: 50},
			{Name: "Base Studio Fix Fluid", Description: "Base de cobertura media a completa", Price: 35.00, Category: "rostro", ImageURL: "/static/images/foundation.jpg", Stock: 30},
			{Name: "Sombra de Ojos", Description: "Paleta de sombras con 9 tonos neutros", Price: 45.00, Category: "ojos", ImageURL: "/static/images/eyeshadow.jpg", Stock: 25},
		}
		for i := range samples {
			db.Create(&samples[i])
		}
		log.Println("✅ Sample products created")
	}
}

// startDailyBackupAtFixedTime backs up uploads daily at a fixed hour and removes old backups
func startDailyBackupAtFixedTime(srcDir, backupDir string, retention time.Duration, hour, min int) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, 0, 0, now.Location())
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}
		log.Printf("⏳ Next uploads backup scheduled at: %s", next.Format("2006-01-02 15:04:05"))
		time.Sleep(next.Sub(now))

		timestamp := time.Now().Format("2006-01-02_15-04-05")
		destDir := filepath.Join(backupDir, timestamp)

		if err := copyDir(srcDir, destDir); err != nil {
			log.Printf("❌ Failed to back up uploads: %v", err)
		} else {
			log.Printf("✅ Uploads backed up to %s", destDir)
		}

		cleanupOldBackups(backupDir, retention)
	}
}

// copyDir recursively copies a folder
func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())

		if entry.IsDir() {
			if err := copyDir(srcPath, destPath); err != nil {
				return err
			}
		} else {
			if err := copyFile(srcPath, destPath); err != nil {
				return err
			}
		}
	}
	return nil
}

// copyFile copies a single file
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

// cleanupOldBackups removes backup folders older than retention duration
func cleanupOldBackups(backupDir string, retention time.Duration) {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		log.Printf("❌ Failed to read backup directory: %v", err)
		return
	}

	cutoff := time.Now().Add(-retention)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folderPath := filepath.Join(backupDir, entry.Name())
		info, err := os.Stat(folderPath)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.RemoveAll(folderPath); err != nil {
				log.Printf("❌ Failed to remove old backup %s: %v", folderPath, err)
			} else {
				log.Printf("🗑️ Removed old backup: %s", folderPath)
			}
		}
	}
}
