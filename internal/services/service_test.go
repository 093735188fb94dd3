package services

import (
	"testing"
	"time"

	"linkden/internal/db"
	"linkden/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	// Every pooled connection of an in-memory sqlite gets its own
	// database; pin the pool to one so all queries see the same schema.
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := models.AutoMigrate(gdb); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	db.DB = gdb
	return gdb
}

func createTestUser(t *testing.T, username string) models.User {
	t.Helper()
	user := models.User{Username: username}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func createTestLink(t *testing.T, userID uint, title string, createdAt time.Time) models.Link {
	t.Helper()
	link := models.Link{
		UserID:    userID,
		Title:     title,
		URL:       "https://example.com/" + title,
		CreatedAt: createdAt,
	}
	if err := db.DB.Create(&link).Error; err != nil {
		t.Fatalf("Failed to create test link: %v", err)
	}
	return link
}

func createTestComment(t *testing.T, userID, linkID uint, parentID *uint, content string) models.Comment {
	t.Helper()
	comment, err := PostComment(userID, linkID, parentID, content)
	if err != nil {
		t.Fatalf("Failed to create test comment: %v", err)
	}
	return *comment
}

func setCommentScore(t *testing.T, commentID uint, score int) {
	t.Helper()
	if err := db.DB.Model(&models.Comment{}).Where("id = ?", commentID).
		UpdateColumn("score", score).Error; err != nil {
		t.Fatalf("Failed to set comment score: %v", err)
	}
}
