package services

import (
	stderrors "errors"
	"fmt"
	"strings"

	"linkden/internal/db"
	"linkden/internal/errors"
	"linkden/internal/models"

	"gorm.io/gorm"
)

// SubmitLink creates a new link and casts the author's implicit upvote
// through the ledger, so score stays the sum of vote rows from the very
// first second.
func SubmitLink(authorID uint, title, url, description string) (*models.Link, error) {
	if strings.TrimSpace(title) == "" {
		return nil, errors.ValidationError("title must not be empty").
			WithContext("operation", "submit_link")
	}

	var author models.User
	if err := db.DB.First(&author, authorID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFoundError(fmt.Sprintf("user %d not found", authorID)).
				WithContext("operation", "submit_link")
		}
		return nil, errors.StoreError("failed to load author", err)
	}

	link := models.Link{
		UserID:      authorID,
		Title:       strings.TrimSpace(title),
		URL:         strings.TrimSpace(url),
		Description: description,
	}
	if err := db.DB.Create(&link).Error; err != nil {
		return nil, errors.StoreError("failed to create link", err)
	}

	if _, err := CastVote(authorID, models.VotableLink, link.ID, 1); err != nil {
		return nil, err
	}

	// Re-read so the returned snapshot carries the self-vote.
	return LookupLink(link.ID)
}
