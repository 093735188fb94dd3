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

// PostComment creates a comment on a link, optionally under a parent
// comment, and bumps the link's denormalized comment count.
//
// A non-nil parent must already exist and belong to the same link; that
// pre-existence requirement is what makes cycles impossible by
// construction. Nothing is written until validation passes.
func PostComment(authorID, linkID uint, parentID *uint, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.ValidationError("comment content must not be empty").
			WithContext("operation", "post_comment")
	}

	var link models.Link
	if err := db.DB.First(&link, linkID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFoundError(fmt.Sprintf("link %d not found", linkID)).
				WithContext("operation", "post_comment")
		}
		return nil, errors.StoreError("failed to load link", err)
	}

	if parentID != nil {
		var parent models.Comment
		if err := db.DB.First(&parent, *parentID).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.ValidationError(fmt.Sprintf("parent comment %d does not exist", *parentID)).
					WithContext("operation", "post_comment")
			}
			return nil, errors.StoreError("failed to load parent comment", err)
		}
		if parent.LinkID != linkID {
			return nil, errors.ValidationError("comment does not belong to this link").
				WithContext("operation", "post_comment").
				WithContext("parent_id", *parentID)
		}
	}

	comment := models.Comment{
		LinkID:   linkID,
		UserID:   authorID,
		ParentID: parentID,
		Content:  content,
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		// Delta increment, same discipline as score: two concurrent
		// comments on one link must both count.
		return tx.Model(&models.Link{}).
			Where("id = ?", linkID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + ?", 1)).
			Error
	})
	if err != nil {
		return nil, errors.StoreError("failed to create comment", err)
	}

	return &comment, nil
}

// RootComments returns a link's top-level comments, best first: score
// descending, then oldest first among equals.
func RootComments(linkID uint) ([]models.Comment, error) {
	if _, err := LookupLink(linkID); err != nil {
		return nil, err
	}

	var comments []models.Comment
	err := db.DB.Where("link_id = ? AND parent_id IS NULL", linkID).
		Order("score DESC, created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, errors.StoreError("failed to load root comments", err)
	}
	return comments, nil
}

// Children returns a comment's direct replies in the same order as
// RootComments.
func Children(commentID uint) ([]models.Comment, error) {
	var parent models.Comment
	if err := db.DB.First(&parent, commentID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFoundError(fmt.Sprintf("comment %d not found", commentID))
		}
		return nil, errors.StoreError("failed to load comment", err)
	}

	var comments []models.Comment
	err := db.DB.Where("parent_id = ?", commentID).
		Order("score DESC, created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, errors.StoreError("failed to load replies", err)
	}
	return comments, nil
}

// Depth walks the parent chain to the root. Always computed, never
// stored: persisting it would drift if re-parenting ever arrives.
func Depth(comment *models.Comment) (int, error) {
	depth := 0
	current := comment
	for current.ParentID != nil {
		var parent models.Comment
		if err := db.DB.First(&parent, *current.ParentID).Error; err != nil {
			return 0, errors.StoreError("failed to walk comment ancestry", err)
		}
		depth++
		current = &parent
	}
	return depth, nil
}

// ThreadedComment is one node of an assembled discussion tree.
type ThreadedComment struct {
	models.Comment
	Depth    int               `json:"depth"`
	Children []ThreadedComment `json:"children"`
}

// Thread assembles the full comment forest for a link in display order:
// siblings by score descending then oldest first, depth annotated per
// node. One query, in-memory assembly.
func Thread(linkID uint) ([]ThreadedComment, error) {
	if _, err := LookupLink(linkID); err != nil {
		return nil, err
	}

	var comments []models.Comment
	err := db.DB.Where("link_id = ?", linkID).
		Order("score DESC, created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, errors.StoreError("failed to load comments", err)
	}

	byParent := make(map[uint][]models.Comment)
	var roots []models.Comment
	for _, c := range comments {
		if c.ParentID == nil {
			roots = append(roots, c)
		} else {
			byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
		}
	}

	var build func(list []models.Comment, depth int) []ThreadedComment
	build = func(list []models.Comment, depth int) []ThreadedComment {
		nodes := make([]ThreadedComment, 0, len(list))
		for _, c := range list {
			nodes = append(nodes, ThreadedComment{
				Comment:  c,
				Depth:    depth,
				Children: build(byParent[c.ID], depth+1),
			})
		}
		return nodes
	}

	return build(roots, 0), nil
}
