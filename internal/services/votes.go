package services

import (
	stderrors "errors"
	"fmt"

	"linkden/internal/db"
	"linkden/internal/errors"
	"linkden/internal/models"

	"gorm.io/gorm"
)

// maxCastRetries bounds recovery from lost races on the same vote row
// before a ConflictError surfaces.
const maxCastRetries = 3

// errVoteRace marks a lost race on the vote row inside a single attempt:
// either the unique index rejected a concurrent insert or the optimistic
// value guard matched zero rows. The whole cast is re-run from a fresh
// read.
var errVoteRace = stderrors.New("vote row contention")

// CastVote records voterID's vote on the given target and returns the
// applied delta (new value minus previous value).
//
// Value 1 and -1 upvote and downvote; 0 retracts. A repeat of the current
// value is an idempotent no-op. The target's score is adjusted by the
// delta in the same transaction as the vote row, and the same delta is
// propagated to the target author's karma after commit.
func CastVote(voterID uint, votableType models.VotableType, votableID uint, value int) (int, error) {
	if value < -1 || value > 1 {
		return 0, errors.ValidationError(fmt.Sprintf("vote value must be -1, 0 or 1, got %d", value)).
			WithContext("operation", "cast_vote")
	}
	if !votableType.Valid() {
		return 0, errors.ValidationError(fmt.Sprintf("unknown votable type %q", votableType)).
			WithContext("operation", "cast_vote")
	}

	target, err := loadVotable(votableType, votableID)
	if err != nil {
		return 0, err
	}

	for attempt := 0; attempt < maxCastRetries; attempt++ {
		delta, err := tryCastVote(voterID, votableType, votableID, value)
		if err == nil {
			if delta != 0 {
				if err := Karma().Submit(target.AuthorID(), delta, karmaReason(votableType, value, delta)); err != nil {
					return 0, err
				}
			}
			return delta, nil
		}
		if !stderrors.Is(err, errVoteRace) {
			return 0, err
		}
	}

	return 0, errors.ConflictError("vote lost race with concurrent writes, retries exhausted").
		WithContext("operation", "cast_vote").
		WithContext("votable_type", string(votableType)).
		WithContext("votable_id", votableID)
}

// tryCastVote runs one optimistic attempt: read the existing row, upsert
// it, and apply the score delta, all in one transaction.
func tryCastVote(voterID uint, votableType models.VotableType, votableID uint, value int) (int, error) {
	var delta int

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Vote
		err := tx.Where("user_id = ? AND votable_type = ? AND votable_id = ?",
			voterID, votableType, votableID).First(&existing).Error

		switch {
		case err == nil:
			delta = value - existing.Value
			if delta == 0 {
				return nil
			}
			// Value guard: if a concurrent cast already moved the row,
			// zero rows match and the attempt restarts from a fresh read.
			res := tx.Model(&models.Vote{}).
				Where("id = ? AND value = ?", existing.ID, existing.Value).
				Update("value", value)
			if res.Error != nil {
				return errors.StoreError("failed to update vote", res.Error)
			}
			if res.RowsAffected == 0 {
				return errVoteRace
			}

		case stderrors.Is(err, gorm.ErrRecordNotFound):
			if value == 0 {
				// Retracting a vote that was never cast is not an error.
				delta = 0
				return nil
			}
			vote := models.Vote{
				UserID:      voterID,
				VotableType: votableType,
				VotableID:   votableID,
				Value:       value,
			}
			if err := tx.Create(&vote).Error; err != nil {
				if stderrors.Is(err, gorm.ErrDuplicatedKey) {
					return errVoteRace
				}
				return errors.StoreError("failed to insert vote", err)
			}
			delta = value

		default:
			return errors.StoreError("failed to read vote", err)
		}

		if delta != 0 {
			if err := applyScoreDelta(tx, votableType, votableID, delta); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return delta, nil
}

// applyScoreDelta adjusts the target's denormalized score in place. Always
// an increment-by-delta, never a read-modify-write, so concurrent votes on
// the same target both land.
func applyScoreDelta(tx *gorm.DB, votableType models.VotableType, votableID uint, delta int) error {
	var res *gorm.DB
	switch votableType {
	case models.VotableLink:
		res = tx.Model(&models.Link{}).Where("id = ?", votableID).
			UpdateColumn("score", gorm.Expr("score + ?", delta))
	case models.VotableComment:
		res = tx.Model(&models.Comment{}).Where("id = ?", votableID).
			UpdateColumn("score", gorm.Expr("score + ?", delta))
	}
	if res.Error != nil {
		return errors.StoreError("failed to apply score delta", res.Error)
	}
	return nil
}

// loadVotable resolves the tagged target reference to the entity behind it.
func loadVotable(votableType models.VotableType, votableID uint) (models.Votable, error) {
	switch votableType {
	case models.VotableLink:
		var link models.Link
		if err := db.DB.First(&link, votableID).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.NotFoundError(fmt.Sprintf("link %d not found", votableID))
			}
			return nil, errors.StoreError("failed to load link", err)
		}
		return &link, nil
	case models.VotableComment:
		var comment models.Comment
		if err := db.DB.First(&comment, votableID).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.NotFoundError(fmt.Sprintf("comment %d not found", votableID))
			}
			return nil, errors.StoreError("failed to load comment", err)
		}
		return &comment, nil
	}
	return nil, errors.ValidationError(fmt.Sprintf("unknown votable type %q", votableType))
}

func karmaReason(votableType models.VotableType, value, delta int) string {
	// A retraction's delta has the opposite sign of the withdrawn vote;
	// label it by what happened, not by which way the delta points.
	if value == 0 {
		return string(votableType) + " vote retracted"
	}
	if delta > 0 {
		return string(votableType) + " upvoted"
	}
	return string(votableType) + " downvoted"
}
