package services

import (
	stderrors "errors"
	"sync"

	"linkden/internal/db"
	"linkden/internal/errors"
	"linkden/internal/logger"
	"linkden/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// karmaDelta is one pending propagation: the applied delta from a cast
// vote, attributed to the author of the voted-on content.
type karmaDelta struct {
	userID uint
	delta  int
	reason string
}

// KarmaAggregator is the sole writer of User.Karma. Deltas are
// commutative, so async delivery order never changes the final sum.
type KarmaAggregator struct {
	queue chan karmaDelta
	async bool
	mu    sync.Mutex
}

var (
	karmaAggregator *KarmaAggregator
	karmaOnce       sync.Once
)

// NewKarmaAggregator creates a standalone aggregator in synchronous mode.
func NewKarmaAggregator() *KarmaAggregator {
	return &KarmaAggregator{
		queue: make(chan karmaDelta, 1000),
	}
}

// Karma returns the singleton aggregator the vote ledger reports into. It
// applies deltas synchronously until StartWorker is called.
func Karma() *KarmaAggregator {
	karmaOnce.Do(func() {
		karmaAggregator = NewKarmaAggregator()
	})
	return karmaAggregator
}

// StartWorker switches the aggregator to queued delivery and launches the
// background drain. Meant to be called once from main.
func (a *KarmaAggregator) StartWorker() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.async {
		return
	}
	a.async = true
	go a.worker()
}

// Submit propagates one applied delta to the author's karma. In async
// mode it enqueues; a full queue falls back to applying inline rather
// than dropping the delta, since every delta must eventually land.
func (a *KarmaAggregator) Submit(userID uint, delta int, reason string) error {
	a.mu.Lock()
	async := a.async
	a.mu.Unlock()

	if async {
		select {
		case a.queue <- karmaDelta{userID: userID, delta: delta, reason: reason}:
			return nil
		default:
		}
	}
	return a.Apply(userID, delta, reason)
}

// Apply writes one karma delta: a ledger entry plus an atomic increment of
// the user's balance, in a single transaction. Karma has no floor; heavily
// downvoted authors go negative.
func (a *KarmaAggregator) Apply(userID uint, delta int, reason string) error {
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		entry := models.KarmaEntry{
			UserID: userID,
			Delta:  delta,
			Reason: reason,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumn("karma", gorm.Expr("karma + ?", delta)).
			Error
	})
	if err != nil {
		return errors.StoreError("failed to apply karma delta", err).
			WithContext("user_id", userID)
	}
	return nil
}

func (a *KarmaAggregator) worker() {
	for d := range a.queue {
		if err := a.Apply(d.userID, d.delta, d.reason); err != nil {
			logger.L.Error("karma delta application failed",
				zap.Uint("user_id", d.userID),
				zap.Int("delta", d.delta),
				zap.Error(err),
			)
		}
	}
}

// LookupUser loads a single user by id.
func LookupUser(userID uint) (*models.User, error) {
	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFoundError("user not found").WithContext("user_id", userID)
		}
		return nil, errors.StoreError("failed to load user", err)
	}
	return &user, nil
}

// Reconcile is the offline audit path: it resums vote values over
// everything the user authored, reports the expected karma, and repairs
// the balance if it drifted from the delta stream. Steady state never
// calls this.
func (a *KarmaAggregator) Reconcile(userID uint) (karma int, corrected bool, err error) {
	var user models.User
	if dbErr := db.DB.First(&user, userID).Error; dbErr != nil {
		if stderrors.Is(dbErr, gorm.ErrRecordNotFound) {
			return 0, false, errors.NotFoundError("user not found").WithContext("user_id", userID)
		}
		return 0, false, errors.StoreError("failed to load user", dbErr)
	}

	var linkSum, commentSum int64
	if dbErr := db.DB.Model(&models.Vote{}).
		Joins("JOIN links ON links.id = votes.votable_id AND votes.votable_type = ?", models.VotableLink).
		Where("links.user_id = ?", userID).
		Select("COALESCE(SUM(votes.value), 0)").
		Scan(&linkSum).Error; dbErr != nil {
		return 0, false, errors.StoreError("failed to resum link votes", dbErr)
	}
	if dbErr := db.DB.Model(&models.Vote{}).
		Joins("JOIN comments ON comments.id = votes.votable_id AND votes.votable_type = ?", models.VotableComment).
		Where("comments.user_id = ?", userID).
		Select("COALESCE(SUM(votes.value), 0)").
		Scan(&commentSum).Error; dbErr != nil {
		return 0, false, errors.StoreError("failed to resum comment votes", dbErr)
	}

	expected := int(linkSum + commentSum)
	if expected == user.Karma {
		return expected, false, nil
	}

	adjustment := expected - user.Karma
	if applyErr := a.Apply(userID, adjustment, "reconciliation adjustment"); applyErr != nil {
		return 0, false, applyErr
	}
	logger.L.Warn("karma drift repaired",
		zap.Uint("user_id", userID),
		zap.Int("was", user.Karma),
		zap.Int("now", expected),
	)
	return expected, true, nil
}

// Entries returns a page of the user's karma ledger, newest first.
func (a *KarmaAggregator) Entries(userID uint, page, perPage int) ([]models.KarmaEntry, error) {
	if page < 1 {
		page = 1
	}
	var entries []models.KarmaEntry
	err := db.DB.Where("user_id = ?", userID).
		Order("id DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&entries).Error
	if err != nil {
		return nil, errors.StoreError("failed to load karma entries", err)
	}
	return entries, nil
}
