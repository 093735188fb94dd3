package services

import (
	stderrors "errors"
	"fmt"
	"math"
	"sort"
	"time"

	"linkden/internal/db"
	"linkden/internal/errors"
	"linkden/internal/logger"
	"linkden/internal/models"
	"linkden/internal/utils"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Mode selects a listing order.
type Mode string

const (
	ModeHot Mode = "hot"
	ModeTop Mode = "top"
	ModeNew Mode = "new"
)

// Period restricts top listings by submission age.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "" // unrestricted
)

// Hacker News gravity: hotness = (P-1) / (T+2)^G.
// P-1 means a link at net score 0 or below never ranks positively no
// matter how fresh it is; +2 keeps the denominator sane at age zero.
const gravity = 1.5

const (
	// hotWindow bounds how many recent links compete for the hot listing;
	// gravity pushes anything older out of contention anyway.
	hotWindow = 500
	perPage   = 30
	cacheTTL  = time.Minute
)

// Hotness computes the time-decayed rank score for one (score, created_at)
// snapshot. Pure; no I/O.
func Hotness(score int, createdAt, now time.Time) float64 {
	ageHours := now.Sub(createdAt).Hours()
	if ageHours < 0 {
		ageHours = 0
	}
	return (float64(score) - 1.0) / math.Pow(ageHours+2.0, gravity)
}

// SortLinks orders a snapshot of links by the given mode. The input is
// not modified; the result is a fresh, stably-sorted slice.
//
// Tie-breaks: new falls back to higher id (insertion order surrogate),
// hot and top fall back to newer created_at.
func SortLinks(links []models.Link, mode Mode, now time.Time) []models.Link {
	sorted := make([]models.Link, len(links))
	copy(sorted, links)

	switch mode {
	case ModeNew:
		sort.SliceStable(sorted, func(i, j int) bool {
			if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
				return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
			}
			return sorted[i].ID > sorted[j].ID
		})
	case ModeTop:
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].Score != sorted[j].Score {
				return sorted[i].Score > sorted[j].Score
			}
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		})
	case ModeHot:
		sort.SliceStable(sorted, func(i, j int) bool {
			hi := Hotness(sorted[i].Score, sorted[i].CreatedAt, now)
			hj := Hotness(sorted[j].Score, sorted[j].CreatedAt, now)
			if hi != hj {
				return hi > hj
			}
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		})
	}
	return sorted
}

// Ranker produces ordered link listings. Reads are snapshot-consistent
// and never block the write path; pages are cached briefly.
type Ranker struct {
	clock clockwork.Clock
	cache *utils.Cache
}

func NewRanker(clock clockwork.Clock) *Ranker {
	cache, err := utils.NewCache(500)
	if err != nil {
		logger.L.Fatal("failed to create ranking cache", zap.Error(err))
	}
	return &Ranker{clock: clock, cache: cache}
}

// ListHot returns one page of links ordered by hotness. The hot set is a
// bounded window of recent submissions sorted in memory, like the
// listing path this derives from; everything older has decayed out.
func (r *Ranker) ListHot(page int) ([]models.Link, error) {
	if page < 1 {
		page = 1
	}

	cacheKey := fmt.Sprintf("links:hot:page:%d", page)
	if cached := r.cache.Get(cacheKey); cached != nil {
		if links, ok := cached.([]models.Link); ok {
			return links, nil
		}
	}

	var window []models.Link
	if err := db.DB.Order("created_at DESC").Limit(hotWindow).Find(&window).Error; err != nil {
		return nil, errors.StoreError("failed to load hot window", err)
	}

	sorted := SortLinks(window, ModeHot, r.clock.Now())
	links := paginate(sorted, page)

	r.cache.Set(cacheKey, links, cacheTTL)
	return links, nil
}

// ListTop returns one page of links ordered by score within the period.
func (r *Ranker) ListTop(period Period, page int) ([]models.Link, error) {
	if page < 1 {
		page = 1
	}
	cutoff, err := r.periodCutoff(period)
	if err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("links:top:%s:page:%d", period, page)
	if cached := r.cache.Get(cacheKey); cached != nil {
		if links, ok := cached.([]models.Link); ok {
			return links, nil
		}
	}

	query := db.DB.Order("score DESC, created_at DESC")
	if !cutoff.IsZero() {
		query = query.Where("created_at >= ?", cutoff)
	}

	var links []models.Link
	if err := query.Offset((page - 1) * perPage).Limit(perPage).Find(&links).Error; err != nil {
		return nil, errors.StoreError("failed to load top links", err)
	}

	r.cache.Set(cacheKey, links, cacheTTL)
	return links, nil
}

// ListNew returns one page of links by submission time, newest first.
func (r *Ranker) ListNew(page int) ([]models.Link, error) {
	if page < 1 {
		page = 1
	}

	var links []models.Link
	err := db.DB.Order("created_at DESC, id DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&links).Error
	if err != nil {
		return nil, errors.StoreError("failed to load new links", err)
	}
	return links, nil
}

func (r *Ranker) periodCutoff(period Period) (time.Time, error) {
	now := r.clock.Now()
	switch period {
	case PeriodDay:
		return now.Add(-24 * time.Hour), nil
	case PeriodWeek:
		return now.AddDate(0, 0, -7), nil
	case PeriodMonth:
		return now.AddDate(0, -1, 0), nil
	case PeriodAll:
		return time.Time{}, nil
	}
	return time.Time{}, errors.ValidationError(fmt.Sprintf("unknown period %q", period))
}

func paginate(links []models.Link, page int) []models.Link {
	start := (page - 1) * perPage
	if start >= len(links) {
		return []models.Link{}
	}
	end := start + perPage
	if end > len(links) {
		end = len(links)
	}
	return links[start:end]
}

// LookupLink loads a single link by id.
func LookupLink(linkID uint) (*models.Link, error) {
	var link models.Link
	if err := db.DB.First(&link, linkID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFoundError(fmt.Sprintf("link %d not found", linkID))
		}
		return nil, errors.StoreError("failed to load link", err)
	}
	return &link, nil
}
