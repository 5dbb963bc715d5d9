package services

import (
	"math"
	"sort"

	"reviewbase-api/models"
	"reviewbase-api/repositories"
)

// RatingService derives title ratings from reviews at read time. Nothing is
// cached or stored, so there is no invalidation to get wrong.
type RatingService interface {
	// RatingOf returns the rounded mean score and false when the title has
	// no reviews.
	RatingOf(titleID uint) (int, bool, error)
	// ForTitles attaches ratings to a title listing with one group-by query
	// and orders it by unrounded mean score, best first; titles without
	// reviews sort last, equal means fall back to name order.
	ForTitles(titles []models.Title) ([]models.TitleResponse, error)
}

type ratingService struct {
	reviewRepo repositories.ReviewRepository
}

func NewRatingService(reviewRepo repositories.ReviewRepository) RatingService {
	return &ratingService{reviewRepo: reviewRepo}
}

func (s *ratingService) RatingOf(titleID uint) (int, bool, error) {
	avg, err := s.reviewRepo.AverageScore(titleID)
	if err != nil {
		return 0, false, err
	}
	if avg == nil {
		return 0, false, nil
	}
	return int(math.Round(*avg)), true, nil
}

func (s *ratingService) ForTitles(titles []models.Title) ([]models.TitleResponse, error) {
	averages, err := s.reviewRepo.AverageScores()
	if err != nil {
		return nil, err
	}

	out := make([]models.TitleResponse, 0, len(titles))
	for _, title := range titles {
		rating := 0
		if avg, ok := averages[title.ID]; ok {
			rating = int(math.Round(avg))
		}
		out = append(out, models.TitleResponse{Title: title, Rating: rating})
	}

	// Ordered on the raw mean; rounding is presentation only, so 8.4 still
	// outranks 7.6 even though both read as 8.
	sort.SliceStable(out, func(i, j int) bool {
		avgI, hasI := averages[out[i].ID]
		avgJ, hasJ := averages[out[j].ID]
		if hasI != hasJ {
			return hasI
		}
		if avgI != avgJ {
			return avgI > avgJ
		}
		return out[i].Name < out[j].Name
	})

	return out, nil
}
