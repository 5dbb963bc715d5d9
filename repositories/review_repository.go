package repositories

import (
	"reviewbase-api/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(review *models.Review) error
	GetByID(id uint) (*models.Review, error)
	GetByAuthorAndTitle(authorID, titleID uint) (*models.Review, error)
	ListByTitle(titleID uint) ([]models.Review, error)
	Update(review *models.Review) error
	Delete(id uint) error
	AverageScore(titleID uint) (*float64, error)
	AverageScores() (map[uint]float64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

func (r *reviewRepository) GetByID(id uint) (*models.Review, error) {
	var review models.Review
	err := r.db.Preload("Author").First(&review, id).Error
	return &review, err
}

func (r *reviewRepository) GetByAuthorAndTitle(authorID, titleID uint) (*models.Review, error) {
	var review models.Review
	err := r.db.Where("author_id = ? AND title_id = ?", authorID, titleID).First(&review).Error
	return &review, err
}

// ListByTitle returns reviews newest first; rows created in the same instant
// keep insertion order via the descending id tie-break.
func (r *reviewRepository) ListByTitle(titleID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Where("title_id = ?", titleID).
		Preload("Author").
		Order("created_at desc, id desc").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) Update(review *models.Review) error {
	return r.db.Save(review).Error
}

func (r *reviewRepository) Delete(id uint) error {
	return r.db.Delete(&models.Review{}, id).Error
}

// AverageScore computes the mean score for one title at read time. Nil means
// the title has no reviews.
func (r *reviewRepository) AverageScore(titleID uint) (*float64, error) {
	var result struct {
		Avg *float64
	}
	err := r.db.Model(&models.Review{}).
		Select("AVG(score) as avg").
		Where("title_id = ?", titleID).
		Scan(&result).Error
	return result.Avg, err
}

// AverageScores is the batched group-by variant used when listing titles, so
// a listing issues one aggregate query instead of one per title.
func (r *reviewRepository) AverageScores() (map[uint]float64, error) {
	var results []struct {
		TitleID uint
		Avg     float64
	}
	err := r.db.Model(&models.Review{}).
		Select("title_id, AVG(score) as avg").
		Group("title_id").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	averages := make(map[uint]float64, len(results))
	for _, result := range results {
		averages[result.TitleID] = result.Avg
	}
	return averages, nil
}

type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id uint) (*models.Comment, error)
	ListByReview(reviewID uint) ([]models.Comment, error)
	Update(comment *models.Comment) error
	Delete(id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

func (r *commentRepository) GetByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.Preload("Author").First(&comment, id).Error
	return &comment, err
}

func (r *commentRepository) ListByReview(reviewID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("review_id = ?", reviewID).
		Preload("Author").
		Order("created_at desc, id desc").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Update(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

func (r *commentRepository) Delete(id uint) error {
	return r.db.Delete(&models.Comment{}, id).Error
}
