package services

import (
	"fmt"

	"reviewbase-api/models"
	"reviewbase-api/permissions"
	"reviewbase-api/repositories"
)

// ReviewService owns the review/comment lifecycle. Checks always run in the
// same order: parent existence, then permission, then the mutation itself,
// so callers get deterministic error precedence.
type ReviewService interface {
	CreateReview(actor permissions.Actor, titleID uint, req models.CreateReviewRequest) (*models.Review, error)
	ListReviews(titleID uint) ([]models.Review, error)
	GetReview(titleID, reviewID uint) (*models.Review, error)
	UpdateReview(actor permissions.Actor, titleID, reviewID uint, req models.UpdateReviewRequest) (*models.Review, error)
	DeleteReview(actor permissions.Actor, titleID, reviewID uint) error

	CreateComment(actor permissions.Actor, titleID, reviewID uint, req models.CreateCommentRequest) (*models.Comment, error)
	ListComments(titleID, reviewID uint) ([]models.Comment, error)
	GetComment(titleID, reviewID, commentID uint) (*models.Comment, error)
	UpdateComment(actor permissions.Actor, titleID, reviewID, commentID uint, req models.UpdateCommentRequest) (*models.Comment, error)
	DeleteComment(actor permissions.Actor, titleID, reviewID, commentID uint) error
}

type reviewService struct {
	titleRepo   repositories.TitleRepository
	reviewRepo  repositories.ReviewRepository
	commentRepo repositories.CommentRepository
}

func NewReviewService(titleRepo repositories.TitleRepository, reviewRepo repositories.ReviewRepository, commentRepo repositories.CommentRepository) ReviewService {
	return &reviewService{
		titleRepo:   titleRepo,
		reviewRepo:  reviewRepo,
		commentRepo: commentRepo,
	}
}

func (s *reviewService) requireTitle(titleID uint) error {
	if _, err := s.titleRepo.GetByID(titleID); err != nil {
		if isNotFound(err) {
			return models.ErrorNotFound{Message: "title not found"}
		}
		return err
	}
	return nil
}

// requireReview resolves the review and verifies it belongs to the title in
// the request path.
func (s *reviewService) requireReview(titleID, reviewID uint) (*models.Review, error) {
	if err := s.requireTitle(titleID); err != nil {
		return nil, err
	}
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.ErrorNotFound{Message: "review not found"}
		}
		return nil, err
	}
	if review.TitleID != titleID {
		return nil, models.ErrorNotFound{Message: "review not found"}
	}
	return review, nil
}

func (s *reviewService) CreateReview(actor permissions.Actor, titleID uint, req models.CreateReviewRequest) (*models.Review, error) {
	if err := s.requireTitle(titleID); err != nil {
		return nil, err
	}
	if !permissions.CanPerform(actor, permissions.ActionCreate, permissions.Target{Kind: permissions.KindReview}) {
		return nil, denied(actor, "cannot create reviews")
	}
	if req.Score < models.ScoreMin || req.Score > models.ScoreMax {
		return nil, models.ErrorValidation{
			Message: fmt.Sprintf("score must be between %d and %d", models.ScoreMin, models.ScoreMax),
		}
	}

	// Fast path; the unique index on (author_id, title_id) remains the
	// authority under concurrent submissions.
	if _, err := s.reviewRepo.GetByAuthorAndTitle(actor.UserID, titleID); err == nil {
		return nil, models.ErrorConflict{Message: "you already reviewed this title"}
	} else if !isNotFound(err) {
		return nil, err
	}

	review := &models.Review{
		AuthorID: actor.UserID,
		TitleID:  titleID,
		Text:     req.Text,
		Score:    req.Score,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrorConflict{Message: "you already reviewed this title"}
		}
		return nil, err
	}

	return s.reviewRepo.GetByID(review.ID)
}

func (s *reviewService) ListReviews(titleID uint) ([]models.Review, error) {
	if err := s.requireTitle(titleID); err != nil {
		return nil, err
	}
	return s.reviewRepo.ListByTitle(titleID)
}

func (s *reviewService) GetReview(titleID, reviewID uint) (*models.Review, error) {
	return s.requireReview(titleID, reviewID)
}

func (s *reviewService) UpdateReview(actor permissions.Actor, titleID, reviewID uint, req models.UpdateReviewRequest) (*models.Review, error) {
	review, err := s.requireReview(titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanPerform(actor, permissions.ActionUpdate, permissions.Target{Kind: permissions.KindReview, OwnerID: review.AuthorID}) {
		return nil, denied(actor, "cannot edit this review")
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		if *req.Score < models.ScoreMin || *req.Score > models.ScoreMax {
			return nil, models.ErrorValidation{
				Message: fmt.Sprintf("score must be between %d and %d", models.ScoreMin, models.ScoreMax),
			}
		}
		review.Score = *req.Score
	}

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) DeleteReview(actor permissions.Actor, titleID, reviewID uint) error {
	review, err := s.requireReview(titleID, reviewID)
	if err != nil {
		return err
	}
	if !permissions.CanPerform(actor, permissions.ActionDelete, permissions.Target{Kind: permissions.KindReview, OwnerID: review.AuthorID}) {
		return denied(actor, "cannot delete this review")
	}
	return s.reviewRepo.Delete(review.ID)
}

func (s *reviewService) requireComment(titleID, reviewID, commentID uint) (*models.Comment, error) {
	if _, err := s.requireReview(titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.ErrorNotFound{Message: "comment not found"}
		}
		return nil, err
	}
	if comment.ReviewID != reviewID {
		return nil, models.ErrorNotFound{Message: "comment not found"}
	}
	return comment, nil
}

func (s *reviewService) CreateComment(actor permissions.Actor, titleID, reviewID uint, req models.CreateCommentRequest) (*models.Comment, error) {
	if _, err := s.requireReview(titleID, reviewID); err != nil {
		return nil, err
	}
	if !permissions.CanPerform(actor, permissions.ActionCreate, permissions.Target{Kind: permissions.KindComment}) {
		return nil, denied(actor, "cannot create comments")
	}

	comment := &models.Comment{
		AuthorID: actor.UserID,
		ReviewID: reviewID,
		Text:     req.Text,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(comment.ID)
}

func (s *reviewService) ListComments(titleID, reviewID uint) ([]models.Comment, error) {
	if _, err := s.requireReview(titleID, reviewID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByReview(reviewID)
}

func (s *reviewService) GetComment(titleID, reviewID, commentID uint) (*models.Comment, error) {
	return s.requireComment(titleID, reviewID, commentID)
}

func (s *reviewService) UpdateComment(actor permissions.Actor, titleID, reviewID, commentID uint, req models.UpdateCommentRequest) (*models.Comment, error) {
	comment, err := s.requireComment(titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if !permissions.CanPerform(actor, permissions.ActionUpdate, permissions.Target{Kind: permissions.KindComment, OwnerID: comment.AuthorID}) {
		return nil, denied(actor, "cannot edit this comment")
	}

	comment.Text = req.Text
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *reviewService) DeleteComment(actor permissions.Actor, titleID, reviewID, commentID uint) error {
	comment, err := s.requireComment(titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if !permissions.CanPerform(actor, permissions.ActionDelete, permissions.Target{Kind: permissions.KindComment, OwnerID: comment.AuthorID}) {
		return denied(actor, "cannot delete this comment")
	}
	return s.commentRepo.Delete(comment.ID)
}
