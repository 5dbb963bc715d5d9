package handlers

import (
	"github.com/gin-gonic/gin"

	"reviewbase-api/helper"
	"reviewbase-api/middleware"
	"reviewbase-api/models"
	"reviewbase-api/services"
)

type ReviewHandler struct {
	reviewService services.ReviewService
	Helper        *helper.HTTPHelper
}

func NewReviewHandler(reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, Helper: &helper.HTTPHelper{}}
}

func (h *ReviewHandler) ids(c *gin.Context, params ...string) ([]uint, bool) {
	out := make([]uint, 0, len(params))
	for _, param := range params {
		id, ok := parseID(c, param)
		if !ok {
			h.Helper.SendBadRequest(c, "Invalid "+param, h.Helper.EmptyJsonMap())
			return nil, false
		}
		out = append(out, id)
	}
	return out, true
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	ids, ok := h.ids(c, "title_id")
	if !ok {
		return
	}

	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	review, err := h.reviewService.CreateReview(middleware.CurrentActor(c), ids[0], req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendCreated(c, "Review created", review)
}

func (h *ReviewHandler) ListReviews(c *gin.Context) {
	ids, ok := h.ids(c, "title_id")
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListReviews(ids[0])
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Success", reviews)
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	ids, ok := h.ids(c, "title_id", "review_id")
	if !ok {
		return
	}

	review, err := h.reviewService.GetReview(ids[0], ids[1])
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Success", review)
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	ids, ok := h.ids(c, "title_id", "review_id")
	if !ok {
		return
	}

	var req models.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	review, err := h.reviewService.UpdateReview(middleware.CurrentActor(c), ids[0], ids[1], req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Review updated", review)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	ids, ok := h.ids(c, "title_id", "review_id")
	if !ok {
		return
	}

	if err := h.reviewService.DeleteReview(middleware.CurrentActor(c), ids[0], ids[1]); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Review deleted", h.Helper.EmptyJsonMap())
}

func (h *ReviewHandler) CreateComment(c *gin.Context) {
	ids, ok := h.ids(c, "title_id", "review_id")
	if !ok {
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	comment, err := h.reviewService.CreateComment(middleware.CurrentActor(c), ids[0], ids[1], req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendCreated(c, "Comment created", comment)
}

func (h *ReviewHandler) ListComments(c *gin.Context) {
	ids, ok := h.ids(c, "title_id", "review_id")
	if !ok {
		return
	}

	comments, err := h.reviewService.ListComments(ids[0], ids[1])
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Success", comments)
}

func (h *ReviewHandler) GetComment(c *gin.Context) {
	ids, ok := h.ids(c, "title_id", "review_id", "comment_id")
	if !ok {
		return
	}

	comment, err := h.reviewService.GetComment(ids[0], ids[1], ids[2])
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Success", comment)
}

func (h *ReviewHandler) UpdateComment(c *gin.Context) {
	ids, ok := h.ids(c, "title_id", "review_id", "comment_id")
	if !ok {
		return
	}

	var req models.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	comment, err := h.reviewService.UpdateComment(middleware.CurrentActor(c), ids[0], ids[1], ids[2], req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Comment updated", comment)
}

func (h *ReviewHandler) DeleteComment(c *gin.Context) {
	ids, ok := h.ids(c, "title_id", "review_id", "comment_id")
	if !ok {
		return
	}

	if err := h.reviewService.DeleteComment(middleware.CurrentActor(c), ids[0], ids[1], ids[2]); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Comment deleted", h.Helper.EmptyJsonMap())
}
