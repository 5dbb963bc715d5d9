package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"reviewbase-api/helper"
	"reviewbase-api/middleware"
	"reviewbase-api/models"
	"reviewbase-api/services"
)

type CatalogHandler struct {
	catalogService services.CatalogService
	Helper         *helper.HTTPHelper
}

func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, Helper: &helper.HTTPHelper{}}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogService.ListCategories()
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Success", categories)
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	category, err := h.catalogService.CreateCategory(middleware.CurrentActor(c), req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendCreated(c, "Category created", category)
}

func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	if err := h.catalogService.DeleteCategory(middleware.CurrentActor(c), c.Param("slug")); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Category deleted", h.Helper.EmptyJsonMap())
}

func (h *CatalogHandler) ListGenres(c *gin.Context) {
	genres, err := h.catalogService.ListGenres()
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Success", genres)
}

func (h *CatalogHandler) CreateGenre(c *gin.Context) {
	var req models.CreateGenreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	genre, err := h.catalogService.CreateGenre(middleware.CurrentActor(c), req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendCreated(c, "Genre created", genre)
}

func (h *CatalogHandler) DeleteGenre(c *gin.Context) {
	if err := h.catalogService.DeleteGenre(middleware.CurrentActor(c), c.Param("slug")); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Genre deleted", h.Helper.EmptyJsonMap())
}

// ListTitles returns the catalog ordered by derived rating, best first.
func (h *CatalogHandler) ListTitles(c *gin.Context) {
	titles, err := h.catalogService.ListTitles()
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Success", titles)
}

func (h *CatalogHandler) GetTitle(c *gin.Context) {
	id, ok := parseID(c, "title_id")
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid title ID", h.Helper.EmptyJsonMap())
		return
	}

	title, err := h.catalogService.GetTitle(id)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Success", title)
}

func (h *CatalogHandler) CreateTitle(c *gin.Context) {
	var req models.CreateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	title, err := h.catalogService.CreateTitle(middleware.CurrentActor(c), req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendCreated(c, "Title created", title)
}

func (h *CatalogHandler) UpdateTitle(c *gin.Context) {
	id, ok := parseID(c, "title_id")
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid title ID", h.Helper.EmptyJsonMap())
		return
	}

	var req models.UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Helper.SendBadRequest(c, err.Error(), h.Helper.EmptyJsonMap())
		return
	}

	title, err := h.catalogService.UpdateTitle(middleware.CurrentActor(c), id, req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Title updated", title)
}

func (h *CatalogHandler) DeleteTitle(c *gin.Context) {
	id, ok := parseID(c, "title_id")
	if !ok {
		h.Helper.SendBadRequest(c, "Invalid title ID", h.Helper.EmptyJsonMap())
		return
	}

	if err := h.catalogService.DeleteTitle(middleware.CurrentActor(c), id); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}
	h.Helper.SendSuccess(c, "Title deleted", h.Helper.EmptyJsonMap())
}
