package services

import (
	"fmt"

	"reviewbase-api/models"
	"reviewbase-api/permissions"
	"reviewbase-api/repositories"
)

// CatalogService is the thin CRUD layer over categories, genres and titles.
// Reads are open to everyone; writes go through the policy engine's
// admin-or-superuser catalog rule.
type CatalogService interface {
	ListCategories() ([]models.Category, error)
	CreateCategory(actor permissions.Actor, req models.CreateCategoryRequest) (*models.Category, error)
	DeleteCategory(actor permissions.Actor, slug string) error

	ListGenres() ([]models.Genre, error)
	CreateGenre(actor permissions.Actor, req models.CreateGenreRequest) (*models.Genre, error)
	DeleteGenre(actor permissions.Actor, slug string) error

	ListTitles() ([]models.TitleResponse, error)
	GetTitle(id uint) (*models.TitleResponse, error)
	CreateTitle(actor permissions.Actor, req models.CreateTitleRequest) (*models.TitleResponse, error)
	UpdateTitle(actor permissions.Actor, id uint, req models.UpdateTitleRequest) (*models.TitleResponse, error)
	DeleteTitle(actor permissions.Actor, id uint) error
}

type catalogService struct {
	categoryRepo repositories.CategoryRepository
	genreRepo    repositories.GenreRepository
	titleRepo    repositories.TitleRepository
	ratings      RatingService
}

func NewCatalogService(
	categoryRepo repositories.CategoryRepository,
	genreRepo repositories.GenreRepository,
	titleRepo repositories.TitleRepository,
	ratings RatingService,
) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
		titleRepo:    titleRepo,
		ratings:      ratings,
	}
}

func (s *catalogService) requireCatalogWrite(actor permissions.Actor, action permissions.Action) error {
	if !permissions.CanPerform(actor, action, permissions.Target{Kind: permissions.KindCatalog}) {
		return denied(actor, "catalog changes require an admin")
	}
	return nil
}

func (s *catalogService) ListCategories() ([]models.Category, error) {
	return s.categoryRepo.GetAll()
}

func (s *catalogService) CreateCategory(actor permissions.Actor, req models.CreateCategoryRequest) (*models.Category, error) {
	if err := s.requireCatalogWrite(actor, permissions.ActionCreate); err != nil {
		return nil, err
	}

	category := &models.Category{Name: req.Name, Slug: req.Slug}
	if err := s.categoryRepo.Create(category); err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrorConflict{Message: fmt.Sprintf("category slug %q already exists", req.Slug)}
		}
		return nil, err
	}
	return category, nil
}

func (s *catalogService) DeleteCategory(actor permissions.Actor, slug string) error {
	if err := s.requireCatalogWrite(actor, permissions.ActionDelete); err != nil {
		return err
	}
	if _, err := s.categoryRepo.GetBySlug(slug); err != nil {
		if isNotFound(err) {
			return models.ErrorNotFound{Message: "category not found"}
		}
		return err
	}
	return s.categoryRepo.DeleteBySlug(slug)
}

func (s *catalogService) ListGenres() ([]models.Genre, error) {
	return s.genreRepo.GetAll()
}

func (s *catalogService) CreateGenre(actor permissions.Actor, req models.CreateGenreRequest) (*models.Genre, error) {
	if err := s.requireCatalogWrite(actor, permissions.ActionCreate); err != nil {
		return nil, err
	}

	genre := &models.Genre{Name: req.Name, Slug: req.Slug}
	if err := s.genreRepo.Create(genre); err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrorConflict{Message: fmt.Sprintf("genre slug %q already exists", req.Slug)}
		}
		return nil, err
	}
	return genre, nil
}

func (s *catalogService) DeleteGenre(actor permissions.Actor, slug string) error {
	if err := s.requireCatalogWrite(actor, permissions.ActionDelete); err != nil {
		return err
	}
	if _, err := s.genreRepo.GetBySlug(slug); err != nil {
		if isNotFound(err) {
			return models.ErrorNotFound{Message: "genre not found"}
		}
		return err
	}
	return s.genreRepo.DeleteBySlug(slug)
}

func (s *catalogService) ListTitles() ([]models.TitleResponse, error) {
	titles, err := s.titleRepo.GetAll()
	if err != nil {
		return nil, err
	}
	return s.ratings.ForTitles(titles)
}

func (s *catalogService) GetTitle(id uint) (*models.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, models.ErrorNotFound{Message: "title not found"}
		}
		return nil, err
	}

	rating, _, err := s.ratings.RatingOf(id)
	if err != nil {
		return nil, err
	}
	return &models.TitleResponse{Title: *title, Rating: rating}, nil
}

// resolveGenres maps genre slugs from a request to stored genres. Unknown
// slugs are a field error, matching how category resolution behaves.
func (s *catalogService) resolveGenres(slugs []string) ([]models.Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	genres, err := s.genreRepo.GetBySlugs(slugs)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(slugs) {
		return nil, models.ErrorValidation{Message: "unknown genre slug in request"}
	}
	return genres, nil
}

func (s *catalogService) CreateTitle(actor permissions.Actor, req models.CreateTitleRequest) (*models.TitleResponse, error) {
	if err := s.requireCatalogWrite(actor, permissions.ActionCreate); err != nil {
		return nil, err
	}

	title := &models.Title{
		Name:        req.Name,
		Year:        req.Year,
		Description: req.Description,
	}

	if req.Category != "" {
		category, err := s.categoryRepo.GetBySlug(req.Category)
		if err != nil {
			if isNotFound(err) {
				return nil, models.ErrorValidation{Message: fmt.Sprintf("unknown category %q", req.Category)}
			}
			return nil, err
		}
		title.CategoryID = &category.ID
	}

	genres, err := s.resolveGenres(req.Genres)
	if err != nil {
		return nil, err
	}
	title.Genres = genres

	if err := s.titleRepo.Create(title); err != nil {
		return nil, err
	}
	return s.GetTitle(title.ID)
}

func (s *catalogService) UpdateTitle(actor permissions.Actor, id uint, req models.UpdateTitleRequest) (*models.TitleResponse, error) {
	if err := s.requireCatalogWrite(actor, permissions.ActionUpdate); err != nil {
		return nil, err
	}

	title, err := s.titleRepo.GetByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, models.ErrorNotFound{Message: "title not found"}
		}
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = *req.Description
	}
	if req.Category != nil {
		if *req.Category == "" {
			title.CategoryID = nil
			title.Category = nil
		} else {
			category, err := s.categoryRepo.GetBySlug(*req.Category)
			if err != nil {
				if isNotFound(err) {
					return nil, models.ErrorValidation{Message: fmt.Sprintf("unknown category %q", *req.Category)}
				}
				return nil, err
			}
			title.CategoryID = &category.ID
			title.Category = category
		}
	}

	if err := s.titleRepo.Update(title); err != nil {
		return nil, err
	}

	if req.Genres != nil {
		genres, err := s.resolveGenres(req.Genres)
		if err != nil {
			return nil, err
		}
		if err := s.titleRepo.ReplaceGenres(title, genres); err != nil {
			return nil, err
		}
	}

	return s.GetTitle(title.ID)
}

func (s *catalogService) DeleteTitle(actor permissions.Actor, id uint) error {
	if err := s.requireCatalogWrite(actor, permissions.ActionDelete); err != nil {
		return err
	}
	if _, err := s.titleRepo.GetByID(id); err != nil {
		if isNotFound(err) {
			return models.ErrorNotFound{Message: "title not found"}
		}
		return err
	}
	return s.titleRepo.Delete(id)
}
