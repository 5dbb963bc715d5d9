package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"reviewbase-api/models"
	"reviewbase-api/permissions"
	"reviewbase-api/repositories"
)

type CatalogServiceSuite struct {
	suite.Suite
	db      *gorm.DB
	service CatalogService

	admin *models.User
	plain *models.User
}

func TestCatalogServiceSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceSuite))
}

func (s *CatalogServiceSuite) SetupTest() {
	s.db = newTestDB(s.T())

	reviewRepo := repositories.NewReviewRepository(s.db)
	s.service = NewCatalogService(
		repositories.NewCategoryRepository(s.db),
		repositories.NewGenreRepository(s.db),
		repositories.NewTitleRepository(s.db),
		NewRatingService(reviewRepo),
	)

	s.admin = seedUser(s.T(), s.db, "boss", models.RoleAdmin)
	s.plain = seedUser(s.T(), s.db, "alice", models.RoleUser)
}

func (s *CatalogServiceSuite) TestCatalogWritesAreAdminOnly() {
	req := models.CreateCategoryRequest{Name: "Films", Slug: "films"}

	_, err := s.service.CreateCategory(permissions.Anonymous, req)
	s.IsType(models.ErrorUnauthorized{}, err)

	_, err = s.service.CreateCategory(actorFor(s.plain), req)
	s.IsType(models.ErrorForbidden{}, err)

	category, err := s.service.CreateCategory(actorFor(s.admin), req)
	s.Require().NoError(err)
	s.Equal("films", category.Slug)

	// Reads stay open to everyone, anonymous included.
	categories, err := s.service.ListCategories()
	s.Require().NoError(err)
	s.Len(categories, 1)
}

func (s *CatalogServiceSuite) TestDuplicateSlugIsConflict() {
	_, err := s.service.CreateCategory(actorFor(s.admin), models.CreateCategoryRequest{Name: "Films", Slug: "films"})
	s.Require().NoError(err)

	_, err = s.service.CreateCategory(actorFor(s.admin), models.CreateCategoryRequest{Name: "Movies", Slug: "films"})
	s.IsType(models.ErrorConflict{}, err)
}

func (s *CatalogServiceSuite) TestCreateTitleWithCategoryAndGenres() {
	admin := actorFor(s.admin)
	_, err := s.service.CreateCategory(admin, models.CreateCategoryRequest{Name: "Films", Slug: "films"})
	s.Require().NoError(err)
	_, err = s.service.CreateGenre(admin, models.CreateGenreRequest{Name: "Drama", Slug: "drama"})
	s.Require().NoError(err)

	title, err := s.service.CreateTitle(admin, models.CreateTitleRequest{
		Name:     "Solaris",
		Year:     1972,
		Category: "films",
		Genres:   []string{"drama"},
	})
	s.Require().NoError(err)
	s.Require().NotNil(title.Category)
	s.Equal("films", title.Category.Slug)
	s.Require().Len(title.Genres, 1)
	s.Equal(0, title.Rating)
}

func (s *CatalogServiceSuite) TestUnknownCategoryOrGenreIsValidationError() {
	admin := actorFor(s.admin)

	_, err := s.service.CreateTitle(admin, models.CreateTitleRequest{
		Name: "Solaris", Year: 1972, Category: "nope",
	})
	s.IsType(models.ErrorValidation{}, err)

	_, err = s.service.CreateTitle(admin, models.CreateTitleRequest{
		Name: "Solaris", Year: 1972, Genres: []string{"nope"},
	})
	s.IsType(models.ErrorValidation{}, err)
}

func (s *CatalogServiceSuite) TestDeleteCategoryLeavesTitleBehind() {
	admin := actorFor(s.admin)
	_, err := s.service.CreateCategory(admin, models.CreateCategoryRequest{Name: "Films", Slug: "films"})
	s.Require().NoError(err)

	title, err := s.service.CreateTitle(admin, models.CreateTitleRequest{
		Name: "Solaris", Year: 1972, Category: "films",
	})
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteCategory(admin, "films"))

	// The title survives with its category cleared, not cascaded away.
	got, err := s.service.GetTitle(title.ID)
	s.Require().NoError(err)
	s.Nil(got.Category)
}

func (s *CatalogServiceSuite) TestGetTitleIncludesRating() {
	admin := actorFor(s.admin)
	title, err := s.service.CreateTitle(admin, models.CreateTitleRequest{Name: "Solaris", Year: 1972})
	s.Require().NoError(err)

	s.Require().NoError(s.db.Create(&models.Review{
		AuthorID: s.plain.ID, TitleID: title.ID, Text: "t", Score: 8,
	}).Error)
	s.Require().NoError(s.db.Create(&models.Review{
		AuthorID: s.admin.ID, TitleID: title.ID, Text: "t", Score: 10,
	}).Error)

	got, err := s.service.GetTitle(title.ID)
	s.Require().NoError(err)
	s.Equal(9, got.Rating)
}

func (s *CatalogServiceSuite) TestUpdateTitle() {
	admin := actorFor(s.admin)
	title, err := s.service.CreateTitle(admin, models.CreateTitleRequest{Name: "Solaris", Year: 1972})
	s.Require().NoError(err)

	name := "Solyaris"
	got, err := s.service.UpdateTitle(admin, title.ID, models.UpdateTitleRequest{Name: &name})
	s.Require().NoError(err)
	s.Equal(name, got.Name)

	_, err = s.service.UpdateTitle(actorFor(s.plain), title.ID, models.UpdateTitleRequest{Name: &name})
	s.IsType(models.ErrorForbidden{}, err)
}

func (s *CatalogServiceSuite) TestDeleteTitle() {
	admin := actorFor(s.admin)
	title, err := s.service.CreateTitle(admin, models.CreateTitleRequest{Name: "Solaris", Year: 1972})
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteTitle(admin, title.ID))

	_, err = s.service.GetTitle(title.ID)
	s.IsType(models.ErrorNotFound{}, err)
}
