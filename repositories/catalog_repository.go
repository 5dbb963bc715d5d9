package repositories

import (
	"reviewbase-api/models"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *models.Category) error
	GetBySlug(slug string) (*models.Category, error)
	GetAll() ([]models.Category, error)
	DeleteBySlug(slug string) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

func (r *categoryRepository) GetBySlug(slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.Where("slug = ?", slug).First(&category).Error
	return &category, err
}

func (r *categoryRepository) GetAll() ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Order("name asc").Find(&categories).Error
	return categories, err
}

// DeleteBySlug removes the category; titles that referenced it keep existing
// with category set to NULL by the FK rule.
func (r *categoryRepository) DeleteBySlug(slug string) error {
	return r.db.Where("slug = ?", slug).Delete(&models.Category{}).Error
}

type GenreRepository interface {
	Create(genre *models.Genre) error
	GetBySlug(slug string) (*models.Genre, error)
	GetBySlugs(slugs []string) ([]models.Genre, error)
	GetAll() ([]models.Genre, error)
	DeleteBySlug(slug string) error
}

type genreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) Create(genre *models.Genre) error {
	return r.db.Create(genre).Error
}

func (r *genreRepository) GetBySlug(slug string) (*models.Genre, error) {
	var genre models.Genre
	err := r.db.Where("slug = ?", slug).First(&genre).Error
	return &genre, err
}

func (r *genreRepository) GetBySlugs(slugs []string) ([]models.Genre, error) {
	var genres []models.Genre
	err := r.db.Where("slug IN ?", slugs).Find(&genres).Error
	return genres, err
}

func (r *genreRepository) GetAll() ([]models.Genre, error) {
	var genres []models.Genre
	err := r.db.Order("name asc").Find(&genres).Error
	return genres, err
}

func (r *genreRepository) DeleteBySlug(slug string) error {
	var genre models.Genre
	if err := r.db.Where("slug = ?", slug).First(&genre).Error; err != nil {
		return err
	}
	if err := r.db.Exec("DELETE FROM title_genres WHERE genre_id = ?", genre.ID).Error; err != nil {
		return err
	}
	return r.db.Delete(&genre).Error
}

type TitleRepository interface {
	Create(title *models.Title) error
	GetByID(id uint) (*models.Title, error)
	GetAll() ([]models.Title, error)
	Update(title *models.Title) error
	ReplaceGenres(title *models.Title, genres []models.Genre) error
	Delete(id uint) error
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) Create(title *models.Title) error {
	return r.db.Create(title).Error
}

func (r *titleRepository) GetByID(id uint) (*models.Title, error) {
	var title models.Title
	err := r.db.Preload("Category").Preload("Genres").First(&title, id).Error
	return &title, err
}

func (r *titleRepository) GetAll() ([]models.Title, error) {
	var titles []models.Title
	err := r.db.Preload("Category").Preload("Genres").Order("name asc").Find(&titles).Error
	return titles, err
}

func (r *titleRepository) Update(title *models.Title) error {
	return r.db.Save(title).Error
}

func (r *titleRepository) ReplaceGenres(title *models.Title, genres []models.Genre) error {
	return r.db.Model(title).Association("Genres").Replace(genres)
}

func (r *titleRepository) Delete(id uint) error {
	title := models.Title{ID: id}
	// Detach genres first so the join rows never dangle.
	if err := r.db.Model(&title).Association("Genres").Clear(); err != nil {
		return err
	}
	return r.db.Delete(&title).Error
}
