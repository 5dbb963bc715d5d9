package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"reviewbase-api/models"
	"reviewbase-api/repositories"
)

type RatingServiceSuite struct {
	suite.Suite
	db      *gorm.DB
	reviews repositories.ReviewRepository
	service RatingService
}

func TestRatingServiceSuite(t *testing.T) {
	suite.Run(t, new(RatingServiceSuite))
}

func (s *RatingServiceSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.reviews = repositories.NewReviewRepository(s.db)
	s.service = NewRatingService(s.reviews)
}

func (s *RatingServiceSuite) addReview(user *models.User, title *models.Title, score int) *models.Review {
	review := &models.Review{AuthorID: user.ID, TitleID: title.ID, Text: "t", Score: score}
	s.Require().NoError(s.reviews.Create(review))
	return review
}

func (s *RatingServiceSuite) TestNoReviewsMeansNoRating() {
	title := seedTitle(s.T(), s.db, "Solaris", 1972)

	rating, ok, err := s.service.RatingOf(title.ID)
	s.Require().NoError(err)
	s.False(ok)
	s.Equal(0, rating)
}

func (s *RatingServiceSuite) TestMeanOfScores() {
	title := seedTitle(s.T(), s.db, "Solaris", 1972)
	u1 := seedUser(s.T(), s.db, "alice", models.RoleUser)
	u2 := seedUser(s.T(), s.db, "bob", models.RoleUser)

	s.addReview(u1, title, 8)
	s.addReview(u2, title, 10)

	rating, ok, err := s.service.RatingOf(title.ID)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(9, rating)
}

func (s *RatingServiceSuite) TestRatingDisappearsWithLastReview() {
	title := seedTitle(s.T(), s.db, "Solaris", 1972)
	u1 := seedUser(s.T(), s.db, "alice", models.RoleUser)

	review := s.addReview(u1, title, 7)

	_, ok, err := s.service.RatingOf(title.ID)
	s.Require().NoError(err)
	s.True(ok)

	s.Require().NoError(s.reviews.Delete(review.ID))

	rating, ok, err := s.service.RatingOf(title.ID)
	s.Require().NoError(err)
	s.False(ok)
	s.Equal(0, rating)
}

func (s *RatingServiceSuite) TestListingOrdersByRatingThenName() {
	low := seedTitle(s.T(), s.db, "Banal", 2001)
	high := seedTitle(s.T(), s.db, "Great", 2002)
	bareB := seedTitle(s.T(), s.db, "B unrated", 2003)
	bareA := seedTitle(s.T(), s.db, "A unrated", 2004)

	u1 := seedUser(s.T(), s.db, "alice", models.RoleUser)
	u2 := seedUser(s.T(), s.db, "bob", models.RoleUser)

	s.addReview(u1, low, 3)
	s.addReview(u1, high, 9)
	s.addReview(u2, high, 10)

	out, err := s.service.ForTitles([]models.Title{*low, *high, *bareB, *bareA})
	s.Require().NoError(err)
	s.Require().Len(out, 4)

	// Rated titles first, best first; unrated last in name order.
	s.Equal(high.ID, out[0].ID)
	s.Equal(10, out[0].Rating) // mean 9.5 rounds up
	s.Equal(low.ID, out[1].ID)
	s.Equal(3, out[1].Rating)
	s.Equal(bareA.ID, out[2].ID)
	s.Equal(0, out[2].Rating)
	s.Equal(bareB.ID, out[3].ID)
}

func (s *RatingServiceSuite) TestListingOrdersByUnroundedMean() {
	lower := seedTitle(s.T(), s.db, "Almost", 2001)
	higher := seedTitle(s.T(), s.db, "Better", 2002)

	users := make([]*models.User, 5)
	for i := range users {
		users[i] = seedUser(s.T(), s.db, "u"+string(rune('a'+i)), models.RoleUser)
	}

	// Means 7.6 and 8.4 both round to 8; ordering still tells them apart.
	for i, score := range []int{7, 8, 8, 8, 7} {
		s.addReview(users[i], lower, score)
	}
	for i, score := range []int{8, 8, 8, 9, 9} {
		s.addReview(users[i], higher, score)
	}

	out, err := s.service.ForTitles([]models.Title{*lower, *higher})
	s.Require().NoError(err)
	s.Require().Len(out, 2)

	s.Equal(higher.ID, out[0].ID)
	s.Equal(8, out[0].Rating)
	s.Equal(lower.ID, out[1].ID)
	s.Equal(8, out[1].Rating)
}

func (s *RatingServiceSuite) TestRecomputedOnEveryRead() {
	title := seedTitle(s.T(), s.db, "Solaris", 1972)
	u1 := seedUser(s.T(), s.db, "alice", models.RoleUser)
	u2 := seedUser(s.T(), s.db, "bob", models.RoleUser)

	s.addReview(u1, title, 4)
	rating, _, err := s.service.RatingOf(title.ID)
	s.Require().NoError(err)
	s.Equal(4, rating)

	s.addReview(u2, title, 8)
	rating, _, err = s.service.RatingOf(title.ID)
	s.Require().NoError(err)
	s.Equal(6, rating)
}
