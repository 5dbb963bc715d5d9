package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v4"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"reviewbase-api/config"
	"reviewbase-api/models"
	"reviewbase-api/permissions"
	"reviewbase-api/repositories"
)

type AuthServiceSuite struct {
	suite.Suite
	db      *gorm.DB
	users   repositories.UserRepository
	sender  *recordingSender
	redis   *miniredis.Miniredis
	service AuthService
	ctx     context.Context
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.users = repositories.NewUserRepository(s.db)
	s.sender = &recordingSender{}
	s.ctx = context.Background()

	s.redis = miniredis.RunT(s.T())
	rdb := redis.NewClient(&redis.Options{Addr: s.redis.Addr()})
	codeRepo := repositories.NewCodeRepository(rdb)

	s.service = NewAuthService(s.users, codeRepo, s.sender)
}

func (s *AuthServiceSuite) signup(username, email string) *models.SignupResponse {
	resp, warning, err := s.service.Signup(models.SignupRequest{Username: username, Email: email})
	s.Require().NoError(err)
	s.Empty(warning)
	return resp
}

// mailedCode pulls the confirmation code out of the last delivered mail.
func (s *AuthServiceSuite) mailedCode() string {
	fields := strings.Fields(s.sender.last().Body)
	s.Require().Len(fields, 2)
	return fields[1]
}

func (s *AuthServiceSuite) TestSignupCreatesPendingUser() {
	resp := s.signup("alice", "a@x.com")
	s.Equal("alice", resp.Username)
	s.Equal("a@x.com", resp.Email)

	user, err := s.users.GetByUsername("alice")
	s.Require().NoError(err)
	s.Equal(models.RoleUser, user.Role)
	s.False(user.Confirmed())

	s.Equal("a@x.com", s.sender.last().To)
	s.NotEmpty(s.mailedCode())
}

func (s *AuthServiceSuite) TestSignupIsIdempotent() {
	s.signup("alice", "a@x.com")
	s.signup("alice", "a@x.com")

	var count int64
	s.db.Model(&models.User{}).Count(&count)
	s.EqualValues(1, count)
}

func (s *AuthServiceSuite) TestSignupIdentityMismatch() {
	s.signup("alice", "a@x.com")

	_, _, err := s.service.Signup(models.SignupRequest{Username: "alice", Email: "b@x.com"})
	s.IsType(models.ErrorConflict{}, err)

	_, _, err = s.service.Signup(models.SignupRequest{Username: "alicia", Email: "a@x.com"})
	s.IsType(models.ErrorConflict{}, err)
}

func (s *AuthServiceSuite) TestSignupRejectsReservedUsername() {
	for _, username := range []string{"me", "Me", "ME"} {
		_, _, err := s.service.Signup(models.SignupRequest{Username: username, Email: "m@x.com"})
		s.Require().Error(err)
		s.IsType(models.ErrorValidation{}, err)
	}
}

func (s *AuthServiceSuite) TestSignupRejectsBadUsername() {
	_, _, err := s.service.Signup(models.SignupRequest{Username: "has space", Email: "m@x.com"})
	s.IsType(models.ErrorValidation{}, err)
}

func (s *AuthServiceSuite) TestSignupSurvivesMailFailure() {
	s.sender.failed = true

	resp, warning, err := s.service.Signup(models.SignupRequest{Username: "alice", Email: "a@x.com"})
	s.Require().NoError(err)
	s.NotNil(resp)
	s.NotEmpty(warning)

	_, err = s.users.GetByUsername("alice")
	s.NoError(err)
}

func (s *AuthServiceSuite) TestRedeemUnknownUser() {
	_, err := s.service.Redeem(s.ctx, models.TokenRequest{Username: "ghost", ConfirmationCode: "whatever"})
	s.IsType(models.ErrorNotFound{}, err)
}

func (s *AuthServiceSuite) TestRedeemWrongCode() {
	s.signup("alice", "a@x.com")

	_, err := s.service.Redeem(s.ctx, models.TokenRequest{Username: "alice", ConfirmationCode: "not-the-code"})
	s.Require().Error(err)
	s.IsType(models.ErrorInvalidCredential{}, err)

	user, err := s.users.GetByUsername("alice")
	s.Require().NoError(err)
	s.False(user.Confirmed())
}

func (s *AuthServiceSuite) TestRedeemMintsToken() {
	s.signup("alice", "a@x.com")
	code := s.mailedCode()

	resp, err := s.service.Redeem(s.ctx, models.TokenRequest{Username: "alice", ConfirmationCode: code})
	s.Require().NoError(err)
	s.Require().NotEmpty(resp.Token)

	token, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) {
		return config.JWTSecret, nil
	})
	s.Require().NoError(err)
	s.Require().True(token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	s.Equal("alice", claims["username"])
	s.NotEmpty(claims["jti"])

	user, err := s.users.GetByUsername("alice")
	s.Require().NoError(err)
	s.True(user.Confirmed())
}

func (s *AuthServiceSuite) TestRedeemedCodeCannotBeReplayed() {
	s.signup("alice", "a@x.com")
	code := s.mailedCode()

	_, err := s.service.Redeem(s.ctx, models.TokenRequest{Username: "alice", ConfirmationCode: code})
	s.Require().NoError(err)

	_, err = s.service.Redeem(s.ctx, models.TokenRequest{Username: "alice", ConfirmationCode: code})
	s.Require().Error(err)
	s.IsType(models.ErrorInvalidCredential{}, err)
}

func (s *AuthServiceSuite) TestRedeemedCodeStaysDeadAfterMarkerExpiry() {
	s.signup("alice", "a@x.com")
	_, err := s.service.Redeem(s.ctx, models.TokenRequest{Username: "alice", ConfirmationCode: s.mailedCode()})
	s.Require().NoError(err)

	// A confirmed user signing up again gets a fresh code.
	s.signup("alice", "a@x.com")
	code := s.mailedCode()
	_, err = s.service.Redeem(s.ctx, models.TokenRequest{Username: "alice", ConfirmationCode: code})
	s.Require().NoError(err)

	// Outliving the redemption marker must not resurrect the code.
	s.redis.FastForward(config.CodeTTL + time.Minute)

	_, err = s.service.Redeem(s.ctx, models.TokenRequest{Username: "alice", ConfirmationCode: code})
	s.Require().Error(err)
	s.IsType(models.ErrorInvalidCredential{}, err)
}

func (s *AuthServiceSuite) TestStateChangeInvalidatesCode() {
	s.signup("alice", "a@x.com")
	code := s.mailedCode()

	// A role reset rotates the derivation input, so the outstanding code
	// dies with it.
	user, err := s.users.GetByUsername("alice")
	s.Require().NoError(err)
	user.Role = models.RoleModerator
	s.Require().NoError(s.users.Update(user))

	_, err = s.service.Redeem(s.ctx, models.TokenRequest{Username: "alice", ConfirmationCode: code})
	s.Require().Error(err)
	s.IsType(models.ErrorInvalidCredential{}, err)
}

func (s *AuthServiceSuite) TestProfileRoundTrip() {
	s.signup("alice", "a@x.com")
	user, err := s.users.GetByUsername("alice")
	s.Require().NoError(err)

	actor := actorFor(user)

	profile, err := s.service.GetProfile(actor)
	s.Require().NoError(err)
	s.Equal("alice", profile.Username)

	bio := "reads a lot"
	role := string(models.RoleAdmin)
	updated, err := s.service.UpdateProfile(actor, models.UpdateProfileRequest{
		Bio:  &bio,
		Role: &role,
	})
	s.Require().NoError(err)
	s.Equal(bio, updated.Bio)
	// Role edits through self-service are ignored, not applied.
	s.Equal(models.RoleUser, updated.Role)
}

func (s *AuthServiceSuite) TestProfileValidation() {
	s.signup("alice", "a@x.com")
	user, err := s.users.GetByUsername("alice")
	s.Require().NoError(err)

	bad := "not a username"
	_, err = s.service.UpdateProfile(actorFor(user), models.UpdateProfileRequest{Username: &bad})
	s.IsType(models.ErrorValidation{}, err)

	tooLong := strings.Repeat("a", models.UsernameMaxLength+1)
	_, err = s.service.UpdateProfile(actorFor(user), models.UpdateProfileRequest{Username: &tooLong})
	s.IsType(models.ErrorValidation{}, err)
}

func (s *AuthServiceSuite) TestAnonymousHasNoProfile() {
	_, err := s.service.GetProfile(permissions.Anonymous)
	s.IsType(models.ErrorUnauthorized{}, err)
}

func (s *AuthServiceSuite) TestDeleteUserCascades() {
	s.signup("alice", "a@x.com")
	alice, err := s.users.GetByUsername("alice")
	s.Require().NoError(err)

	s.signup("bob", "b@x.com")
	bob, err := s.users.GetByUsername("bob")
	s.Require().NoError(err)

	title := seedTitle(s.T(), s.db, "Solaris", 1972)
	review := &models.Review{AuthorID: alice.ID, TitleID: title.ID, Text: "fine", Score: 7}
	s.Require().NoError(s.db.Create(review).Error)
	comment := &models.Comment{AuthorID: bob.ID, ReviewID: review.ID, Text: "agreed"}
	s.Require().NoError(s.db.Create(comment).Error)

	s.Require().NoError(s.users.Delete(alice.ID))

	var reviewCount, commentCount int64
	s.db.Model(&models.Review{}).Count(&reviewCount)
	s.db.Model(&models.Comment{}).Count(&commentCount)
	s.EqualValues(0, reviewCount)
	s.EqualValues(0, commentCount)
}
