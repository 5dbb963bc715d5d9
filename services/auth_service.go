package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/pbkdf2"
	validator "gopkg.in/go-playground/validator.v9"

	"reviewbase-api/config"
	"reviewbase-api/mailer"
	"reviewbase-api/models"
	"reviewbase-api/permissions"
	"reviewbase-api/repositories"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("username_chars", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// profileFields carries the validatable subset of a profile edit.
type profileFields struct {
	Username string `validate:"required,max=150,username_chars"`
	Email    string `validate:"required,email,max=254"`
}

type AuthService interface {
	// Signup gets-or-creates the user and dispatches a confirmation code to
	// their email. The returned warning is non-empty when the mail could not
	// be delivered; the signup itself still succeeded.
	Signup(req models.SignupRequest) (*models.SignupResponse, string, error)
	// Redeem exchanges a confirmation code for a session token.
	Redeem(ctx context.Context, req models.TokenRequest) (*models.TokenResponse, error)
	GetProfile(actor permissions.Actor) (*models.User, error)
	UpdateProfile(actor permissions.Actor, req models.UpdateProfileRequest) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
	codeRepo repositories.CodeRepository
	sender   mailer.Sender
}

func NewAuthService(userRepo repositories.UserRepository, codeRepo repositories.CodeRepository, sender mailer.Sender) AuthService {
	return &authService{userRepo: userRepo, codeRepo: codeRepo, sender: sender}
}

func (s *authService) Signup(req models.SignupRequest) (*models.SignupResponse, string, error) {
	if strings.EqualFold(req.Username, models.ReservedUsername) {
		return nil, "", models.ErrorValidation{Message: `username "me" is reserved`}
	}
	if !usernamePattern.MatchString(req.Username) {
		return nil, "", models.ErrorValidation{Message: "username contains invalid characters"}
	}

	// A known email must come with its own username and vice versa, so one
	// identity can never capture another's address.
	byEmail, err := s.userRepo.GetByEmail(req.Email)
	if err == nil && byEmail.Username != req.Username {
		return nil, "", models.ErrorConflict{Message: fmt.Sprintf("email %s is registered to another username", req.Email)}
	}
	if err != nil && !isNotFound(err) {
		return nil, "", err
	}

	user, err := s.userRepo.GetByUsername(req.Username)
	switch {
	case err == nil:
		if user.Email != req.Email {
			return nil, "", models.ErrorConflict{Message: fmt.Sprintf("username %s is registered to another email", req.Username)}
		}
		// Existing identity: touch the record so a fresh code is derived and
		// any previously issued code is superseded.
		if err := s.userRepo.Update(user); err != nil {
			return nil, "", err
		}
	case isNotFound(err):
		user = &models.User{
			Username: req.Username,
			Email:    req.Email,
			Role:     models.RoleUser,
		}
		if err := s.userRepo.Create(user); err != nil {
			if isUniqueViolation(err) {
				return nil, "", models.ErrorConflict{Message: "username or email already registered"}
			}
			return nil, "", err
		}
	default:
		return nil, "", err
	}

	code := ConfirmationCode(user)
	warning := ""
	if err := s.sender.Send(
		user.Email,
		"Confirmation code",
		fmt.Sprintf("confirmation_code %s", code),
	); err != nil {
		warning = "confirmation email could not be delivered yet"
	}

	return &models.SignupResponse{Username: user.Username, Email: user.Email}, warning, nil
}

func (s *authService) Redeem(ctx context.Context, req models.TokenRequest) (*models.TokenResponse, error) {
	user, err := s.userRepo.GetByUsername(req.Username)
	if err != nil {
		if isNotFound(err) {
			return nil, models.ErrorNotFound{Message: "user not found"}
		}
		return nil, err
	}

	expected := ConfirmationCode(user)
	if !hmac.Equal([]byte(expected), []byte(req.ConfirmationCode)) {
		return nil, models.ErrorInvalidCredential{Message: "invalid confirmation code"}
	}

	redeemed, err := s.codeRepo.IsRedeemed(ctx, user.ID, req.ConfirmationCode)
	if err != nil {
		return nil, err
	}
	if redeemed {
		return nil, models.ErrorInvalidCredential{Message: "invalid confirmation code"}
	}

	now := time.Now()
	if !user.Confirmed() {
		user.ConfirmedAt = &now
	}
	// Advancing the login stamp rotates the derivation, so the redeemed code
	// is dead for good rather than only while the redemption marker lives.
	// Bumped strictly forward so two redeems inside one second still rotate.
	login := now.Truncate(time.Second)
	if user.LastLoginAt != nil && !login.After(*user.LastLoginAt) {
		login = user.LastLoginAt.Add(time.Second)
	}
	user.LastLoginAt = &login
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	token, err := generateToken(user)
	if err != nil {
		return nil, err
	}

	// Marked after the token is signed, so a failed redeem never burns a
	// code without handing one out.
	if err := s.codeRepo.MarkRedeemed(ctx, user.ID, req.ConfirmationCode, config.CodeTTL); err != nil {
		return nil, err
	}
	return &models.TokenResponse{Token: token}, nil
}

func (s *authService) GetProfile(actor permissions.Actor) (*models.User, error) {
	if !permissions.CanPerform(actor, permissions.ActionRead, permissions.Target{Kind: permissions.KindProfile, OwnerID: actor.UserID}) {
		return nil, denied(actor, "cannot read this profile")
	}

	user, err := s.userRepo.GetByID(actor.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.ErrorNotFound{Message: "user not found"}
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) UpdateProfile(actor permissions.Actor, req models.UpdateProfileRequest) (*models.User, error) {
	if !permissions.CanPerform(actor, permissions.ActionUpdate, permissions.Target{Kind: permissions.KindProfile, OwnerID: actor.UserID}) {
		return nil, denied(actor, "cannot edit this profile")
	}

	user, err := s.userRepo.GetByID(actor.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, models.ErrorNotFound{Message: "user not found"}
		}
		return nil, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	// req.Role is deliberately not applied: role is read-only through the
	// self-service path.

	fields := profileFields{Username: user.Username, Email: user.Email}
	if err := validate.Struct(fields); err != nil {
		return nil, models.ErrorValidation{Message: "invalid profile fields: " + err.Error()}
	}

	if err := s.userRepo.Update(user); err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrorConflict{Message: "username or email already taken"}
		}
		return nil, err
	}
	return user, nil
}

// ConfirmationCode derives the code currently valid for the user. The
// derivation input includes every piece of state whose change must revoke
// outstanding codes; timestamps go in at second precision so the value
// survives a round trip through the database.
func ConfirmationCode(user *models.User) string {
	key := pbkdf2.Key(config.CodeSecret, []byte("reviewbase-confirmation"), 4096, 32, sha256.New)

	confirmed := int64(0)
	if user.ConfirmedAt != nil {
		confirmed = user.ConfirmedAt.Unix()
	}
	lastLogin := int64(0)
	if user.LastLoginAt != nil {
		lastLogin = user.LastLoginAt.Unix()
	}

	mac := hmac.New(sha256.New, key)
	fmt.Fprintf(mac, "%d|%s|%s|%s|%d|%d|%d",
		user.ID, user.Username, user.Email, user.Role, user.UpdatedAt.Unix(), confirmed, lastLogin)
	return hex.EncodeToString(mac.Sum(nil))[:32]
}

func generateToken(user *models.User) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"user_id":   user.ID,
		"username":  user.Username,
		"role":      user.Role,
		"superuser": user.IsSuperuser,
		"jti":       uuid.NewString(),
		"exp":       now.Add(config.JWTExpiration).Unix(),
		"iat":       now.Unix(),
		"nbf":       now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(config.JWTSecret)
}
