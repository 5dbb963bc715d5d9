package services

import (
	"strings"

	"reviewbase-api/models"
	"reviewbase-api/permissions"
	"reviewbase-api/repositories"
)

// UserService is the admin-only user administration surface. Unlike the
// /users/me path, it may set roles.
type UserService interface {
	ListUsers(actor permissions.Actor) ([]models.User, error)
	CreateUser(actor permissions.Actor, req models.CreateUserRequest) (*models.User, error)
	GetUser(actor permissions.Actor, username string) (*models.User, error)
	UpdateUser(actor permissions.Actor, username string, req models.UpdateUserRequest) (*models.User, error)
	DeleteUser(actor permissions.Actor, username string) error
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) requireAccountAccess(actor permissions.Actor, action permissions.Action) error {
	if !permissions.CanPerform(actor, action, permissions.Target{Kind: permissions.KindAccount}) {
		return denied(actor, "user administration requires an admin")
	}
	return nil
}

func (s *userService) ListUsers(actor permissions.Actor) ([]models.User, error) {
	if err := s.requireAccountAccess(actor, permissions.ActionRead); err != nil {
		return nil, err
	}
	return s.userRepo.GetAll()
}

func (s *userService) CreateUser(actor permissions.Actor, req models.CreateUserRequest) (*models.User, error) {
	if err := s.requireAccountAccess(actor, permissions.ActionCreate); err != nil {
		return nil, err
	}

	if strings.EqualFold(req.Username, models.ReservedUsername) {
		return nil, models.ErrorValidation{Message: `username "me" is reserved`}
	}
	fields := profileFields{Username: req.Username, Email: req.Email}
	if err := validate.Struct(fields); err != nil {
		return nil, models.ErrorValidation{Message: "invalid user fields: " + err.Error()}
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}
	if err := s.userRepo.Create(user); err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrorConflict{Message: "username or email already registered"}
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUser(actor permissions.Actor, username string) (*models.User, error) {
	if err := s.requireAccountAccess(actor, permissions.ActionRead); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if isNotFound(err) {
			return nil, models.ErrorNotFound{Message: "user not found"}
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateUser(actor permissions.Actor, username string, req models.UpdateUserRequest) (*models.User, error) {
	if err := s.requireAccountAccess(actor, permissions.ActionUpdate); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if isNotFound(err) {
			return nil, models.ErrorNotFound{Message: "user not found"}
		}
		return nil, err
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
	if req.Role != nil {
		user.Role = *req.Role
	}

	fields := profileFields{Username: user.Username, Email: user.Email}
	if err := validate.Struct(fields); err != nil {
		return nil, models.ErrorValidation{Message: "invalid user fields: " + err.Error()}
	}

	// Saving rotates the user's state, which also revokes any outstanding
	// confirmation code for them.
	if err := s.userRepo.Update(user); err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrorConflict{Message: "email already registered"}
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteUser(actor permissions.Actor, username string) error {
	if err := s.requireAccountAccess(actor, permissions.ActionDelete); err != nil {
		return err
	}

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if isNotFound(err) {
			return models.ErrorNotFound{Message: "user not found"}
		}
		return err
	}
	return s.userRepo.Delete(user.ID)
}
