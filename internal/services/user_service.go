package services

import (
	"errors"
	"fmt"

	"storeapi/internal/models"
	"storeapi/internal/repositories"
)

// LoginToken is the placeholder credential returned by a successful login.
// No real token is issued or validated anywhere.
const LoginToken = "sample-jwt-token-would-be-generated-here"

// UserInput is the payload for creating or partially updating a user.
type UserInput struct {
	Email     *string `json:"email" validate:"required"`
	FirstName *string `json:"first_name" validate:"required"`
	LastName  *string `json:"last_name" validate:"required"`
	Password  *string `json:"password" validate:"required"`
	Role      *string `json:"role"`
}

// UserService handles business logic related to users.
type UserService struct {
	repo repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

// ListUsers returns one page of users plus listing metadata.
func (s *UserService) ListUsers(page, perPage int) ([]models.User, PageInfo, error) {
	users, err := s.repo.GetAll()
	if err != nil {
		return nil, PageInfo{}, err
	}
	pageItems, info := paginate(users, page, perPage)
	return pageItems, info, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id int) (*models.User, error) {
	return s.repo.GetByID(id)
}

// CreateUser registers a new user. The email must not be taken; the role
// defaults to customer and, unlike on update, is accepted unchecked.
func (s *UserService) CreateUser(input UserInput) (*models.User, error) {
	existing, err := s.repo.GetByEmail(*input.Email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email %s: %w", *input.Email, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("email '%s': %w", *input.Email, ErrEmailTaken)
	}

	role := models.RoleCustomer
	if input.Role != nil {
		role = *input.Role
	}

	user := &models.User{
		Email:     *input.Email,
		FirstName: *input.FirstName,
		LastName:  *input.LastName,
		Password:  *input.Password,
		Role:      role,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// UpdateUser applies the fields present in the input to an existing user.
// Changing the email re-checks uniqueness against every other user; setting
// the same email again is allowed. The password is overwritten verbatim. The
// role is validated against the known set.
func (s *UserService) UpdateUser(id int, input UserInput) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		other, err := s.repo.GetByEmail(*input.Email)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to check email %s: %w", *input.Email, err)
		}
		if other != nil && other.ID != id {
			return nil, fmt.Errorf("email '%s': %w", *input.Email, ErrEmailTaken)
		}
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Password != nil {
		user.Password = *input.Password
	}
	if input.Role != nil {
		if *input.Role != models.RoleCustomer && *input.Role != models.RoleAdmin {
			return nil, fmt.Errorf("%w: %s", ErrInvalidRole, *input.Role)
		}
		user.Role = *input.Role
	}

	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser deletes a user by their ID.
func (s *UserService) DeleteUser(id int) error {
	return s.repo.Delete(id)
}

// Login looks the user up by exact email and compares the stored password
// verbatim. Unknown email and wrong password both map to the same error.
func (s *UserService) Login(email, password string) (*models.User, string, error) {
	user, err := s.repo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if user.Password != password {
		return nil, "", ErrInvalidCredentials
	}
	return user, LoginToken, nil
}
