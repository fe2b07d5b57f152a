package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "stockstalk/internal/errors"
	"stockstalk/internal/models"
)

type userService struct {
	db *gorm.DB
}

// NewUserService returns the gorm-backed UserServicer.
func NewUserService(db *gorm.DB) UserServicer {
	return &userService{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser stores a new account and its empty default watchlist in one
// transaction. Emails are compared case-insensitively.
func (s *userService) CreateUser(email, password, firstName, lastName string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:     email,
		Password:  string(hash),
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		IsActive:  true,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Watchlist{UserID: user.ID, Name: models.DefaultWatchlistName}).Error
	})
	switch {
	case err == nil:
		return user, nil
	case isDuplicate(err):
		return nil, apperrors.ErrDuplicateEmail
	default:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
}

// GetUserByEmail looks up an active account.
func (s *userService) GetUserByEmail(email string) (*models.User, error) {
	return s.findUser(s.db.Where("email = ? AND is_active = ?", normalizeEmail(email), true))
}

func (s *userService) GetUserByID(id uint) (*models.User, error) {
	return s.findUser(s.db.Where("id = ?", id))
}

func (s *userService) findUser(query *gorm.DB) (*models.User, error) {
	var user models.User
	err := query.First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

func (s *userService) VerifyPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}

// AttemptLogin returns ErrInvalidCredentials for both an unknown email and a
// wrong password.
func (s *userService) AttemptLogin(email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(email)
	if errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.VerifyPassword(user, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}
