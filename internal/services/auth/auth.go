// Package services содержит логику бизнес-уровня для регистрации,
// аутентификации и управления профилем пользователя.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/renteaseone/rentease-backend/internal/lib/code"
	"github.com/renteaseone/rentease-backend/internal/lib/jwt"
	"github.com/renteaseone/rentease-backend/internal/lib/password"
	"github.com/renteaseone/rentease-backend/internal/lib/sl"
	"github.com/renteaseone/rentease-backend/internal/models"
	"github.com/renteaseone/rentease-backend/internal/storage/repository"
)

// ErrInvalidCredentials возвращается при неверной паре email/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrRoleAlreadySet возвращается при попытке сменить уже выбранную роль.
var ErrRoleAlreadySet = errors.New("role already set")

const (
	profileCacheTTL = 5 * time.Minute
	resetCodeTTL    = 15 * time.Minute
)

// ProfileCacheKey — ключ кеша профиля пользователя. Сервисы, меняющие
// профиль или его агрегат, обязаны инвалидировать этот ключ.
func ProfileCacheKey(userUID string) string {
	return "profile:" + userUID
}

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	RegisterUser(ctx context.Context, user models.User) (string, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SetUserRole(ctx context.Context, userUID, role string, landlordCode *string) error
	SetResetCode(ctx context.Context, userUID, resetCode string, expiry time.Time) error
	ResetPassword(ctx context.Context, email, resetCode, passwordHash string) error
	UpdatePhoto(ctx context.Context, userUID, path string) error
	GetBankDetails(ctx context.Context, landlordUID string) (*models.BankDetails, error)
}

// Cache — кеш read-side агрегатов.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Mailer отправляет письма пользователям.
type Mailer interface {
	Send(to []string, subject, bodyText string) error
}

// AuthService отвечает за регистрацию, авторизацию, выбор роли
// и восстановление пароля.
type AuthService struct {
	users    UserRepository
	cache    Cache
	mailer   Mailer
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, cache Cache, mailer Mailer, jwtMaker jwt.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		cache:    cache,
		mailer:   mailer,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register создает нового пользователя с хэшированием пароля. Роль не
// назначается: пользователь выбирает её отдельным шагом.
func (s *AuthService) Register(ctx context.Context, firstName, lastName, email, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	user := models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hashed,
	}
	return s.users.RegisterUser(ctx, user)
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, *models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.UID, user.Email, user.Role)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ChooseRole назначает пользователю роль. Переход одноразовый: уже
// выбранную роль сменить нельзя. Для арендодателя генерируется
// уникальный код приглашения.
func (s *AuthService) ChooseRole(ctx context.Context, userUID, role string) (*models.User, error) {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	if user.Role != "" {
		return nil, ErrRoleAlreadySet
	}

	var landlordCode *string
	if role == models.RoleLandlord {
		// Коллизия кода крайне маловероятна, но уникальный индекс
		// может её вернуть; пробуем несколько раз.
		for attempt := 0; ; attempt++ {
			c, err := code.NewLandlordCode()
			if err != nil {
				return nil, err
			}
			landlordCode = &c
			err = s.users.SetUserRole(ctx, userUID, role, landlordCode)
			if errors.Is(err, repository.ErrDuplicate) && attempt < 4 {
				continue
			}
			if err != nil {
				return nil, err
			}
			break
		}
	} else {
		if err := s.users.SetUserRole(ctx, userUID, role, nil); err != nil {
			return nil, err
		}
	}

	if err := s.cache.Invalidate(ProfileCacheKey(userUID)); err != nil {
		s.log.Warn("failed to invalidate profile cache", sl.Err(err))
	}
	return s.users.GetUser(ctx, userUID)
}

// ForgotPassword генерирует шестизначный код сброса, сохраняет его
// с ограниченным сроком действия и отправляет на email пользователя.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	resetCode, err := code.NewResetCode()
	if err != nil {
		return err
	}
	expiry := time.Now().UTC().Add(resetCodeTTL)
	if err := s.users.SetResetCode(ctx, user.UID, resetCode, expiry); err != nil {
		return err
	}

	subject := "RentEase password reset"
	body := fmt.Sprintf("Hello, %s!\n\nYour password reset code is %s.\nIt expires in 15 minutes. If you did not request a reset, ignore this email.",
		user.FirstName, resetCode)
	return s.mailer.Send([]string{user.Email}, subject, body)
}

// ResetPassword меняет пароль по коду сброса. Код одноразовый.
func (s *AuthService) ResetPassword(ctx context.Context, email, resetCode, newPassword string) error {
	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return err
	}
	return s.users.ResetPassword(ctx, email, resetCode, hashed)
}

// Me возвращает профиль текущего пользователя. Для арендатора профиль
// дополняется данными его арендодателя и банковскими реквизитами;
// агрегат кешируется.
func (s *AuthService) Me(ctx context.Context, userUID string) (*models.TenantProfile, error) {
	key := ProfileCacheKey(userUID)
	var cached models.TenantProfile
	if ok, err := s.cache.Get(key, &cached); err != nil {
		s.log.Warn("failed to read profile cache", sl.Err(err))
	} else if ok {
		return &cached, nil
	}

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	profile := &models.TenantProfile{User: *user}

	if user.Role == models.RoleTenant && user.LandlordUID != nil {
		landlord, err := s.users.GetUser(ctx, *user.LandlordUID)
		if err != nil {
			return nil, err
		}
		info := &models.LandlordInfo{
			UID:       landlord.UID,
			FirstName: landlord.FirstName,
			LastName:  landlord.LastName,
			Email:     landlord.Email,
		}
		details, err := s.users.GetBankDetails(ctx, landlord.UID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		info.BankDetails = details
		profile.Landlord = info
	}

	if err := s.cache.Set(key, profile, profileCacheTTL); err != nil {
		s.log.Warn("failed to write profile cache", sl.Err(err))
	}
	return profile, nil
}

// UpdatePhoto сохраняет путь к новой фотографии профиля.
func (s *AuthService) UpdatePhoto(ctx context.Context, userUID, path string) error {
	if err := s.users.UpdatePhoto(ctx, userUID, path); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ProfileCacheKey(userUID)); err != nil {
		s.log.Warn("failed to invalidate profile cache", sl.Err(err))
	}
	return nil
}

// ValidateToken проверяет JWT и возвращает утверждения токена.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}
