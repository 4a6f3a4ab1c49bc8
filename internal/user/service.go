// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/petition-platform/internal/core"
	"github.com/carterperez-dev/petition-platform/internal/images"
)

const sessionKeyPrefix = "session:"

// sessionCache is the slice of the redis client the session lifecycle
// needs; tests substitute a fake built on the go-redis Cmd constructors.
type sessionCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type Service struct {
	repo       Repository
	redis      sessionCache
	imageStore *images.Store
	sessionTTL time.Duration
	logger     *slog.Logger
}

func NewService(
	repo Repository,
	redisClient *redis.Client,
	imageStore *images.Store,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:       repo,
		redis:      redisClient,
		imageStore: imageStore,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*User, error) {
	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	user := &User{
		Email:        strings.ToLower(req.Email),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials and issues a fresh session token. A second
// login replaces any previous session for the same user.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*User, string, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return nil, "", fmt.Errorf("login: %w", err)
	}

	// The dummy verify for unknown emails keeps response timing even.
	var storedHash *string
	if user != nil {
		storedHash = &user.PasswordHash
	}
	ok, rehash, verifyErr := core.VerifyPasswordTimingSafe(req.Password, storedHash)
	if verifyErr != nil || !ok {
		return nil, "", fmt.Errorf("login: %w", core.ErrUnauthorized)
	}

	if rehash != "" {
		if err := s.repo.UpdatePassword(ctx, user.ID, rehash); err != nil {
			s.logger.Warn("password rehash persist failed", "error", err)
		}
	}

	token, err := core.GenerateSessionToken()
	if err != nil {
		return nil, "", fmt.Errorf("login: %w", err)
	}
	tokenHash := core.HashToken(token)

	if user.AuthTokenHash != nil {
		s.evictSession(ctx, *user.AuthTokenHash)
	}

	if err := s.repo.SetAuthTokenHash(ctx, user.ID, &tokenHash); err != nil {
		return nil, "", err
	}
	s.cacheSession(ctx, tokenHash, user.ID)

	return user, token, nil
}

func (s *Service) Logout(ctx context.Context, userID int64) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if user.AuthTokenHash != nil {
		s.evictSession(ctx, *user.AuthTokenHash)
	}

	return s.repo.SetAuthTokenHash(ctx, userID, nil)
}

// VerifyToken resolves a session token to a user id. The redis cache is
// consulted first; on a miss the users table is the source of truth.
func (s *Service) VerifyToken(
	ctx context.Context,
	token string,
) (int64, error) {
	tokenHash := core.HashToken(token)

	cached, err := s.redis.Get(ctx, sessionKeyPrefix+tokenHash).Result()
	if err == nil {
		id, parseErr := strconv.ParseInt(cached, 10, 64)
		if parseErr == nil {
			return id, nil
		}
	} else if err != redis.Nil {
		s.logger.Warn("session cache lookup failed", "error", err)
	}

	user, err := s.repo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return 0, err
	}

	s.cacheSession(ctx, tokenHash, user.ID)
	return user.ID, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateUser(
	ctx context.Context,
	id int64,
	req UpdateUserRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Password != nil {
		if req.CurrentPassword == nil {
			return nil, fmt.Errorf(
				"update user: currentPassword required: %w",
				core.ErrInvalidInput,
			)
		}

		ok, err := core.VerifyPassword(*req.CurrentPassword, user.PasswordHash)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf(
				"update user: incorrect currentPassword: %w",
				core.ErrUnauthorized,
			)
		}

		if *req.Password == *req.CurrentPassword {
			return nil, fmt.Errorf(
				"update user: new password matches current: %w",
				core.ErrForbidden,
			)
		}

		hash, err := core.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
		if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if req.Email != nil {
		user.Email = strings.ToLower(*req.Email)
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}

	if req.Email != nil || req.FirstName != nil || req.LastName != nil {
		if err := s.repo.Update(ctx, user); err != nil {
			return nil, err
		}
	}

	return user, nil
}

func (s *Service) GetImage(
	ctx context.Context,
	id int64,
) ([]byte, string, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !user.HasImage() {
		return nil, "", fmt.Errorf("get user image: %w", core.ErrNotFound)
	}

	return s.imageStore.Retrieve(*user.ImageFilename)
}

// SetImage stores the image and returns true when the user had no
// previous image. Callers use that to pick the response status.
func (s *Service) SetImage(
	ctx context.Context,
	id int64,
	data []byte,
	ext string,
) (bool, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	filename, err := s.imageStore.Save(data, ext)
	if err != nil {
		return false, fmt.Errorf("set user image: %w", err)
	}

	if err := s.repo.SetImageFilename(ctx, id, &filename); err != nil {
		if delErr := s.imageStore.Delete(filename); delErr != nil {
			s.logger.Warn("orphan image cleanup failed",
				"filename", filename, "error", delErr)
		}
		return false, err
	}

	created := !user.HasImage()
	if user.HasImage() {
		if delErr := s.imageStore.Delete(*user.ImageFilename); delErr != nil {
			s.logger.Warn("replaced image cleanup failed",
				"filename", *user.ImageFilename, "error", delErr)
		}
	}

	return created, nil
}

func (s *Service) DeleteImage(ctx context.Context, id int64) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !user.HasImage() {
		return fmt.Errorf("delete user image: %w", core.ErrNotFound)
	}

	if err := s.repo.SetImageFilename(ctx, id, nil); err != nil {
		return err
	}

	if err := s.imageStore.Delete(*user.ImageFilename); err != nil {
		s.logger.Warn("image file removal failed",
			"filename", *user.ImageFilename, "error", err)
	}

	return nil
}

func (s *Service) cacheSession(
	ctx context.Context,
	tokenHash string,
	userID int64,
) {
	err := s.redis.Set(
		ctx,
		sessionKeyPrefix+tokenHash,
		strconv.FormatInt(userID, 10),
		s.sessionTTL,
	).Err()
	if err != nil {
		s.logger.Warn("session cache write failed", "error", err)
	}
}

func (s *Service) evictSession(ctx context.Context, tokenHash string) {
	if err := s.redis.Del(ctx, sessionKeyPrefix+tokenHash).Err(); err != nil {
		s.logger.Warn("session cache eviction failed", "error", err)
	}
}
