package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"inventory-system/internal/authz"
	"inventory-system/internal/dto"
	"inventory-system/internal/repositories"
	"inventory-system/pkg/config"
	"inventory-system/pkg/constants"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/service"
	"inventory-system/pkg/utils"
)

const capabilitiesCacheTTL = time.Hour * 12

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, error)
	RefreshToken(ctx context.Context, payload dto.RefreshTokenDTO) (*dto.TokenPairDTO, error)
	Me(ctx context.Context) (*dto.MeDTO, error)
}

type AuthService struct {
	userRepo   repositories.UserRepositoryInterface
	cacheRepo  repositories.CacheRepositoryInterface
	jwtService service.JWTService
	authCfg    config.AuthConfig
	logger     *zap.Logger
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	authCfg config.AuthConfig,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepo:   userRepo,
		cacheRepo:  cacheRepo,
		jwtService: jwtService,
		authCfg:    authCfg,
		logger:     logger,
	}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}

	lockoutKey := fmt.Sprintf(constants.CacheKeyLockout, user.ID)
	if locked, _ := s.cacheRepo.Get(ctx, lockoutKey); locked != "" {
		return nil, apperrors.NewHttpError(429,
			fmt.Sprintf("Слишком много неудачных попыток. Попробуйте через %.0f минут.",
				s.authCfg.LockoutDuration.Minutes()),
			nil, nil)
	}

	if err := utils.ComparePasswords(user.Password, payload.Password); err != nil {
		attemptsKey := fmt.Sprintf(constants.CacheKeyLoginAttempts, user.ID)
		attempts, incrErr := s.cacheRepo.Incr(ctx, attemptsKey)
		if incrErr == nil {
			_, _ = s.cacheRepo.Expire(ctx, attemptsKey, s.authCfg.LockoutDuration)
			if attempts >= int64(s.authCfg.MaxLoginAttempts) {
				_ = s.cacheRepo.Set(ctx, lockoutKey, "locked", s.authCfg.LockoutDuration)
				s.logger.Warn("аккаунт заблокирован после неудачных попыток входа",
					zap.Uint64("user_id", user.ID), zap.Int64("attempts", attempts))
			}
		}
		return nil, apperrors.ErrInvalidCredentials
	}

	_ = s.cacheRepo.Del(ctx, fmt.Sprintf(constants.CacheKeyLoginAttempts, user.ID))

	access, refresh, err := s.jwtService.GenerateTokens(user.ID, user.Role.String())
	if err != nil {
		return nil, err
	}

	s.logger.Info("успешный вход",
		zap.Uint64("user_id", user.ID),
		zap.String("role", user.Role.String()))

	return &dto.TokenPairDTO{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwtService.GetAccessTokenTTL().Seconds()),
	}, nil
}

func (s *AuthService) RefreshToken(ctx context.Context, payload dto.RefreshTokenDTO) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtService.ValidateToken(payload.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	// Роль и активность перечитываем из БД: токен мог пережить смену роли.
	user, err := s.userRepo.FindUser(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	if !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}

	access, refresh, err := s.jwtService.GenerateTokens(user.ID, user.Role.String())
	if err != nil {
		return nil, err
	}

	return &dto.TokenPairDTO{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.jwtService.GetAccessTokenTTL().Seconds()),
	}, nil
}

func (s *AuthService) Me(ctx context.Context) (*dto.MeDTO, error) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	caps, err := s.capabilitiesFor(ctx, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.MeDTO{
		User:         *toUserDTO(user),
		Capabilities: caps,
	}, nil
}

// capabilitiesFor отдаёт способности роли из кеша, считая их при промахе.
func (s *AuthService) capabilitiesFor(ctx context.Context, role constants.Role) (authz.Capabilities, error) {
	key := fmt.Sprintf(constants.CacheKeyCapabilities, role.String())

	if cached, err := s.cacheRepo.Get(ctx, key); err == nil && cached != "" {
		var caps authz.Capabilities
		if jsonErr := json.Unmarshal([]byte(cached), &caps); jsonErr == nil {
			return caps, nil
		}
	}

	caps := authz.For(role)
	if raw, err := json.Marshal(caps); err == nil {
		if setErr := s.cacheRepo.Set(ctx, key, string(raw), capabilitiesCacheTTL); setErr != nil {
			s.logger.Warn("не удалось закешировать capabilities",
				zap.String("role", role.String()), zap.Error(setErr))
		}
	}
	return caps, nil
}
