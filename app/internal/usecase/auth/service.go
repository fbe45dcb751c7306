package auth

import (
	"context"
	"strings"

	"go.uber.org/zap"

	domres "example.com/storefront/app/internal/domain/reservation"
	domuser "example.com/storefront/app/internal/domain/user"
)

type PasswordComparer interface {
	Compare(hash string, password string) error
}

type Claims struct {
	UserID   int64
	RoleCode domuser.RoleCode
	Email    string
	Name     string
}

type TokenService interface {
	GenerateToken(u *domuser.User) (string, error)
	ParseToken(token string) (*Claims, error)
}

// CartTransferer moves anonymous cart holds to the user who just logged in.
type CartTransferer interface {
	Transfer(ctx context.Context, sessionID string, userID int64) (domres.TransferResult, error)
}

type Service struct {
	userRepo domuser.Repository
	checker  PasswordComparer
	tokens   TokenService
	carts    CartTransferer
	logger   *zap.Logger
}

func NewService(
	userRepo domuser.Repository,
	checker PasswordComparer,
	tokens TokenService,
	carts CartTransferer,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		userRepo: userRepo,
		checker:  checker,
		tokens:   tokens,
		carts:    carts,
		logger:   logger,
	}
}

type LoginInput struct {
	Email     string
	Password  string
	SessionID string
}

type LoginResult struct {
	Token    string
	User     *domuser.User
	Transfer *domres.TransferResult
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		return nil, domuser.ErrInvalidCredential
	}

	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, domuser.ErrUnauthorized
	}

	if err := s.checker.Compare(u.PasswordHash, in.Password); err != nil {
		return nil, domuser.ErrUnauthorized
	}

	token, err := s.tokens.GenerateToken(u)
	if err != nil {
		return nil, err
	}

	result := &LoginResult{
		Token: token,
		User:  u,
	}

	// A failed transfer never blocks the login; the session keeps its holds.
	if sessionID := strings.TrimSpace(in.SessionID); sessionID != "" && s.carts != nil {
		transfer, err := s.carts.Transfer(ctx, sessionID, u.ID)
		if err != nil {
			s.logger.Warn("cart transfer on login",
				zap.Int64("user_id", u.ID), zap.Error(err))
		} else {
			result.Transfer = &transfer
		}
	}

	return result, nil
}
