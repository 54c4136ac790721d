package usecase

import (
	"context"
	"errors"
	"time"

	authdomain "pushgate-backend/internal/auth/domain"
	authdto "pushgate-backend/internal/auth/dto"
	"pushgate-backend/internal/auth/repository"
	"pushgate-backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthUsecase defines the authentication operations
type AuthUsecase interface {
	Register(ctx context.Context, req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*authdto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	// ValidateToken resolves an access token to the user and the session
	// (signed-in device) it was issued for.
	ValidateToken(ctx context.Context, tokenString string) (*authdomain.User, *authdomain.Session, error)
}

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	config      *config.Config
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		config:      cfg,
	}
}

func (u *authUsecase) Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, errors.New("invalid email or password")
	}

	if !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, errors.New("invalid email or password")
	}

	return u.openSession(ctx, user)
}

func (u *authUsecase) Register(ctx context.Context, req *authdto.RegisterRequest) (*authdto.TokenResponse, error) {
	existing, err := u.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		return nil, errors.New("email already registered")
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &authdomain.User{
		Email:    req.Email,
		Password: hashedPassword,
		Name:     req.Name,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return u.openSession(ctx, user)
}

// RefreshToken issues a new access token for an existing session. The
// session row is reused so the device's push attachment survives refreshes.
func (u *authUsecase) RefreshToken(ctx context.Context, refreshToken string) (*authdto.TokenResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, errors.New("invalid refresh token")
	}

	session, err := u.sessionRepo.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	if session == nil || session.ExpiresAt.Before(time.Now()) {
		return nil, errors.New("refresh token expired")
	}

	user, err := u.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, errors.New("user not found")
	}

	accessToken, err := u.generateAccessToken(user, session.ID)
	if err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// Logout deletes the session row, which also drops any push attachment
// riding on it.
func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	session, err := u.sessionRepo.FindByRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}
	return u.sessionRepo.Delete(ctx, session.ID)
}

// openSession creates a session row for this login and returns the token
// pair bound to it.
func (u *authUsecase) openSession(ctx context.Context, user *authdomain.User) (*authdto.TokenResponse, error) {
	sessionID := uuid.New().String()

	refreshToken, err := u.generateRefreshToken(user, sessionID)
	if err != nil {
		return nil, err
	}

	session := &authdomain.Session{
		ID:           sessionID,
		RefreshToken: refreshToken,
		UserID:       user.ID,
		ExpiresAt:    time.Now().Add(u.config.JWTRefreshExpiry),
	}
	if err := u.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	accessToken, err := u.generateAccessToken(user, sessionID)
	if err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (u *authUsecase) generateAccessToken(user *authdomain.User, sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"sid":     sessionID,
		"exp":     time.Now().Add(u.config.JWTAccessExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) generateRefreshToken(user *authdomain.User, sessionID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"sid":     sessionID,
		"exp":     time.Now().Add(u.config.JWTRefreshExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) ValidateToken(ctx context.Context, tokenString string) (*authdomain.User, *authdomain.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, nil, errors.New("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, nil, errors.New("invalid token claims")
	}

	sessionID, ok := claims["sid"].(string)
	if !ok {
		return nil, nil, errors.New("invalid token claims")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, errors.New("user not found")
	}

	session, err := u.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		// Session revoked; the access token dies with it.
		return nil, nil, errors.New("session no longer active")
	}

	return user, session, nil
}
