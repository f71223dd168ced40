package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"

	"github.com/pageza/glucolink/backend/internal/apperrors"
	"github.com/pageza/glucolink/backend/internal/logger"
	"github.com/pageza/glucolink/backend/internal/models"
	"github.com/pageza/glucolink/backend/internal/repository"
	"github.com/pageza/glucolink/backend/internal/types"
)

const maxFullNameLength = 120

var ErrInvalidToken = apperrors.New(apperrors.ErrorTypeAuthentication, "INVALID_TOKEN", "invalid or expired token")

type AuthService struct {
	store     repository.ProfileStore
	jwtSecret []byte
	expiry    time.Duration
}

var _ IAuthService = (*AuthService)(nil)

func NewAuthService(store repository.ProfileStore, jwtSecret string, expiry time.Duration) *AuthService {
	return &AuthService{
		store:     store,
		jwtSecret: []byte(jwtSecret),
		expiry:    expiry,
	}
}

// Register creates a user and its profile. A guardian's diabetes type is
// ignored.
func (s *AuthService) Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error) {
	role := models.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	if !role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}

	fullName, err := normalizeFullName(req.FullName)
	if err != nil {
		return nil, err
	}

	var kind models.ProfileKind = models.GuardianKind{}
	if role == models.RolePatient {
		pk := models.PatientKind{}
		if req.DiabetesType != nil && strings.TrimSpace(*req.DiabetesType) != "" {
			dt := models.DiabetesType(strings.ToLower(strings.TrimSpace(*req.DiabetesType)))
			if !dt.Valid() {
				return nil, apperrors.ErrInvalidDiabetesType
			}
			pk.DiabetesType = &dt
		}
		kind = pk
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.store.FindUserByEmail(ctx, email); err == nil {
		return nil, apperrors.ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &models.User{Email: email, PasswordHash: string(hash)}
	profile := models.NewProfile(uuid.Nil, fullName, kind)
	if err := s.store.CreateAccount(ctx, user, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, err
	}
	user.Profile = profile

	logger.Info("account registered", "user_id", user.ID, "role", role)
	return user, nil
}

// Login checks credentials and returns the user with its profile.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *models.Profile, error) {
	user, err := s.store.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Security().Warn("failed login", "user_id", user.ID)
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	profile, err := s.store.FindProfileByUserID(ctx, user.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, apperrors.ErrProfileNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return user, profile, nil
}

// GenerateToken signs claims with HS256, filling in the registered claims.
func (s *AuthService) GenerateToken(claims *types.TokenClaims) (string, error) {
	now := time.Now()
	claims.Subject = claims.UserID.String()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.expiry))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == uuid.Nil || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// normalizeFullName composes the name to NFC and collapses runs of
// whitespace so equal names compare equal.
func normalizeFullName(raw string) (string, error) {
	name := strings.Join(strings.Fields(norm.NFC.String(raw)), " ")
	if name == "" || utf8.RuneCountInString(name) > maxFullNameLength {
		return "", apperrors.ErrInvalidFullName
	}
	return name, nil
}
