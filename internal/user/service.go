package user

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"

	"servicepro/internal/token"
)

var (
	ErrConflict       = errors.New("user already exists")
	ErrUnverified     = errors.New("account not verified")
	ErrBadCredentials = errors.New("invalid credentials")
	ErrBadToken       = errors.New("invalid or expired token")
	ErrForbidden      = errors.New("access denied")
)

// Sender delivers account emails. Satisfied by mailer.Mailer.
type Sender interface {
	SendVerification(to, name, link string) error
	SendPasswordReset(to, link string) error
}

type Service struct {
	repo    *Repository
	tokens  *token.Service
	mail    Sender
	baseURL string
	log     zerolog.Logger
}

func NewService(repo *Repository, tokens *token.Service, mail Sender, baseURL string, log zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		tokens:  tokens,
		mail:    mail,
		baseURL: baseURL,
		log:     log,
	}
}

// Verify lets the Service act as the middleware's TokenVerifier.
func (s *Service) Verify(tokenString string) (*token.Claims, error) {
	return s.tokens.Verify(tokenString)
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) error {
	if _, err := s.repo.FindByUsername(ctx, req.Username); err == nil {
		return ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u := &User{
		Name:              req.Name,
		Username:          req.Username,
		Password:          string(hashed),
		IsVerified:        false,
		VerificationToken: secureToken(),
	}

	if _, err := s.repo.Insert(ctx, u); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/verify-email?token=%s&email=%s", s.baseURL, u.VerificationToken, u.Username)
	if err := s.mail.SendVerification(u.Username, u.Name, link); err != nil {
		// Registration stands even when the mail bounces; the link can be
		// re-requested via forgot-password support flows.
		s.log.Error().Err(err).Str("username", u.Username).Msg("failed to send verification email")
	}

	return nil
}

func (s *Service) VerifyEmail(ctx context.Context, email, verificationToken string) error {
	u, err := s.repo.FindByUsername(ctx, strings.TrimSpace(email))
	if err != nil {
		return err
	}

	if u.VerificationToken != verificationToken {
		return ErrBadToken
	}

	return s.repo.UpdateByUsername(ctx, u.Username,
		bson.M{"isVerified": true},
		bson.M{"verificationToken": ""},
	)
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (string, error) {
	u, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrUnverified
		}
		return "", err
	}
	if !u.IsVerified {
		return "", ErrUnverified
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return "", ErrBadCredentials
	}

	return s.tokens.Issue(token.Identity{
		UserID:       u.ID.Hex(),
		Name:         u.Name,
		Username:     u.Username,
		ProfileImage: u.ProfileImage,
	})
}

func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if _, err := s.repo.FindByUsername(ctx, email); err != nil {
		return err
	}

	resetToken := secureToken()
	if err := s.repo.UpdateByUsername(ctx, email, bson.M{"resetToken": resetToken}, nil); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s&email=%s", s.baseURL, resetToken, email)
	if err := s.mail.SendPasswordReset(email, link); err != nil {
		s.log.Error().Err(err).Str("username", email).Msg("failed to send reset email")
		return err
	}
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, email, resetToken, newPassword string) error {
	u, err := s.repo.FindByUsername(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrBadToken
		}
		return err
	}
	if u.ResetToken == "" || u.ResetToken != resetToken {
		return ErrBadToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.UpdateByUsername(ctx, email,
		bson.M{"password": string(hashed)},
		bson.M{"resetToken": ""},
	)
}

func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(oldPassword)); err != nil {
		return ErrBadCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.repo.UpdateByID(ctx, userID, bson.M{"password": string(hashed)})
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		UserID:        u.ID.Hex(),
		Name:          u.Name,
		Email:         u.Username,
		Number:        u.Number,
		ProfileImage:  u.ProfileImage,
		Role:          u.Role,
		ModeratorRole: u.ModeratorRole,
	}, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID, name, username, number string) error {
	set := bson.M{}
	if name != "" {
		set["name"] = name
	}
	if username != "" {
		set["username"] = username
	}
	if number != "" {
		set["number"] = number
	}
	if len(set) == 0 {
		return nil
	}
	return s.repo.UpdateByID(ctx, userID, set)
}

func (s *Service) UpdateProfileImage(ctx context.Context, userID, profileImage string) error {
	return s.repo.UpdateByID(ctx, userID, bson.M{"profileImage": profileImage})
}

// ListUsersForAdmin returns all other users, but only when the requester is an
// admin.
func (s *Service) ListUsersForAdmin(ctx context.Context, adminID string) ([]User, error) {
	admin, err := s.repo.FindByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if admin.Role != "admin" {
		return nil, ErrForbidden
	}
	return s.repo.ListOthers(ctx, adminID)
}

func (s *Service) SetRole(ctx context.Context, userID, role string) error {
	return s.repo.UpdateByID(ctx, userID, bson.M{"role": role})
}

func (s *Service) MakeModerator(ctx context.Context, userID, roleType string) error {
	return s.repo.UpdateByID(ctx, userID, bson.M{
		"role":          "moderator",
		"moderatorRole": roleType,
	})
}

func secureToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate secure random token")
	}
	return hex.EncodeToString(b)
}
