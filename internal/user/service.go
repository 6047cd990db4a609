package user

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type Service struct {
	repo    Repository
	issuer  *Issuer
	revoker Revoker
	log     *zap.Logger
	now     func() time.Time
}

func NewService(repo Repository, issuer *Issuer, revoker Revoker, log *zap.Logger) *Service {
	return &Service{repo: repo, issuer: issuer, revoker: revoker, log: log, now: time.Now}
}

func (s *Service) GetByID(ctx context.Context, id int) (User, error) {
	return s.repo.GetByID(ctx, id)
}

// SignUp creates a customer account and signs it in.
func (s *Service) SignUp(ctx context.Context, email, password, name string) (Session, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return Session{}, ErrInvalidCredentials
	}
	if len(password) < minPasswordLength {
		return Session{}, ErrWeakPassword
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return Session{}, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return Session{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, err
	}

	now := s.now().UTC().Format(time.RFC3339)
	created, err := s.repo.Create(ctx, User{
		Email:     email,
		Password:  string(hashed),
		FullName:  strings.TrimSpace(name),
		UserType:  TypeCustomer,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return Session{}, err
	}
	s.log.Info("user signed up", zap.Int("user_id", created.ID))
	return s.session(created)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	user, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return Session{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.session(user)
}

// SignOut revokes the token id until the token's own expiry.
func (s *Service) SignOut(ctx context.Context, jti string, exp time.Time) error {
	if jti == "" {
		return nil
	}
	if exp.IsZero() {
		exp = s.now().Add(s.issuer.ttl)
	}
	return s.revoker.Revoke(ctx, jti, exp)
}

func (s *Service) session(user User) (Session, error) {
	token, exp, err := s.issuer.Issue(user)
	if err != nil {
		return Session{}, err
	}
	return Session{User: sanitizeUser(user), Token: token, ExpiresAt: exp}, nil
}
