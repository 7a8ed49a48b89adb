package accounts

import (
	"context"
	"crypto/rand"
	"math/big"

	"o365-backend/internal/models"

	"github.com/rs/zerolog/log"
)

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
const passwordLength = 8

// Ledger is the invitation-code side of account creation.
type Ledger interface {
	VerifyCode(ctx context.Context, code string) (*models.InvitationCode, error)
	UseCode(ctx context.Context, code, email string) (bool, error)
	DeleteCode(ctx context.Context, id uint) (bool, error)
}

// Directory is the external identity directory.
type Directory interface {
	CreateUser(ctx context.Context, user models.User, domain, skuID string) (string, error)
	DeleteUser(ctx context.Context, email string) error
	EnableUser(ctx context.Context, email string) error
}

// Service sequences ledger and directory calls per request.
type Service struct {
	Ledger    Ledger
	Directory Directory
}

type CreateAccountInput struct {
	InvitationCode string
	DisplayName    string
	UserName       string
	Domain         string
	SkuID          string
}

type CreateAccountResult struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateAccount runs the provisioning workflow: verify the invitation code
// (when supplied) before any external side effect, generate a disposable
// password, create the directory account with its license, then consume the
// code. Steps are strictly sequential; nothing is retried or rolled back.
func (s *Service) CreateAccount(ctx context.Context, in CreateAccountInput) (*CreateAccountResult, error) {
	if in.InvitationCode != "" {
		rec, err := s.Ledger.VerifyCode(ctx, in.InvitationCode)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, ErrCodeNotFound
		}
		if rec.Status != models.StatusUnused {
			return nil, ErrCodeUsed
		}
	}

	password := GeneratePassword()
	user := models.User{
		DisplayName: in.DisplayName,
		UserName:    in.UserName,
		Password:    password,
	}

	email, err := s.Directory.CreateUser(ctx, user, in.Domain, in.SkuID)
	if err != nil {
		return nil, err
	}

	if in.InvitationCode != "" {
		used, err := s.Ledger.UseCode(ctx, in.InvitationCode, email)
		if err != nil {
			log.Error().Err(err).Str("email", email).Msg("Failed to consume invitation code")
		} else if !used {
			// Lost the consumption race: the account exists but the code's
			// binding reflects whichever request won. Accepted outcome.
			log.Warn().Str("code", in.InvitationCode).Str("email", email).Msg("Invitation code already consumed by a concurrent request")
		}
	}

	return &CreateAccountResult{Email: email, Password: password}, nil
}

// EnableAccount re-enables a disabled directory account.
func (s *Service) EnableAccount(ctx context.Context, email string) error {
	return s.Directory.EnableUser(ctx, email)
}

// RemoveCode deletes an invitation code, removing the bound directory
// account first when an email is supplied. Directory deletion is idempotent;
// ledger deletion is unconditional.
func (s *Service) RemoveCode(ctx context.Context, id uint, email string) error {
	if email != "" {
		if err := s.Directory.DeleteUser(ctx, email); err != nil {
			return err
		}
	}
	_, err := s.Ledger.DeleteCode(ctx, id)
	return err
}

// GeneratePassword returns a random disposable password; the directory
// forces a change on first sign-in.
func GeneratePassword() string {
	buf := make([]byte, passwordLength)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		buf[i] = passwordAlphabet[idx.Int64()]
	}
	return string(buf)
}
