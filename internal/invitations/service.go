package invitations

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"o365-backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Service owns the invitation_code table: issuance, single consumption,
// listing and deletion.
type Service struct {
	DB         *gorm.DB
	CodeLength int
}

func (s *Service) codeLength() int {
	if s.CodeLength <= 0 {
		return 8
	}
	return s.CodeLength
}

func (s *Service) generateCode() string {
	n := s.codeLength()
	buf := make([]byte, n)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failure is unrecoverable for code issuance
			panic(err)
		}
		buf[i] = codeAlphabet[idx.Int64()]
	}
	return string(buf)
}

// CreateCodes generates count random codes and inserts each as an unused row.
// Insertions are independent: a failed insert (e.g. collision against the
// unique index) is logged and that code is omitted. Returns the codes that
// were actually persisted.
func (s *Service) CreateCodes(ctx context.Context, count int) []models.InvitationCode {
	codes := make([]models.InvitationCode, 0, count)
	now := time.Now().Unix()

	for i := 0; i < count; i++ {
		code := models.InvitationCode{
			Code:       s.generateCode(),
			CreateTime: now,
			UpdateTime: now,
			Status:     models.StatusUnused,
			Email:      "",
		}
		if err := s.DB.WithContext(ctx).Create(&code).Error; err != nil {
			log.Error().Err(err).Msg("Failed to create invitation code")
			continue
		}
		codes = append(codes, code)
	}
	return codes
}

// VerifyCode looks up a code by exact value. Returns nil when absent.
// No mutation and no status enforcement; callers check Status themselves.
func (s *Service) VerifyCode(ctx context.Context, code string) (*models.InvitationCode, error) {
	var rec models.InvitationCode
	err := s.DB.WithContext(ctx).Where("code = ?", code).First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// UseCode marks a code used and binds the provisioned email, but only where
// the code is still unused. The conditional update is the sole concurrency
// mechanism: of any number of racing consumers, exactly one sees true.
func (s *Service) UseCode(ctx context.Context, code, email string) (bool, error) {
	res := s.DB.WithContext(ctx).
		Model(&models.InvitationCode{}).
		Where("code = ? AND status = ?", code, models.StatusUnused).
		Updates(map[string]interface{}{
			"status":      models.StatusUsed,
			"email":       email,
			"update_time": time.Now().Unix(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListCodes returns codes, optionally filtered by exact status, newest first.
func (s *Service) ListCodes(ctx context.Context, status *int) ([]models.InvitationCode, error) {
	q := s.DB.WithContext(ctx).Model(&models.InvitationCode{})
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	var codes []models.InvitationCode
	if err := q.Order("create_time DESC").Find(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// DeleteCode removes a code by id regardless of status. Returns whether a
// row was removed.
func (s *Service) DeleteCode(ctx context.Context, id uint) (bool, error) {
	res := s.DB.WithContext(ctx).Delete(&models.InvitationCode{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
