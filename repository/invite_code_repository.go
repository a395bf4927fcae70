package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/chroniclehq/chroniclebackend/models"
)

// GormInviteCodeRepository manages the invite codes that gate contributor
// registration. Validity (expiry, max uses, active flag) is evaluated by the
// model at redemption time; this layer only persists and counts.
type GormInviteCodeRepository struct {
	db *gorm.DB
}

func NewGormInviteCodeRepository(db *gorm.DB) InviteCodeRepository {
	return &GormInviteCodeRepository{db: db}
}

func (r *GormInviteCodeRepository) Create(inviteCode *models.InviteCode) error {
	if err := r.db.Create(inviteCode).Error; err != nil {
		return fmt.Errorf("failed to create invite code: %w", err)
	}
	return nil
}

// GetByCode looks an invite code up by its redemption string, as presented
// during contributor registration.
func (r *GormInviteCodeRepository) GetByCode(code string) (*models.InviteCode, error) {
	var inviteCode models.InviteCode
	if err := r.db.Where("code = ?", code).First(&inviteCode).Error; err != nil {
		return nil, fmt.Errorf("failed to find invite code: %w", err)
	}
	return &inviteCode, nil
}

func (r *GormInviteCodeRepository) GetByID(id uint) (*models.InviteCode, error) {
	var inviteCode models.InviteCode
	if err := r.db.First(&inviteCode, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find invite code %d: %w", id, err)
	}
	return &inviteCode, nil
}

func (r *GormInviteCodeRepository) Update(inviteCode *models.InviteCode) error {
	if err := r.db.Save(inviteCode).Error; err != nil {
		return fmt.Errorf("failed to update invite code %d: %w", inviteCode.ID, err)
	}
	return nil
}

// IncrementUses bumps the redemption counter atomically in SQL. A stale
// in-memory Uses value must never be written back over a concurrent
// registration.
func (r *GormInviteCodeRepository) IncrementUses(id uint) error {
	result := r.db.Model(&models.InviteCode{}).Where("id = ?", id).
		UpdateColumn("uses", gorm.Expr("uses + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment uses for invite code %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("invite code %d not found: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// ListAll returns every invite code, newest first, for the admin view.
func (r *GormInviteCodeRepository) ListAll() ([]models.InviteCode, error) {
	var inviteCodes []models.InviteCode
	if err := r.db.Order("created_at DESC").Find(&inviteCodes).Error; err != nil {
		return nil, fmt.Errorf("failed to list invite codes: %w", err)
	}
	return inviteCodes, nil
}

func (r *GormInviteCodeRepository) Delete(id uint) error {
	result := r.db.Delete(&models.InviteCode{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete invite code %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("invite code %d not found: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
