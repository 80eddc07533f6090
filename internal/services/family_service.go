package services

import (
	"crypto/rand"
	"errors"

	"gorm.io/gorm"

	apperrors "chitieu/internal/errors"
	"chitieu/internal/logger"
	"chitieu/internal/models"
)

// familyService handles family group management.
type familyService struct {
	db *gorm.DB
}

// NewFamilyService creates a new FamilyServicer.
func NewFamilyService(db *gorm.DB) FamilyServicer {
	return &familyService{db: db}
}

// inviteCodeAlphabet avoids 0/O and 1/I so codes survive being read aloud.
const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const inviteCodeLength = 8

// Create creates a family and attaches the creator as its first member in
// the same database transaction.
func (s *familyService) Create(userID, name string) (*models.Family, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "family name is required")
	}

	code, err := s.generateInviteCode()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	family := &models.Family{Name: name, InviteCode: code}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(family).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).
			Update("family_id", family.ID).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.withMembers(family.ID)
}

// Join moves the caller into the family matching the invite code. An unknown
// code gets its own error so the UI can say "family not found" instead of a
// generic failure. A caller already in a family switches to the new one; the
// old family's historical budgets and transactions stay attributed to it.
func (s *familyService) Join(userID, inviteCode string) (*models.Family, error) {
	var family models.Family
	if err := s.db.Where("invite_code = ?", inviteCode).First(&family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrFamilyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(&models.User{}).Where("id = ?", userID).
		Update("family_id", family.ID).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.withMembers(family.ID)
}

// Leave detaches the caller from their family. Historical family-scoped
// budgets and transactions are not touched.
func (s *familyService) Leave(userID string) error {
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).
		Update("family_id", nil).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Get returns the caller's family with its members, or nil without a family.
func (s *familyService) Get(userID string) *models.Family {
	var user models.User
	if err := s.db.Select("id", "family_id").First(&user, "id = ?", userID).Error; err != nil {
		logger.Get().Errorw("failed to load user for family lookup", "error", err)
		return nil
	}
	if user.FamilyID == nil {
		return nil
	}

	family, err := s.withMembers(*user.FamilyID)
	if err != nil {
		logger.Get().Errorw("failed to load family", "error", err)
		return nil
	}
	return family
}

// Members returns the minimal projection of everyone in the caller's family;
// an empty list when the caller has none.
func (s *familyService) Members(userID string) []OwnerView {
	var user models.User
	if err := s.db.Select("id", "family_id").First(&user, "id = ?", userID).Error; err != nil {
		logger.Get().Errorw("failed to load user for member listing", "error", err)
		return []OwnerView{}
	}
	if user.FamilyID == nil {
		return []OwnerView{}
	}

	var members []models.User
	if err := s.db.Select("id", "name", "image").
		Where("family_id = ?", *user.FamilyID).
		Find(&members).Error; err != nil {
		logger.Get().Errorw("failed to list family members", "error", err)
		return []OwnerView{}
	}

	views := make([]OwnerView, 0, len(members))
	for _, m := range members {
		views = append(views, OwnerView{ID: m.ID, Name: m.Name, Image: m.Image})
	}
	return views
}

func (s *familyService) withMembers(familyID string) (*models.Family, error) {
	var family models.Family
	err := s.db.Preload("Users", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "image", "email", "family_id")
	}).First(&family, "id = ?", familyID).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &family, nil
}

// generateInviteCode draws a random code, retrying on the unlikely collision
// with an existing family.
func (s *familyService) generateInviteCode() (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		buf := make([]byte, inviteCodeLength)
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for i := range buf {
			buf[i] = inviteCodeAlphabet[int(buf[i])%len(inviteCodeAlphabet)]
		}
		code := string(buf)

		var count int64
		if err := s.db.Model(&models.Family{}).Where("invite_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique invite code")
}
