package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "chitieu/internal/errors"
	"chitieu/internal/models"
)

// scopeResolver resolves the effective visible user-id set for a request.
type scopeResolver struct {
	db *gorm.DB
}

// NewScopeResolver creates a new ScopeResolver.
func NewScopeResolver(db *gorm.DB) ScopeResolver {
	return &scopeResolver{db: db}
}

// Resolve implements ScopeResolver. An empty returned slice means the query
// must produce no rows; callers never widen it.
func (s *scopeResolver) Resolve(userID string, scope Scope, memberID string) ([]string, error) {
	if scope != ScopeFamily {
		return []string{userID}, nil
	}

	var user models.User
	if err := s.db.Select("id", "family_id").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Family scope without a family falls back to personal, never errors.
	if user.FamilyID == nil {
		return []string{userID}, nil
	}

	if memberID != "" && memberID != "all" {
		var count int64
		if err := s.db.Model(&models.User{}).
			Where("id = ? AND family_id = ?", memberID, *user.FamilyID).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		// A member outside the caller's family yields an empty set.
		if count == 0 {
			return []string{}, nil
		}
		return []string{memberID}, nil
	}

	var memberIDs []string
	if err := s.db.Model(&models.User{}).
		Where("family_id = ?", *user.FamilyID).
		Pluck("id", &memberIDs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return memberIDs, nil
}
