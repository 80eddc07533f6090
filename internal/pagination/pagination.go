package pagination

import "gorm.io/gorm"

const (
	defaultLimit = 20
	maxLimit     = 100
)

// ListRequest holds limit/offset parameters parsed from query strings.
type ListRequest struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// Defaults fills in default values when limit is not provided and caps it.
func (r *ListRequest) Defaults() {
	if r.Limit == 0 {
		r.Limit = defaultLimit
	}
	if r.Limit > maxLimit {
		r.Limit = maxLimit
	}
}

// Scope returns a GORM scope that applies OFFSET and LIMIT for the request.
func Scope(req ListRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Offset).Limit(req.Limit)
	}
}
