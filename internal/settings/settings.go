package settings

import (
	"time"

	settingDatamodel "github.com/campussrc/src-portal/internal/core/datamodel/setting"
)

// Setting is a single portal configuration entry keyed by name.
type Setting struct {
	ID        int64     `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedBy int64     `json:"updated_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromDataModel(s *settingDatamodel.Setting) *Setting {
	return &Setting{
		ID:        s.ID,
		Key:       s.Key,
		Value:     s.Value,
		UpdatedBy: s.UpdatedBy,
		UpdatedAt: s.UpdatedAt,
	}
}
