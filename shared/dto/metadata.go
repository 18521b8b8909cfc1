package dto

import (
	"time"

	"lodge/shared/constant"
	"lodge/shared/model"
	"lodge/shared/timezone"
)

// Metadata is the audit trail rendered on responses, timestamps in the application timezone.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
	CreatedBy  string `json:"created_by,omitempty"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

func timestamp(at time.Time) string {
	if at.IsZero() {
		return constant.Empty
	}

	return timezone.Format(at, constant.DateFormat)
}

func (m *Metadata) FromModel(metadata model.Metadata) {
	*m = Metadata{
		CreatedAt:  timestamp(metadata.CreatedAt),
		ModifiedAt: timestamp(metadata.ModifiedAt),
		CreatedBy:  metadata.CreatedBy,
		ModifiedBy: metadata.ModifiedBy,
	}
}
