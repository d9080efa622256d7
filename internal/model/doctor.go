package model

import (
	"github.com/lib/pq"
)

// Doctor is a consulting Ayurvedic practitioner listed in the booking catalog.
// ConsultationFee is in whole rupees; conversion to paise happens at the
// payment boundary.
type Doctor struct {
	Base
	Name            string         `db:"name" json:"name"`
	Specialty       string         `db:"specialty" json:"specialty"`
	Qualifications  string         `db:"qualifications" json:"qualifications"`
	ExperienceYears int            `db:"experience_years" json:"experience_years"`
	ConsultationFee int            `db:"consultation_fee" json:"consultation_fee"`
	Bio             string         `db:"bio" json:"bio,omitempty"`
	Languages       pq.StringArray `db:"languages" json:"languages"`
	IsAvailable     bool           `db:"is_available" json:"is_available"`
}

type UpdateDoctorAvailabilityRequest struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}
