package entity

import (
	"time"

	"github.com/google/uuid"
)

// ConsultationType matches the values the mobile and web clients send.
type ConsultationType string

const (
	ConsultationPresentiel       ConsultationType = "presentiel"
	ConsultationTeleconsultation ConsultationType = "teleconsultation"
	ConsultationDomicile         ConsultationType = "domicile"
)

// IsValidConsultationType reports whether s is a known consultation type.
func IsValidConsultationType(s string) bool {
	switch ConsultationType(s) {
	case ConsultationPresentiel, ConsultationTeleconsultation, ConsultationDomicile:
		return true
	}
	return false
}

// TimeRange is a single availability window within a day, "HH:MM" local times.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeeklyAvailability holds the practitioner's recurring availability windows
// per weekday. Stored as a jsonb column; read-only input to the conflict
// checker, never mutated by bookings.
type WeeklyAvailability struct {
	Monday    []TimeRange `json:"monday,omitempty"`
	Tuesday   []TimeRange `json:"tuesday,omitempty"`
	Wednesday []TimeRange `json:"wednesday,omitempty"`
	Thursday  []TimeRange `json:"thursday,omitempty"`
	Friday    []TimeRange `json:"friday,omitempty"`
	Saturday  []TimeRange `json:"saturday,omitempty"`
	Sunday    []TimeRange `json:"sunday,omitempty"`
}

// HasWindows reports whether any weekday carries at least one window.
func (a WeeklyAvailability) HasWindows() bool {
	for _, day := range [][]TimeRange{a.Monday, a.Tuesday, a.Wednesday, a.Thursday, a.Friday, a.Saturday, a.Sunday} {
		if len(day) > 0 {
			return true
		}
	}
	return false
}

// ConsultationPrices is the per-consultation-type price list in euros.
type ConsultationPrices struct {
	Consultation     float64 `json:"consultation"`
	Teleconsultation float64 `json:"teleconsultation,omitempty"`
	Domicile         float64 `json:"domicile,omitempty"`
}

// Practitioner represents a professional profile owned by exactly one User
type Practitioner struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`

	Specializations []string `gorm:"type:jsonb;serializer:json" json:"specializations"`

	// Professional info
	LicenseNumber  string   `gorm:"type:varchar(50);uniqueIndex;not null" json:"licenseNumber"`
	University     string   `gorm:"type:varchar(255)" json:"university,omitempty"`
	GraduationYear int      `json:"graduationYear,omitempty"`
	Experience     int      `json:"experience"`
	Languages      []string `gorm:"type:jsonb;serializer:json" json:"languages,omitempty"`
	Description    string   `gorm:"type:text" json:"description,omitempty"`
	Approach       string   `gorm:"type:text" json:"approach,omitempty"`

	// Practice address, flattened for filtering and geo queries
	Street     string   `gorm:"type:varchar(255)" json:"street,omitempty"`
	City       string   `gorm:"type:varchar(100);index" json:"city,omitempty"`
	PostalCode string   `gorm:"type:varchar(20)" json:"postalCode,omitempty"`
	Country    string   `gorm:"type:varchar(100);default:'France'" json:"country,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`

	ConsultationTypes    []string           `gorm:"type:jsonb;serializer:json" json:"consultationTypes"`
	Prices               ConsultationPrices `gorm:"type:jsonb;serializer:json" json:"prices"`
	Availability         WeeklyAvailability `gorm:"type:jsonb;serializer:json" json:"availability"`
	ConsultationDuration int                `gorm:"not null;default:45" json:"consultationDuration"`
	BreakDuration        int                `gorm:"not null;default:15" json:"breakDuration"`

	// Verification
	IsVerified bool       `gorm:"not null;default:false;index" json:"isVerified"`
	VerifiedAt *time.Time `json:"verifiedAt,omitempty"`

	// Aggregate statistics
	TotalAppointments int     `gorm:"not null;default:0" json:"totalAppointments"`
	TotalPatients     int     `gorm:"not null;default:0" json:"totalPatients"`
	AverageRating     float64 `gorm:"not null;default:0" json:"averageRating"`
	TotalReviews      int     `gorm:"not null;default:0" json:"totalReviews"`

	// Payment gateway connected account
	StripeAccountID string `gorm:"type:varchar(100)" json:"stripeAccountId,omitempty"`

	IsActive  bool      `gorm:"not null;default:true;index" json:"isActive"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Practitioner) TableName() string {
	return "practitioners"
}

// PractitionerFilter is a domain-level filter for querying practitioners.
// Used by the repository layer to avoid coupling with delivery DTOs.
type PractitionerFilter struct {
	Specialization   string
	City             string // ILIKE match
	ConsultationType string
	Page             int
	Limit            int
}
