package repository

import (
	"errors"
	"fmt"

	"mon-mentale-api/internal/domain/entity"
	domainRepo "mon-mentale-api/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type practitionerRepository struct{}

func NewPractitionerRepository() domainRepo.PractitionerRepository {
	return &practitionerRepository{}
}

func (r *practitionerRepository) Create(db *gorm.DB, practitioner *entity.Practitioner) error {
	return db.Create(practitioner).Error
}

func (r *practitionerRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Practitioner, error) {
	var practitioner entity.Practitioner
	err := db.Preload("User").Where("id = ?", id).First(&practitioner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &practitioner, nil
}

func (r *practitionerRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Practitioner, error) {
	var practitioner entity.Practitioner
	err := db.Where("user_id = ?", userID).First(&practitioner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &practitioner, nil
}

func (r *practitionerRepository) FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Practitioner, error) {
	var practitioner entity.Practitioner
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&practitioner).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &practitioner, nil
}

// FindAll returns verified, active practitioners ordered by rating, with
// optional specialization/city/consultation-type filters and paging.
func (r *practitionerRepository) FindAll(db *gorm.DB, filter *entity.PractitionerFilter) ([]entity.Practitioner, int64, error) {
	query := db.Model(&entity.Practitioner{}).
		Where("is_active = ? AND is_verified = ?", true, true)

	if filter != nil {
		if filter.Specialization != "" {
			query = query.Where("specializations @> ?", fmt.Sprintf("[%q]", filter.Specialization))
		}
		if filter.City != "" {
			query = query.Where("city ILIKE ?", "%"+filter.City+"%")
		}
		if filter.ConsultationType != "" {
			query = query.Where("consultation_types @> ?", fmt.Sprintf("[%q]", filter.ConsultationType))
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := 1, 10
	if filter != nil {
		if filter.Page > 0 {
			page = filter.Page
		}
		if filter.Limit > 0 {
			limit = filter.Limit
		}
	}

	var practitioners []entity.Practitioner
	err := query.
		Preload("User").
		Order("average_rating DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&practitioners).Error
	if err != nil {
		return nil, 0, err
	}
	return practitioners, total, nil
}

// FindNearby returns verified, active practitioners within maxDistanceMeters
// of the given point, closest first, using a haversine distance in SQL.
func (r *practitionerRepository) FindNearby(db *gorm.DB, latitude, longitude float64, maxDistanceMeters int) ([]entity.Practitioner, error) {
	const haversine = `6371000 * acos(least(1.0,
		cos(radians(?)) * cos(radians(latitude)) * cos(radians(longitude) - radians(?)) +
		sin(radians(?)) * sin(radians(latitude))))`

	var practitioners []entity.Practitioner
	err := db.
		Where("is_active = ? AND is_verified = ?", true, true).
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Where(haversine+" <= ?", latitude, longitude, latitude, maxDistanceMeters).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                haversine + " ASC",
			Vars:               []interface{}{latitude, longitude, latitude},
			WithoutParentheses: true,
		}}).
		Preload("User").
		Find(&practitioners).Error
	if err != nil {
		return nil, err
	}
	return practitioners, nil
}

func (r *practitionerRepository) Update(db *gorm.DB, practitioner *entity.Practitioner) error {
	return db.Omit("User").Save(practitioner).Error
}
