package usecase

import (
	"context"
	"errors"
	"math"

	"mon-mentale-api/internal/converter"
	"mon-mentale-api/internal/delivery/dto"
	"mon-mentale-api/internal/domain/entity"
	"mon-mentale-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrLicenseAlreadyExists = errors.New("license number already exists")
	ErrProfileAlreadyExists = errors.New("user already has a practitioner profile")
	ErrUserNotPractitioner  = errors.New("user does not hold a practitioner role")
	ErrCoordinatesRequired  = errors.New("latitude and longitude are required")
)

type PractitionerUsecase interface {
	ListPractitioners(ctx context.Context, filter *entity.PractitionerFilter) (*dto.PractitionerListResponse, error)
	GetPractitioner(ctx context.Context, id uuid.UUID) (*dto.PractitionerResponse, error)
	GetPractitionerByUserID(ctx context.Context, userID uuid.UUID) (*dto.PractitionerResponse, error)
	CreatePractitioner(ctx context.Context, req *dto.CreatePractitionerRequest) (*dto.PractitionerResponse, error)
	UpdatePractitioner(ctx context.Context, id uuid.UUID, req *dto.UpdatePractitionerRequest) (*dto.PractitionerResponse, error)
	SearchNearby(ctx context.Context, latitude, longitude float64, maxDistanceMeters int) ([]dto.PractitionerResponse, error)
}

type practitionerUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	practitionerRepo repository.PractitionerRepository
	userRepo         repository.UserRepository
}

func NewPractitionerUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	practitionerRepo repository.PractitionerRepository,
	userRepo repository.UserRepository,
) PractitionerUsecase {
	return &practitionerUsecase{
		db:               db,
		log:              log,
		practitionerRepo: practitionerRepo,
		userRepo:         userRepo,
	}
}

func (u *practitionerUsecase) ListPractitioners(ctx context.Context, filter *entity.PractitionerFilter) (*dto.PractitionerListResponse, error) {
	practitioners, total, err := u.practitionerRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list practitioners: %+v", err)
		return nil, err
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

	return &dto.PractitionerListResponse{
		Practitioners: converter.PractitionersToResponses(practitioners),
		TotalPages:    int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage:   page,
		Total:         total,
	}, nil
}

func (u *practitionerUsecase) GetPractitioner(ctx context.Context, id uuid.UUID) (*dto.PractitionerResponse, error) {
	practitioner, err := u.practitionerRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find practitioner %s: %+v", id, err)
		return nil, err
	}
	if practitioner == nil {
		return nil, ErrPractitionerNotFound
	}
	return converter.PractitionerToResponse(practitioner), nil
}

// GetPractitionerByUserID resolves the profile belonging to a user account.
// Appointments and payments reference the profile id, not the user id, so
// practitioner-scoped reads go through this lookup first.
func (u *practitionerUsecase) GetPractitionerByUserID(ctx context.Context, userID uuid.UUID) (*dto.PractitionerResponse, error) {
	practitioner, err := u.practitionerRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find practitioner for user %s: %+v", userID, err)
		return nil, err
	}
	if practitioner == nil {
		return nil, ErrPractitionerNotFound
	}
	return converter.PractitionerToResponse(practitioner), nil
}

func (u *practitionerUsecase) CreatePractitioner(ctx context.Context, req *dto.CreatePractitionerRequest) (*dto.PractitionerResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), req.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user %s: %+v", req.UserID, err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsPractitioner() {
		return nil, ErrUserNotPractitioner
	}

	practitioner := &entity.Practitioner{
		UserID:               user.ID,
		Specializations:      req.Specializations,
		LicenseNumber:        req.ProfessionalInfo.LicenseNumber,
		University:           req.ProfessionalInfo.University,
		GraduationYear:       req.ProfessionalInfo.GraduationYear,
		Experience:           req.ProfessionalInfo.Experience,
		Languages:            req.ProfessionalInfo.Languages,
		Description:          req.ProfessionalInfo.Description,
		Approach:             req.ProfessionalInfo.Approach,
		Street:               req.Practice.Address.Street,
		City:                 req.Practice.Address.City,
		PostalCode:           req.Practice.Address.PostalCode,
		Country:              req.Practice.Address.Country,
		ConsultationTypes:    req.Practice.ConsultationTypes,
		Prices: entity.ConsultationPrices{
			Consultation:     req.Practice.Prices.Consultation,
			Teleconsultation: req.Practice.Prices.Teleconsultation,
			Domicile:         req.Practice.Prices.Domicile,
		},
		Availability:         converter.AvailabilityFromDTO(req.Practice.Availability),
		ConsultationDuration: req.Practice.ConsultationDuration,
		BreakDuration:        req.Practice.BreakDuration,
		IsActive:             true,
	}
	if practitioner.ConsultationDuration == 0 {
		practitioner.ConsultationDuration = 45
	}
	if practitioner.BreakDuration == 0 {
		practitioner.BreakDuration = 15
	}
	if coords := req.Practice.Address.Coordinates; coords != nil {
		practitioner.Latitude = &coords.Latitude
		practitioner.Longitude = &coords.Longitude
	}

	if err := u.practitionerRepo.Create(u.db.WithContext(ctx), practitioner); err != nil {
		if isDuplicateKeyError(err, "license_number") {
			return nil, ErrLicenseAlreadyExists
		}
		if isDuplicateKeyError(err, "user_id") {
			return nil, ErrProfileAlreadyExists
		}
		u.log.Warnf("Failed to create practitioner: %+v", err)
		return nil, err
	}

	u.log.Infof("Practitioner created: id=%s, user=%s", practitioner.ID, user.ID)
	practitioner.User = *user
	return converter.PractitionerToResponse(practitioner), nil
}

func (u *practitionerUsecase) UpdatePractitioner(ctx context.Context, id uuid.UUID, req *dto.UpdatePractitionerRequest) (*dto.PractitionerResponse, error) {
	practitioner, err := u.practitionerRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find practitioner %s: %+v", id, err)
		return nil, err
	}
	if practitioner == nil {
		return nil, ErrPractitionerNotFound
	}

	applyPractitionerUpdate(practitioner, req)

	if err := u.practitionerRepo.Update(u.db.WithContext(ctx), practitioner); err != nil {
		if isDuplicateKeyError(err, "license_number") {
			return nil, ErrLicenseAlreadyExists
		}
		u.log.Warnf("Failed to update practitioner %s: %+v", id, err)
		return nil, err
	}

	return converter.PractitionerToResponse(practitioner), nil
}

// applyPractitionerUpdate merges the supplied fields onto the profile.
// Omitted fields keep their stored value; in particular an update that only
// touches prices or the address must not wipe the availability windows.
func applyPractitionerUpdate(practitioner *entity.Practitioner, req *dto.UpdatePractitionerRequest) {
	if len(req.Specializations) > 0 {
		practitioner.Specializations = req.Specializations
	}
	if info := req.ProfessionalInfo; info != nil {
		if info.LicenseNumber != "" {
			practitioner.LicenseNumber = info.LicenseNumber
		}
		if info.University != "" {
			practitioner.University = info.University
		}
		if info.GraduationYear != 0 {
			practitioner.GraduationYear = info.GraduationYear
		}
		if info.Experience != 0 {
			practitioner.Experience = info.Experience
		}
		if len(info.Languages) > 0 {
			practitioner.Languages = info.Languages
		}
		if info.Description != "" {
			practitioner.Description = info.Description
		}
		if info.Approach != "" {
			practitioner.Approach = info.Approach
		}
	}
	if practice := req.Practice; practice != nil {
		if practice.Address.Street != "" {
			practitioner.Street = practice.Address.Street
		}
		if practice.Address.City != "" {
			practitioner.City = practice.Address.City
		}
		if practice.Address.PostalCode != "" {
			practitioner.PostalCode = practice.Address.PostalCode
		}
		if practice.Address.Country != "" {
			practitioner.Country = practice.Address.Country
		}
		if coords := practice.Address.Coordinates; coords != nil {
			practitioner.Latitude = &coords.Latitude
			practitioner.Longitude = &coords.Longitude
		}
		if len(practice.ConsultationTypes) > 0 {
			practitioner.ConsultationTypes = practice.ConsultationTypes
		}
		if practice.Prices.Consultation > 0 {
			practitioner.Prices = entity.ConsultationPrices{
				Consultation:     practice.Prices.Consultation,
				Teleconsultation: practice.Prices.Teleconsultation,
				Domicile:         practice.Prices.Domicile,
			}
		}
		if availability := converter.AvailabilityFromDTO(practice.Availability); availability.HasWindows() {
			practitioner.Availability = availability
		}
		if practice.ConsultationDuration > 0 {
			practitioner.ConsultationDuration = practice.ConsultationDuration
		}
		if practice.BreakDuration > 0 {
			practitioner.BreakDuration = practice.BreakDuration
		}
	}
	if req.IsActive != nil {
		practitioner.IsActive = *req.IsActive
	}
}

func (u *practitionerUsecase) SearchNearby(ctx context.Context, latitude, longitude float64, maxDistanceMeters int) ([]dto.PractitionerResponse, error) {
	if maxDistanceMeters <= 0 {
		maxDistanceMeters = 10000
	}

	practitioners, err := u.practitionerRepo.FindNearby(u.db.WithContext(ctx), latitude, longitude, maxDistanceMeters)
	if err != nil {
		u.log.Warnf("Failed nearby search at (%f, %f): %+v", latitude, longitude, err)
		return nil, err
	}
	return converter.PractitionersToResponses(practitioners), nil
}
