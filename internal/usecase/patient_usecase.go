package usecase

import (
	"context"
	"errors"

	"mon-mentale-api/internal/converter"
	"mon-mentale-api/internal/delivery/dto"
	"mon-mentale-api/internal/domain/entity"
	"mon-mentale-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrProfileNotOwned = errors.New("profile does not belong to you")
)

type PatientUsecase interface {
	GetPatient(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error)
	UpdatePatient(ctx context.Context, callerID, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error)
}

type patientUsecase struct {
	db       *gorm.DB
	log      *logrus.Logger
	userRepo repository.UserRepository
}

func NewPatientUsecase(db *gorm.DB, log *logrus.Logger, userRepo repository.UserRepository) PatientUsecase {
	return &patientUsecase{
		db:       db,
		log:      log,
		userRepo: userRepo,
	}
}

func (u *patientUsecase) GetPatient(ctx context.Context, id uuid.UUID) (*dto.PatientResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return nil, err
	}
	if user == nil || user.Role != entity.RolePatient {
		return nil, ErrPatientNotFound
	}
	return converter.UserToPatientResponse(user), nil
}

// UpdatePatient updates a patient profile. Only the owner or an admin may
// modify it; the route layer enforces authentication, ownership lives here.
func (u *patientUsecase) UpdatePatient(ctx context.Context, callerID, id uuid.UUID, req *dto.UpdatePatientRequest) (*dto.PatientResponse, error) {
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", id, err)
		return nil, err
	}
	if user == nil || user.Role != entity.RolePatient {
		return nil, ErrPatientNotFound
	}

	if callerID != id {
		caller, err := u.userRepo.FindByID(u.db.WithContext(ctx), callerID)
		if err != nil {
			return nil, err
		}
		if caller == nil || !caller.IsAdmin() {
			return nil, ErrProfileNotOwned
		}
	}

	if profile := req.Profile; profile != nil {
		if profile.FirstName != "" {
			user.FirstName = profile.FirstName
		}
		if profile.LastName != "" {
			user.LastName = profile.LastName
		}
		if profile.Phone != "" {
			user.Phone = profile.Phone
		}
	}

	if err := u.userRepo.Update(u.db.WithContext(ctx), user); err != nil {
		u.log.Warnf("Failed to update patient %s: %+v", id, err)
		return nil, err
	}

	return converter.UserToPatientResponse(user), nil
}
