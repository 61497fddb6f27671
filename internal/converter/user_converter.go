package converter

import (
	"mon-mentale-api/internal/delivery/dto"
	"mon-mentale-api/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		Role:       string(user.Role),
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Phone:      user.Phone,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
		UpdatedAt:  user.UpdatedAt,
	}
}

// UserToPatientResponse converts a patient User to the profile shape the
// clients read on GET /api/patients/:id
func UserToPatientResponse(user *entity.User) *dto.PatientResponse {
	if user == nil {
		return nil
	}
	return &dto.PatientResponse{
		ID:    user.ID,
		Email: user.Email,
		Profile: dto.PatientProfileDTO{
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Phone:     user.Phone,
		},
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
	}
}
