package converter

import (
	"medibook/internal/delivery/dto"
	"medibook/internal/domain/entity"
)

func UserToResponse(user *entity.User, roleName string) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      roleName,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
