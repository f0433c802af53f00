package dto

// ProfileResponse for GET /api/profile
type ProfileResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateProfileRequest for PUT /api/profile
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Email string `json:"email" binding:"required,email"`
}

// ChangePasswordRequest for POST /api/change-password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}
