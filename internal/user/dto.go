// AngelaMos | 2026
// dto.go

package user

type RegisterRequest struct {
	Email     string `json:"email"     validate:"required,email,max=255"`
	FirstName string `json:"firstName" validate:"required,min=1,max=64"`
	LastName  string `json:"lastName"  validate:"required,min=1,max=64"`
	Password  string `json:"password"  validate:"required,min=6,max=128"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type UpdateUserRequest struct {
	Email           *string `json:"email,omitempty"           validate:"omitempty,email,max=255"`
	FirstName       *string `json:"firstName,omitempty"       validate:"omitempty,min=1,max=64"`
	LastName        *string `json:"lastName,omitempty"        validate:"omitempty,min=1,max=64"`
	Password        *string `json:"password,omitempty"        validate:"omitempty,min=6,max=128"`
	CurrentPassword *string `json:"currentPassword,omitempty" validate:"omitempty,min=6,max=128"`
}

type RegisterResponse struct {
	UserID int64 `json:"userId"`
}

type LoginResponse struct {
	UserID int64  `json:"userId"`
	Token  string `json:"token"`
}

// UserResponse is the public view. Email is populated only when the
// requester is viewing their own profile.
type UserResponse struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
}

func ToUserResponse(u *User, includeEmail bool) UserResponse {
	resp := UserResponse{
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
	if includeEmail {
		resp.Email = u.Email
	}
	return resp
}
