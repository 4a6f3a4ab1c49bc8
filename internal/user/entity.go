// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID            int64     `db:"id"`
	Email         string    `db:"email"`
	FirstName     string    `db:"first_name"`
	LastName      string    `db:"last_name"`
	PasswordHash  string    `db:"password_hash"`
	AuthTokenHash *string   `db:"auth_token_hash"`
	ImageFilename *string   `db:"image_filename"`
	CreatedAt     time.Time `db:"created_at"`
}

func (u *User) HasImage() bool {
	return u.ImageFilename != nil && *u.ImageFilename != ""
}
