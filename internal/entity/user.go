package entity

import "time"

// User is the persisted shape, Password carries the bcrypt hash so it
// survives the document store round trip. API responses use
// auth.UserResponse instead of this struct.
type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"created_at"`
}

type UserLoginData struct {
	ID       string
	Username string
	Email    string
}
