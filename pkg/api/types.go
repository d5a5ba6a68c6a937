package api

import (
	"github.com/abhaysharma1/Acquisitions/pkg/users"
)

// signupRequest is the POST /signup body
type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// signinRequest is the POST /signin body
type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// updateUserRequest is the PUT /users/{id} body. Pointer fields distinguish
// "absent" from "set to empty"; only these three fields are mutable.
type updateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

// authUserView is the trimmed user shape returned by signup/signin
type authUserView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toAuthUserView(p users.Projection) authUserView {
	return authUserView{ID: p.ID, Name: p.Name, Email: p.Email, Role: string(p.Role)}
}

// messageResponse is a bare acknowledgement body
type messageResponse struct {
	Message string `json:"message"`
}

// userResponse wraps a single user payload
type userResponse struct {
	Message string      `json:"message"`
	User    interface{} `json:"user"`
}

// usersResponse wraps the directory listing
type usersResponse struct {
	Message string             `json:"message"`
	Users   []users.Projection `json:"users"`
	Count   int                `json:"count"`
}
