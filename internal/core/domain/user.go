package domain

import (
	"errors"
	"time"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("email already exists")
var ErrUsernameTaken = errors.New("username already taken")
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleTeacher
}

// SocialLinks holds a user's optional external profile URLs.
type SocialLinks struct {
	LinkedIn  string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty" bson:"github,omitempty"`
	Portfolio string `json:"portfolio,omitempty" bson:"portfolio,omitempty"`
	Twitter   string `json:"twitter,omitempty" bson:"twitter,omitempty"`
}

// User models an authenticated actor. Email is the identity key; username is
// optional but unique when set. The password hash never serializes to JSON.
type User struct {
	ID                string      `json:"id"`
	Email             string      `json:"email"`
	PasswordHash      string      `json:"-"`
	Name              string      `json:"name,omitempty"`
	Username          string      `json:"username,omitempty"`
	Bio               string      `json:"bio,omitempty"`
	Role              string      `json:"role"`
	SocialLinks       SocialLinks `json:"socialLinks"`
	ProfilePictureURL string      `json:"profilePictureUrl,omitempty"`
	ProfileImage      string      `json:"profileImage,omitempty"`
	ResumeURL         string      `json:"resumeUrl,omitempty"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
}

// PublicProfile is the view of a user exposed to other users. It carries no
// credential material.
type PublicProfile struct {
	ID                string      `json:"id"`
	Name              string      `json:"name,omitempty"`
	Username          string      `json:"username,omitempty"`
	Bio               string      `json:"bio,omitempty"`
	Role              string      `json:"role"`
	SocialLinks       SocialLinks `json:"socialLinks"`
	ProfilePictureURL string      `json:"profilePictureUrl,omitempty"`
	ProfileImage      string      `json:"profileImage,omitempty"`
	ResumeURL         string      `json:"resumeUrl,omitempty"`
	CreatedAt         time.Time   `json:"createdAt"`
}

// Public strips credential material from a User.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:                u.ID,
		Name:              u.Name,
		Username:          u.Username,
		Bio:               u.Bio,
		Role:              u.Role,
		SocialLinks:       u.SocialLinks,
		ProfilePictureURL: u.ProfilePictureURL,
		ProfileImage:      u.ProfileImage,
		ResumeURL:         u.ResumeURL,
		CreatedAt:         u.CreatedAt,
	}
}
