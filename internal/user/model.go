package user

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is the users collection document. Username doubles as the email
// address.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name              string             `bson:"name" json:"name"`
	Username          string             `bson:"username" json:"username"`
	Password          string             `bson:"password" json:"-"`
	IsVerified        bool               `bson:"isVerified" json:"isVerified"`
	VerificationToken string             `bson:"verificationToken,omitempty" json:"-"`
	ResetToken        string             `bson:"resetToken,omitempty" json:"-"`
	Role              string             `bson:"role,omitempty" json:"role,omitempty"`
	ModeratorRole     string             `bson:"moderatorRole,omitempty" json:"moderatorRole,omitempty"`
	ProfileImage      string             `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	Number            string             `bson:"number,omitempty" json:"number,omitempty"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// Profile is the identity projection returned by /me and /client-data.
type Profile struct {
	UserID        string `json:"userId"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Number        string `json:"number,omitempty"`
	ProfileImage  string `json:"profileImage,omitempty"`
	Role          string `json:"role,omitempty"`
	ModeratorRole string `json:"moderatorRole,omitempty"`
}
