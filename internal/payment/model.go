package payment

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Record is a payments collection document, written once a Stripe payment
// succeeds.
type Record struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UserID           string             `bson:"userId" json:"userId"`
	UserName         string             `bson:"userName,omitempty" json:"userName,omitempty"`
	UserProfileImage string             `bson:"userProfileImage,omitempty" json:"userProfileImage,omitempty"`
	ServiceID        string             `bson:"serviceId" json:"serviceId"`
	ServiceName      string             `bson:"serviceName,omitempty" json:"serviceName,omitempty"`
	Amount           float64            `bson:"amount" json:"amount"`
	TransactionID    string             `bson:"transactionId" json:"transactionId"`
	Status           string             `bson:"status" json:"status"`
	Date             time.Time          `bson:"date" json:"date"`
	Method           string             `bson:"method" json:"method"`
	OrderStatus      string             `bson:"orderStatus,omitempty" json:"orderStatus,omitempty"`
}

type IntentRequest struct {
	Price     float64 `json:"price"`
	ServiceID string  `json:"serviceId"`
	UserID    string  `json:"userId"`
}

type IntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type SuccessRequest struct {
	UserID           string  `json:"userId"`
	UserName         string  `json:"userName"`
	UserProfileImage string  `json:"userProfileImage"`
	ServiceName      string  `json:"serviceName"`
	ServiceID        string  `json:"serviceId"`
	Amount           float64 `json:"amount"`
	TransactionID    string  `json:"transactionId"`
	Status           string  `json:"status"`
	OrderStatus      string  `json:"orderStatus"`
}
