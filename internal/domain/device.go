package domain

import "time"

// Platform is the operating system a device registered its push token from.
type Platform string

const (
	PlatformAndroid Platform = "ANDROID"
	PlatformIOS     Platform = "IOS"
)

// Device is a push endpoint. Token is the dedup key.
type Device struct {
	DeviceID  string    `json:"id" dynamodbav:"device_id"`
	Token     string    `json:"token" dynamodbav:"token"`
	Platform  Platform  `json:"platform" dynamodbav:"platform"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"created_at"`
}

type RegisterTokenRequest struct {
	Token    string   `json:"token" validate:"required"`
	Platform Platform `json:"platform" validate:"required,oneof=ANDROID IOS"`
}
