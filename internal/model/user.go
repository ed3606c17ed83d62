package model

// UserAccount is the service-side record for a signed-in user. It is the
// response body of both the login-sync and the settings endpoints.
type UserAccount struct {
	// ID is the service-assigned user identifier.
	ID int64 `json:"id"`

	// GoogleID is the stable subject identifier from the sign-in provider.
	GoogleID string `json:"googleId"`

	// FullName is the user's display name.
	FullName string `json:"fullName"`

	// Email is the address alert notifications are sent to.
	Email string `json:"email"`

	// NotificationEnabled controls whether the service emails alerts
	// to this user. The service owns this value; the client only
	// reflects it and requests changes.
	NotificationEnabled bool `json:"notificationEnabled"`

	// CreatedAt is the account creation date (YYYY-MM-DD).
	CreatedAt string `json:"createdAt"`

	// LastLoginAt is the most recent login date (YYYY-MM-DD).
	LastLoginAt string `json:"lastLoginAt"`
}

// Preference is the request body for updating notification settings.
type Preference struct {
	NotificationEnabled bool `json:"notificationEnabled"`
}
