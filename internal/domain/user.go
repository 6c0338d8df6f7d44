package domain

// Profile represents the logged in user as kept in the auth mirror
type Profile struct {
	Name    string `json:"name" validate:"required,min=2,max=255"`
	Country string `json:"country" validate:"required,min=1,max=16"`
	Phone   string `json:"phone" validate:"required,min=10,max=32"`
}

// OTPRequest represents a login attempt before the code is sent
type OTPRequest struct {
	Profile
}

// OTPVerify represents the code submission step of the login flow
type OTPVerify struct {
	Profile
	OTP string `json:"otp" validate:"required,numeric"`
}

// AuthState mirrors what the auth collaborator keeps in storage
type AuthState struct {
	Authenticated bool     `json:"authenticated"`
	User          *Profile `json:"user,omitempty"`
}

// LoginResult is returned after a successful verification
type LoginResult struct {
	AccessToken string  `json:"access_token"`
	ExpiresIn   int64   `json:"expires_in"`
	User        Profile `json:"user"`
}
