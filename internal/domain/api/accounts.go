package api

import (
	"context"
	"net/http"

	"storefront-go/internal/domain/session/model"
)

// AuthPayload is the authentication object returned by login, registration
// and OTP verification endpoints.
type AuthPayload struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	OTPToken     string      `json:"otpVerificationToken,omitempty"`
	User         *model.User `json:"user,omitempty"`
}

// RegisterRequest completes account creation after OTP verification.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// Login authenticates with email and password and establishes the session.
func (c *Client) Login(ctx context.Context, email, password string) (*model.User, error) {
	var payload AuthPayload
	err := c.call(ctx, http.MethodPost, PathLogin, map[string]string{
		"email":    email,
		"password": password,
	}, &payload)
	if err != nil {
		return nil, err
	}
	if err := c.session.Establish(ctx, payload.AccessToken, payload.RefreshToken, payload.User); err != nil {
		return nil, err
	}
	return payload.User, nil
}

// Register completes account creation. The request goes out under the OTP
// verification token; success yields a full session and retires the OTP
// credential.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	var payload AuthPayload
	if err := c.call(ctx, http.MethodPost, c.routes.Register, req, &payload); err != nil {
		return nil, err
	}
	if err := c.session.Establish(ctx, payload.AccessToken, payload.RefreshToken, payload.User); err != nil {
		return nil, err
	}
	if err := c.session.ClearOTPToken(ctx); err != nil {
		c.logger.Warn("failed clearing otp token after registration: %v", err)
	}
	return payload.User, nil
}

// SendOTP asks the backend to mail a one-time code to the address.
func (c *Client) SendOTP(ctx context.Context, email string) error {
	return c.call(ctx, http.MethodPost, PathOTPSend, map[string]string{"email": email}, nil)
}

// VerifyOTP exchanges a one-time code for the narrowly scoped OTP token.
// Verification alone does not authenticate the user.
func (c *Client) VerifyOTP(ctx context.Context, email, code string) error {
	var payload AuthPayload
	err := c.call(ctx, http.MethodPost, PathOTPVerify, map[string]string{
		"email": email,
		"code":  code,
	}, &payload)
	if err != nil {
		return err
	}
	return c.session.SetOTPToken(ctx, payload.OTPToken)
}

// ResetPassword completes a password reset under the OTP token and retires
// the credential on success.
func (c *Client) ResetPassword(ctx context.Context, email, newPassword string) error {
	err := c.call(ctx, http.MethodPost, c.routes.PasswordReset, map[string]string{
		"email":    email,
		"password": newPassword,
	}, nil)
	if err != nil {
		return err
	}
	return c.session.ClearOTPToken(ctx)
}

// ChangePassword lets a logged-in user rotate their password. This goes
// out under the access token; only the reset flow uses the OTP credential.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	return c.call(ctx, http.MethodPost, PathPasswordChange, map[string]string{
		"current_password": currentPassword,
		"new_password":     newPassword,
	}, nil)
}

// Profile fetches the account profile and refreshes the cached copy.
func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.call(ctx, http.MethodGet, PathProfile, nil, &user); err != nil {
		return nil, err
	}
	if err := c.session.SetUser(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout tells the backend to revoke the session, then clears it locally.
// The server call is best effort: the local session is cleared regardless.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.call(Silent(ctx), http.MethodPost, PathLogout, nil, nil); err != nil {
		c.logger.Debug("server logout failed, clearing locally: %v", err)
	}
	return c.session.Logout(ctx)
}
