package api

import (
	"net/url"
	"strings"
)

// Endpoint paths of the storefront backend.
const (
	PathLogin          = "/api/v1/auth/login"
	PathRegister       = "/api/v1/auth/register"
	PathOTPSend        = "/api/v1/auth/otp/send"
	PathOTPVerify      = "/api/v1/auth/otp/verify"
	PathPasswordReset  = "/api/v1/auth/password/reset"
	PathPasswordChange = "/api/v1/auth/password/change"
	PathProfile        = "/api/v1/auth/profile"
	PathLogout         = "/api/v1/auth/logout"
	PathProducts       = "/api/v1/products"
	PathCart           = "/api/v1/cart"
	PathWishlist       = "/api/v1/wishlist"
	PathOrders         = "/api/v1/orders"
)

// Routes maps endpoints to credentials. Which endpoints accept the OTP
// verification token is explicit configuration, never inferred from URL
// substrings: a logged-in user changing their password must not be handed
// a stale OTP credential by accident.
type Routes struct {
	Register      string
	PasswordReset string
	OTPAuthorized []string
}

// DefaultRoutes returns the backend's standard credential routing: only
// the two identity-bootstrap endpoints are OTP-authorized.
func DefaultRoutes() Routes {
	return Routes{
		Register:      PathRegister,
		PasswordReset: PathPasswordReset,
		OTPAuthorized: []string{PathRegister, PathPasswordReset},
	}
}

func (r Routes) isOTPAuthorized(path string) bool {
	for _, p := range r.OTPAuthorized {
		if p == path {
			return true
		}
	}
	return false
}

// requestPath normalizes a request URL (absolute or relative, with or
// without query) down to its path component.
func requestPath(rawURL string) string {
	if strings.Contains(rawURL, "://") {
		if u, err := url.Parse(rawURL); err == nil {
			return u.Path
		}
	}
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		rawURL = rawURL[:i]
	}
	return rawURL
}
