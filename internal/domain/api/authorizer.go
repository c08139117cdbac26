package api

import (
	resty "github.com/go-resty/resty/v2"
)

// authorize attaches exactly one bearer credential to each outgoing
// request, chosen by destination. Identity-bootstrap endpoints are
// reachable by a user who has proven email ownership via a one-time code
// but holds no full session yet; they get the OTP token and never the
// session token, even when both are present. Everything else gets the
// access token. Requests with no applicable credential go out without an
// Authorization header; the backend rejects them itself.
func (c *Client) authorize(_ *resty.Client, req *resty.Request) error {
	snap := c.session.Snapshot()
	path := requestPath(req.URL)

	if c.routes.isOTPAuthorized(path) {
		if snap.OTPToken != "" {
			req.SetHeader("Authorization", "Bearer "+snap.OTPToken)
		}
		return nil
	}
	if snap.AccessToken != "" {
		req.SetHeader("Authorization", "Bearer "+snap.AccessToken)
	}
	return nil
}
