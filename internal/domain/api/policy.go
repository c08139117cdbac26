package api

import (
	"context"
	"errors"
	"net/http"

	resty "github.com/go-resty/resty/v2"

	"storefront-go/internal/domain/nav"
	perrors "storefront-go/internal/platform/errors"
)

type silentKeyType struct{}

var silentKey silentKeyType

// Silent marks a call so the policy suppresses its automatic
// notifications. Flows doing inline, contextual error presentation use
// this instead of the generic toast. The 401 session-clearing behavior is
// never suppressed.
func Silent(ctx context.Context) context.Context {
	return context.WithValue(ctx, silentKey, true)
}

func isSilent(ctx context.Context) bool {
	v, _ := ctx.Value(silentKey).(bool)
	return v
}

const genericFailure = "Something went wrong. Please try again."

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// enforcePolicy inspects every response crossing the API boundary. It runs
// its side effects (toasts, session clearing) before the error reaches the
// caller, so a caller catching the rejection can assume the session is
// already consistent.
func (c *Client) enforcePolicy(_ *resty.Client, resp *resty.Response) error {
	ctx := resp.Request.Context()
	silent := isSilent(ctx)
	env, hasEnv := parseEnvelope(resp.Body())

	if resp.IsSuccess() {
		// Transport success is not business success.
		if hasEnv && env.Failed() {
			msg := env.Message
			if msg == "" {
				msg = genericFailure
			}
			if !silent {
				c.bus.Error(msg)
			}
			return perrors.New(perrors.KindPolicy, "response", msg)
		}
		if !silent && hasEnv && env.Message != "" && isMutating(resp.Request.Method) {
			c.bus.Success(env.Message)
		}
		return nil
	}

	msg := env.Message
	if msg == "" {
		msg = http.StatusText(resp.StatusCode())
	}
	if msg == "" {
		msg = genericFailure
	}
	if !silent {
		c.bus.Error(msg)
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		c.handleUnauthorized(ctx, resp)
	}

	return perrors.New(classifyStatus(resp.StatusCode()), "http", msg)
}

// handleUnauthorized applies the endpoint-specific credential teardown. A
// 401 from the registration endpoint only invalidates the OTP credential
// that authorized it; everywhere else the whole session is gone. The
// redirect is skipped on the login and register screens to avoid a
// redirect loop from their own background calls.
func (c *Client) handleUnauthorized(ctx context.Context, resp *resty.Response) {
	path := requestPath(resp.Request.URL)
	if resp.Request.RawRequest != nil && resp.Request.RawRequest.URL != nil {
		path = resp.Request.RawRequest.URL.Path
	}

	if path == c.routes.Register {
		if err := c.session.ClearOTPToken(ctx); err != nil {
			c.logger.Error("failed clearing otp token after 401: %v", err)
		}
		return
	}

	if err := c.session.Clear(ctx); err != nil {
		c.logger.Error("failed clearing session after 401: %v", err)
	}
	current := c.nav.Current()
	if current != nav.RouteLogin && current != nav.RouteRegister {
		c.nav.GoTo(nav.RouteLogin)
	}
}

func classifyStatus(status int) perrors.Kind {
	switch {
	case status == http.StatusUnauthorized:
		return perrors.KindSession
	case status >= 400:
		return perrors.KindTransport
	default:
		return perrors.KindUnknown
	}
}

// notifyTransportError surfaces failures where no response was received at
// all. Responses, including non-2xx ones, were already handled by
// enforcePolicy.
func (c *Client) notifyTransportError(req *resty.Request, err error) {
	var respErr *resty.ResponseError
	if errors.As(err, &respErr) {
		return
	}

	ctx := req.Context()
	if isSilent(ctx) || errors.Is(err, context.Canceled) {
		return
	}
	msg := err.Error()
	if msg == "" {
		msg = genericFailure
	}
	c.bus.Error(msg)
}
