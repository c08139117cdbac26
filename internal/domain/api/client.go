// Package api is the storefront backend client. Every call passes through
// the same pipeline: the authorizer picks the bearer credential on the way
// out, the response policy classifies the result, raises notifications, and
// tears the session down on authorization failure on the way back.
package api

import (
	"context"
	"errors"
	"strings"
	"time"

	resty "github.com/go-resty/resty/v2"

	"storefront-go/internal/domain/nav"
	"storefront-go/internal/domain/notify"
	"storefront-go/internal/domain/session"
	"storefront-go/internal/domain/session/model"
	perrors "storefront-go/internal/platform/errors"
)

// Options encapsulates the dependencies required to construct a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Session   *session.Manager
	Bus       *notify.Bus
	Navigator nav.Navigator
	Logger    model.Logger
	Routes    *Routes
}

// Client wraps the HTTP stack with the global interceptor pipeline.
type Client struct {
	http    *resty.Client
	session *session.Manager
	bus     *notify.Bus
	nav     nav.Navigator
	logger  model.Logger
	routes  Routes
}

// NewClient wires a Client using the supplied options.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("api client requires a base url")
	}
	if opts.Session == nil {
		return nil, errors.New("api client requires a session manager")
	}
	if opts.Bus == nil {
		return nil, errors.New("api client requires a notification bus")
	}
	if opts.Logger == nil {
		return nil, errors.New("api client requires a logger")
	}
	navigator := opts.Navigator
	if navigator == nil {
		navigator = nav.Nop{}
	}
	routes := DefaultRoutes()
	if opts.Routes != nil {
		routes = *opts.Routes
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}

	c := &Client{
		http:    httpClient,
		session: opts.Session,
		bus:     opts.Bus,
		nav:     navigator,
		logger:  opts.Logger,
		routes:  routes,
	}
	httpClient.OnBeforeRequest(c.authorize)
	httpClient.OnAfterResponse(c.enforcePolicy)
	httpClient.OnError(c.notifyTransportError)
	return c, nil
}

// Session exposes the session manager to the host application.
func (c *Client) Session() *session.Manager {
	return c.session
}

// call performs a request through the pipeline and decodes the envelope's
// data section into out.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return perrors.Wrap(perrors.KindTransport, "call", method+" "+path+" failed", err)
	}
	return decodeData(resp.Body(), out)
}
