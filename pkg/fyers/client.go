// Package fyers is a typed client for the Fyers trading REST API.
//
// Every operation returns a *Error on failure. Broker envelopes reporting an
// error take precedence over the HTTP status code, so callers see the
// classified API error (e.g. KindTokenExpired) rather than a bare status.
package fyers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

var (
	APIBaseURL  = "https://api-t1.fyers.in/api/v3"
	DataBaseURL = "https://api-t1.fyers.in/data"

	UserAgent = "fyers-trader/0.1"
)

// Options configures a Client. The zero value is usable.
type Options struct {
	// Base URLs for account/order endpoints and for market data endpoints.
	APIBaseURL  string
	DataBaseURL string

	// Timeout for a whole request. Zero means no timeout beyond the context.
	HTTPClientTimeout time.Duration

	UserAgent string

	// HTTPClient, when set, is used as the underlying transport.
	HTTPClient *http.Client

	// Logger receives one debug event per API call.
	Logger *zerolog.Logger
}

func (v *Options) setDefaults() {
	if v.APIBaseURL == "" {
		v.APIBaseURL = APIBaseURL
	}
	if v.DataBaseURL == "" {
		v.DataBaseURL = DataBaseURL
	}
	if v.UserAgent == "" {
		v.UserAgent = UserAgent
	}
	if v.Logger == nil {
		nop := zerolog.Nop()
		v.Logger = &nop
	}
	v.APIBaseURL = strings.TrimRight(v.APIBaseURL, "/")
	v.DataBaseURL = strings.TrimRight(v.DataBaseURL, "/")
}

// Check validates the options.
func (v *Options) Check() error {
	for _, u := range []string{v.APIBaseURL, v.DataBaseURL} {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return fmt.Errorf("base url %q must use http or https", u)
		}
	}
	if v.HTTPClientTimeout < 0 {
		return fmt.Errorf("http client timeout cannot be negative")
	}
	return nil
}

// Credentials identify the caller on every authenticated request.
type Credentials struct {
	ClientID    string
	AccessToken string
}

// Header returns the Authorization header value "{client_id}:{access_token}".
func (c Credentials) Header() string {
	return c.ClientID + ":" + c.AccessToken
}

// Client is an immutable bundle of credentials and a transport. It holds no
// per-call state and is safe for concurrent use.
type Client struct {
	opts  Options
	creds Credentials
	http  *resty.Client
	log   zerolog.Logger
}

// New returns a client for the given credentials.
func New(creds Credentials, opts *Options) (*Client, error) {
	if opts == nil {
		opts = new(Options)
	}
	o := *opts
	o.setDefaults()
	if err := o.Check(); err != nil {
		return nil, err
	}
	if creds.ClientID == "" || creds.AccessToken == "" {
		return nil, fmt.Errorf("client id and access token are required")
	}

	var rc *resty.Client
	if o.HTTPClient != nil {
		rc = resty.NewWithClient(o.HTTPClient)
	} else {
		rc = resty.New()
	}
	if o.HTTPClientTimeout > 0 {
		rc.SetTimeout(o.HTTPClientTimeout)
	}
	rc.SetHeader("User-Agent", o.UserAgent)

	c := &Client{
		opts:  o,
		creds: creds,
		http:  rc,
		log:   o.Logger.With().Str("component", "fyers").Logger(),
	}
	return c, nil
}

// WithAccessToken returns a new client sharing this client's transport but
// authenticating with a different access token, e.g. after a refresh.
func (c *Client) WithAccessToken(token string) *Client {
	nc := *c
	nc.creds.AccessToken = token
	return &nc
}

// ClientID returns the client id the client authenticates as.
func (c *Client) ClientID() string {
	return c.creds.ClientID
}

func (c *Client) apiURL(path string) string {
	return c.opts.APIBaseURL + path
}

func (c *Client) dataURL(path string) string {
	return c.opts.DataBaseURL + path
}
