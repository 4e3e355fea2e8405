// Package auth implements the Fyers token exchange.
//
// The flow has three steps: GenerateURL builds the login page the user opens
// in a browser, GenerateTokens exchanges the auth code found in the redirect
// URL for an access and refresh token pair, and RefreshTokens trades a
// refresh token (valid for about 15 days) for a new access token.
//
// Token storage and refresh scheduling are left to the caller.
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"fyers-trader/internal/logging"
	"fyers-trader/pkg/fyers"
)

var BaseURL = "https://api-t1.fyers.in/api/v3"

type Options struct {
	// BaseURL of the auth host.
	BaseURL string

	HTTPClientTimeout time.Duration

	HTTPClient *http.Client

	Logger *zerolog.Logger
}

func (v *Options) setDefaults() {
	if v.BaseURL == "" {
		v.BaseURL = BaseURL
	}
	v.BaseURL = strings.TrimRight(v.BaseURL, "/")
	if v.HTTPClientTimeout == 0 {
		v.HTTPClientTimeout = 30 * time.Second
	}
	if v.Logger == nil {
		nop := zerolog.Nop()
		v.Logger = &nop
	}
}

// Tokens is the result of a successful exchange.
type Tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Client performs the network steps of the auth flow.
type Client struct {
	opts Options
	http *resty.Client
	log  zerolog.Logger
}

func New(opts *Options) *Client {
	if opts == nil {
		opts = new(Options)
	}
	o := *opts
	o.setDefaults()

	var rc *resty.Client
	if o.HTTPClient != nil {
		rc = resty.NewWithClient(o.HTTPClient)
	} else {
		rc = resty.New()
	}
	rc.SetTimeout(o.HTTPClientTimeout)
	return &Client{
		opts: o,
		http: rc,
		log:  o.Logger.With().Str("component", "fyers-auth").Logger(),
	}
}

// AppIDHash returns the hex encoded SHA-256 of "{client_id}:{secret_key}",
// which the broker accepts in place of the raw secret.
func AppIDHash(clientID, secretKey string) string {
	sum := sha256.Sum256([]byte(clientID + ":" + secretKey))
	return hex.EncodeToString(sum[:])
}

// GenerateURL returns the login URL on the default auth host. No network call
// is made.
func GenerateURL(clientID, redirectURI, state string) (*url.URL, error) {
	return generateURL(BaseURL, clientID, redirectURI, state)
}

// GenerateURL returns the login URL on the client's auth host.
func (c *Client) GenerateURL(clientID, redirectURI, state string) (*url.URL, error) {
	return generateURL(c.opts.BaseURL, clientID, redirectURI, state)
}

func generateURL(base, clientID, redirectURI, state string) (*url.URL, error) {
	u, err := url.Parse(base + "/generate-authcode")
	if err != nil {
		return nil, &Error{Kind: KindInvalidURL, Err: err}
	}
	values := make(url.Values)
	values.Set("client_id", clientID)
	values.Set("redirect_uri", redirectURI)
	values.Set("state", state)
	u.RawQuery = values.Encode()
	return u, nil
}

// AuthCode extracts the auth_code query parameter from the redirect URL.
func AuthCode(redirectURL string) (string, error) {
	u, err := url.Parse(redirectURL)
	if err != nil {
		return "", &Error{Kind: KindInvalidURL, Err: err}
	}
	code := u.Query().Get("auth_code")
	if code == "" {
		return "", &Error{Kind: KindMissingAuthCode}
	}
	return code, nil
}

type generateTokenRequest struct {
	GrantType string `json:"grant_type"`
	AppIDHash string `json:"appIdHash"`
	Code      string `json:"code"`
}

type refreshTokenRequest struct {
	GrantType    string `json:"grant_type"`
	AppIDHash    string `json:"appIdHash"`
	RefreshToken string `json:"refresh_token"`
	Pin          string `json:"pin"`
}

type tokenResponse struct {
	S            fyers.Status `json:"s"`
	Code         int          `json:"code"`
	Message      string       `json:"message"`
	AccessToken  *string      `json:"access_token"`
	RefreshToken *string      `json:"refresh_token"`
}

// GenerateTokens exchanges the auth code carried by redirectURL, the URL the
// broker redirected the user to after login, for a token pair.
func (c *Client) GenerateTokens(ctx context.Context, clientID, secretKey, redirectURL string) (*Tokens, error) {
	code, err := AuthCode(redirectURL)
	if err != nil {
		return nil, err
	}
	req := &generateTokenRequest{
		GrantType: "authorization_code",
		AppIDHash: AppIDHash(clientID, secretKey),
		Code:      code,
	}
	resp, err := c.post(ctx, "/validate-authcode", req)
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == nil {
		return nil, &Error{Code: resp.Code, Message: "missing access_token in success response"}
	}
	if resp.RefreshToken == nil {
		return nil, &Error{Code: resp.Code, Message: "missing refresh_token in success response"}
	}
	return &Tokens{AccessToken: *resp.AccessToken, RefreshToken: *resp.RefreshToken}, nil
}

// RefreshTokens obtains a new access token. The broker usually does not issue
// a new refresh token, in which case refreshToken is returned unchanged.
func (c *Client) RefreshTokens(ctx context.Context, clientID, secretKey, refreshToken, pin string) (*Tokens, error) {
	req := &refreshTokenRequest{
		GrantType:    "refresh_token",
		AppIDHash:    AppIDHash(clientID, secretKey),
		RefreshToken: refreshToken,
		Pin:          pin,
	}
	resp, err := c.post(ctx, "/validate-refresh-token", req)
	if err != nil {
		return nil, err
	}
	if resp.AccessToken == nil {
		return nil, &Error{Code: resp.Code, Message: "missing access_token in refresh response"}
	}
	tokens := &Tokens{AccessToken: *resp.AccessToken, RefreshToken: refreshToken}
	if resp.RefreshToken != nil {
		tokens.RefreshToken = *resp.RefreshToken
	}
	return tokens, nil
}

// post sends an unauthenticated JSON request and returns the decoded response
// when its status is "ok".
func (c *Client) post(ctx context.Context, path string, body any) (*tokenResponse, error) {
	endpoint := c.opts.BaseURL + path

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(endpoint)
	if err != nil {
		aerr := &Error{Kind: KindTransport, Err: err}
		logging.LogAPICall(c.log, http.MethodPost, endpoint, time.Since(start), aerr)
		return nil, aerr
	}

	tr, err := decodeTokenResponse(resp.StatusCode(), resp.Body())
	logging.LogAPICall(c.log, http.MethodPost, endpoint, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return tr, nil
}

func decodeTokenResponse(status int, body []byte) (*tokenResponse, error) {
	tr := new(tokenResponse)
	if err := json.Unmarshal(body, tr); err != nil {
		if status < 200 || status > 299 {
			return nil, &Error{Kind: KindHTTPStatus, Status: status, Body: string(body)}
		}
		return nil, &Error{Kind: KindDecode, Err: err}
	}
	switch tr.S {
	case fyers.StatusOK:
		return tr, nil
	case fyers.StatusError:
		return nil, &Error{Code: tr.Code, Message: tr.Message}
	}
	return nil, &Error{Kind: KindDecode, Err: fmt.Errorf("response has no status")}
}
