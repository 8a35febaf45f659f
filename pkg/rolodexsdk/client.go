package rolodexsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to a rolodex server. The zero value is not usable; construct
// one with NewClient.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// APIError is returned when the server answers with an error envelope.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("rolodexsdk: %d %s", e.StatusCode, e.Detail)
}

// Signup creates a new unconfirmed account.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (UserResponse, error) {
	var out UserResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/signup", "", req, &out)
	return out, err
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (TokenResponse, error) {
	var out TokenResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", "", LoginRequest{Email: email, Password: password}, &out)
	return out, err
}

// Refresh rotates a refresh token into a new pair. The presented token is
// invalid afterwards.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (TokenResponse, error) {
	var out TokenResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/refresh", "", RefreshRequest{RefreshToken: refreshToken}, &out)
	return out, err
}

// ConfirmEmail consumes a confirmation token.
func (c *Client) ConfirmEmail(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodGet, "/v1/email/confirm/"+url.PathEscape(token), "", nil, nil)
}

// RequestConfirmation asks for the confirmation email to be re-sent.
func (c *Client) RequestConfirmation(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/v1/email/request", "", EmailRequest{Email: email}, nil)
}

// Me returns the authenticated user's own record.
func (c *Client) Me(ctx context.Context, accessToken string) (UserResponse, error) {
	var out UserResponse
	err := c.do(ctx, http.MethodGet, "/v1/users/me", accessToken, nil, &out)
	return out, err
}

// CreateContact adds a contact to the caller's address book.
func (c *Client) CreateContact(ctx context.Context, accessToken string, req ContactRequest) (ContactResponse, error) {
	var out ContactResponse
	err := c.do(ctx, http.MethodPost, "/v1/contacts", accessToken, req, &out)
	return out, err
}

// ListContacts pages through the caller's contacts.
func (c *Client) ListContacts(ctx context.Context, accessToken string, limit, offset int) ([]ContactResponse, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	path := "/v1/contacts"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []ContactResponse
	err := c.do(ctx, http.MethodGet, path, accessToken, nil, &out)
	return out, err
}

// GetContact fetches one contact.
func (c *Client) GetContact(ctx context.Context, accessToken, contactID string) (ContactResponse, error) {
	var out ContactResponse
	err := c.do(ctx, http.MethodGet, "/v1/contacts/"+url.PathEscape(contactID), accessToken, nil, &out)
	return out, err
}

// UpdateContact rewrites one contact.
func (c *Client) UpdateContact(ctx context.Context, accessToken, contactID string, req ContactRequest) (ContactResponse, error) {
	var out ContactResponse
	err := c.do(ctx, http.MethodPut, "/v1/contacts/"+url.PathEscape(contactID), accessToken, req, &out)
	return out, err
}

// DeleteContact removes one contact.
func (c *Client) DeleteContact(ctx context.Context, accessToken, contactID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/contacts/"+url.PathEscape(contactID), accessToken, nil, nil)
}

// UpdateAvatar uploads a new avatar image for the authenticated user. The
// image is sent as a multipart form under the "file" field.
func (c *Client) UpdateAvatar(ctx context.Context, accessToken, filename, contentType string, image io.Reader) (UserResponse, error) {
	var out UserResponse

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return out, fmt.Errorf("failed to encode request: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return out, fmt.Errorf("failed to encode request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return out, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.BaseURL+"/v1/users/me/avatar", &buf)
	if err != nil {
		return out, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+accessToken)

	return out, c.send(req, &out)
}

// AdminGetUser fetches any user's record. Requires the admin or moderator
// role.
func (c *Client) AdminGetUser(ctx context.Context, accessToken, userID string) (UserResponse, error) {
	var out UserResponse
	err := c.do(ctx, http.MethodGet, "/v1/admin/users/"+url.PathEscape(userID), accessToken, nil, &out)
	return out, err
}

// AdminUpdateRole changes a user's role. Requires the admin role.
func (c *Client) AdminUpdateRole(ctx context.Context, accessToken, userID, role string) (UserResponse, error) {
	var out UserResponse
	err := c.do(ctx, http.MethodPatch, "/v1/admin/users/"+url.PathEscape(userID)+"/role", accessToken, RoleRequest{Role: role}, &out)
	return out, err
}

// Livez probes basic liveness.
func (c *Client) Livez(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/livez", "", nil, &out)
	return out, err
}

// Readyz probes readiness, including the database.
func (c *Client) Readyz(ctx context.Context) (HealthResponse, error) {
	var out HealthResponse
	err := c.do(ctx, http.MethodGet, "/readyz", "", nil, &out)
	return out, err
}

// do sends one request and decodes the response into out (when non-nil).
// Non-2xx responses are returned as *APIError with the server's detail
// message.
func (c *Client) do(ctx context.Context, method, path, accessToken string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	return c.send(req, out)
}

// send performs a prepared request and decodes the response into out (when
// non-nil). Non-2xx responses are returned as *APIError.
func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope ErrorResponse
		detail := resp.Status
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Detail != "" {
			detail = envelope.Detail
		}
		return &APIError{StatusCode: resp.StatusCode, Detail: detail}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
