package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"o365-backend/internal/models"
)

const (
	defaultLoginBaseURL = "https://login.microsoftonline.com"
	defaultGraphBaseURL = "https://graph.microsoft.com/v1.0"
	graphScope          = "https://graph.microsoft.com/.default"

	// Graph's error text for a duplicate userPrincipalName; mapped to a
	// user-facing conflict message.
	duplicateUPNMessage = "Another object with the same value for property userPrincipalName already exists."
)

// Client talks to Microsoft Graph for account provisioning. One client is
// built per request; the bearer token is cached for the client's lifetime
// with no refresh-on-expiry (a stale token fails the next call).
type Client struct {
	ClientID      string
	TenantID      string
	ClientSecret  string
	UsageLocation string
	LoginBaseURL  string // override in tests
	GraphBaseURL  string // override in tests
	HTTPClient    *http.Client

	token string
}

func (c *Client) loginBase() string {
	if c.LoginBaseURL != "" {
		return c.LoginBaseURL
	}
	return defaultLoginBaseURL
}

func (c *Client) graphBase() string {
	if c.GraphBaseURL != "" {
		return c.GraphBaseURL
	}
	return defaultGraphBaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return c.HTTPClient
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// graphError matches Graph's error body: {"error": {"code", "message"}}.
type graphError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// passwordProfile matches the Graph passwordProfile resource.
type passwordProfile struct {
	Password                      string `json:"password"`
	ForceChangePasswordNextSignIn bool   `json:"forceChangePasswordNextSignIn"`
}

// createUserRequest matches the Graph user resource for POST /users.
type createUserRequest struct {
	AccountEnabled    bool            `json:"accountEnabled"`
	DisplayName       string          `json:"displayName"`
	MailNickname      string          `json:"mailNickname"`
	PasswordPolicies  string          `json:"passwordPolicies"`
	PasswordProfile   passwordProfile `json:"passwordProfile"`
	UserPrincipalName string          `json:"userPrincipalName"`
	UsageLocation     string          `json:"usageLocation"`
}

type assignedLicense struct {
	DisabledPlans []string `json:"disabledPlans"`
	SkuID         string   `json:"skuId"`
}

// assignLicenseRequest matches POST /users/{upn}/assignLicense.
type assignLicenseRequest struct {
	AddLicenses    []assignedLicense `json:"addLicenses"`
	RemoveLicenses []string          `json:"removeLicenses"`
}

// GetToken returns the cached token or performs the client-credential
// exchange. Non-success responses are a hard failure; no retry.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if c.token != "" {
		return c.token, nil
	}

	form := url.Values{
		"client_id":     {c.ClientID},
		"client_secret": {c.ClientSecret},
		"grant_type":    {"client_credentials"},
		"scope":         {graphScope},
	}
	endpoint := c.loginBase() + "/" + c.TenantID + "/oauth2/v2.0/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", ErrTokenExchange
	}
	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.AccessToken == "" {
		return "", ErrTokenExchange
	}
	c.token = body.AccessToken
	return c.token, nil
}

// CreateUser creates the directory account <userName>@<domain> and, only
// after creation succeeds, assigns the license SKU. A license failure leaves
// the created account in place; no rollback.
func (c *Client) CreateUser(ctx context.Context, user models.User, domain, skuID string) (string, error) {
	token, err := c.GetToken(ctx)
	if err != nil {
		return "", err
	}

	userEmail := user.UserName + "@" + domain
	payload := createUserRequest{
		AccountEnabled:   true,
		DisplayName:      user.DisplayName,
		MailNickname:     user.UserName,
		PasswordPolicies: "DisablePasswordExpiration, DisableStrongPassword",
		PasswordProfile: passwordProfile{
			Password:                      user.Password,
			ForceChangePasswordNextSignIn: true,
		},
		UserPrincipalName: userEmail,
		UsageLocation:     c.UsageLocation,
	}

	resp, err := c.doJSON(ctx, http.MethodPost, c.graphBase()+"/users", token, payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		gerr := decodeGraphError(resp.Body)
		if gerr == duplicateUPNMessage {
			return "", ErrUserNameTaken
		}
		if gerr != "" {
			return "", errors.New(gerr)
		}
		return "", ErrCreateUser
	}
	io.Copy(io.Discard, resp.Body)

	if err := c.assignLicense(ctx, userEmail, skuID); err != nil {
		return "", err
	}
	return userEmail, nil
}

func (c *Client) assignLicense(ctx context.Context, userEmail, skuID string) error {
	token, err := c.GetToken(ctx)
	if err != nil {
		return err
	}

	payload := assignLicenseRequest{
		AddLicenses: []assignedLicense{{
			DisabledPlans: []string{},
			SkuID:         skuID,
		}},
		RemoveLicenses: []string{},
	}
	resp, err := c.doJSON(ctx, http.MethodPost, c.graphBase()+"/users/"+userEmail+"/assignLicense", token, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ErrAssignLicense
	}
	return nil
}

// DeleteUser removes the directory account. 404 is success (idempotent
// delete); any other non-success status is a hard failure.
func (c *Client) DeleteUser(ctx context.Context, userEmail string) error {
	token, err := c.GetToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.graphBase()+"/users/"+userEmail, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if (resp.StatusCode < 200 || resp.StatusCode >= 300) && resp.StatusCode != http.StatusNotFound {
		return ErrDeleteUser
	}
	return nil
}

// EnableUser sets accountEnabled back to true.
func (c *Client) EnableUser(ctx context.Context, userEmail string) error {
	token, err := c.GetToken(ctx)
	if err != nil {
		return err
	}

	payload := map[string]bool{"accountEnabled": true}
	resp, err := c.doJSON(ctx, http.MethodPatch, c.graphBase()+"/users/"+userEmail, token, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ErrEnableUser
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, endpoint, token string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return c.httpClient().Do(req)
}

func decodeGraphError(r io.Reader) string {
	var gerr graphError
	if err := json.NewDecoder(r).Decode(&gerr); err != nil {
		return ""
	}
	return gerr.Error.Message
}
