// Package api is the typed client for the IATEK backend: the auth endpoints
// under /api/auth and the contact-form submissions under /dept. Every failure
// comes back as a *RequestError so callers can run it through Classify.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iatek/deptadmin/domain"
	"github.com/iatek/deptadmin/util"
)

const DefaultTimeout = 30 * time.Second

type Client struct {
	baseUrl string
	token   string
	http    *http.Client
}

// AuthResponse is the body of a successful login or register call.
type AuthResponse struct {
	Token string      `json:"token"`
	Data  domain.User `json:"data"`
}

// meResponse wraps the identity returned by /api/auth/me.
type meResponse struct {
	Data domain.User `json:"data"`
}

// apiMessage is the error body shape of the backend.
type apiMessage struct {
	Message string `json:"message"`
}

func NewClient(baseUrl string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseUrl: strings.TrimRight(baseUrl, "/"),
		// The backend may be a cold instance needing wake-up time
		http: &http.Client{Timeout: timeout},
	}
}

func NewClientFromConf(conf *util.AppConfig) *Client {
	return NewClient(conf.Conf.ApiBaseUrl, time.Duration(conf.Conf.TimeoutSec)*time.Second)
}

// SetToken attaches a bearer credential to all subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) ClearToken() {
	c.token = ""
}

func (c *Client) Token() string {
	return c.token
}

func (c *Client) Login(email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var out AuthResponse
	if err := c.doJSON("login", http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Register(username, email, password string) (*AuthResponse, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	var out AuthResponse
	if err := c.doJSON("register", http.MethodPost, "/api/auth/register", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me verifies the current bearer token against the identity endpoint.
func (c *Client) Me() (*domain.User, error) {
	var out meResponse
	if err := c.doJSON("me", http.MethodGet, "/api/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (c *Client) ListSubmissions() ([]domain.Submission, error) {
	var out []domain.Submission
	if err := c.doJSON("list submissions", http.MethodGet, "/dept/departements", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteSubmission(id string) error {
	return c.doJSON("delete submission", http.MethodDelete, "/dept/"+url.PathEscape(id), nil, nil)
}

func (c *Client) doJSON(op, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Op: op, Err: err}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, c.baseUrl+path, reader)
	if err != nil {
		return &RequestError{Op: op, Err: err}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", util.GetNameAndVersion())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		timeout := false
		var ue *url.Error
		if errors.As(err, &ue) {
			timeout = ue.Timeout()
		}
		return &RequestError{Op: op, Timeout: timeout, NoResponse: !timeout, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := &RequestError{Op: op, StatusCode: resp.StatusCode}
		var msg apiMessage
		if err := json.NewDecoder(resp.Body).Decode(&msg); err == nil {
			reqErr.Message = msg.Message
		}
		return reqErr
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestError{Op: op, Err: fmt.Errorf("decoding response: %w", err)}
	}

	return nil
}
