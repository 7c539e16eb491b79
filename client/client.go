// Package client is the controller behind the SHMS dashboards. Every call goes to the API first;
// when the API cannot be reached (or refuses the session) it falls back to data mirrored in a local Store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/shms/core"
	"github.com/trezcool/shms/core/user"
)

const minPasswordLen = 4

var ErrInvalidCredentials = errors.New("invalid credentials")

// APIError is a non-2xx answer of the API.
type APIError struct {
	Code    int
	Message string            `json:"message"`
	Fields  map[string]string `json:"errors"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("api: %d %s", e.Code, e.Message)
}

// offline reports whether `err` warrants using local data: the API was unreachable, failed,
// or refused the session. Rejected payloads (400, 404, 409) are returned to the caller.
func offline(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code >= http.StatusInternalServerError ||
			apiErr.Code == http.StatusUnauthorized ||
			apiErr.Code == http.StatusForbidden
	}
	return true
}

type (
	User struct {
		ID    int64  `json:"id,omitempty"`
		Name  string `json:"name"`
		Email string `json:"email"`
		Room  string `json:"room,omitempty"`
		Role  string `json:"role"`
	}

	Session struct {
		User  User   `json:"user"`
		Token string `json:"token,omitempty"`
		// Demo is set when the API could not authenticate and the session is local only.
		Demo bool `json:"demo,omitempty"`
	}

	Client struct {
		baseURL string
		http    *http.Client
		store   *Store
		logger  core.Logger
	}
)

func New(conf *core.Config, store *Store, logger core.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.Client.BaseURL, "/"),
		http:    &http.Client{Timeout: conf.Client.Timeout},
		store:   store,
		logger:  logger,
	}
}

// send performs the request and returns the response of a 2xx answer; the caller closes its body.
func (c *Client) send(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, errors.Wrap(err, "encoding request")
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	var token string
	if _, err := c.store.Get(tokenKey, &token); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		defer resp.Body.Close()
		apiErr := &APIError{Code: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return nil, apiErr
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decoding %s %s", method, path)
	}
	return nil
}

// Login authenticates against the API. When that fails for any reason, well-formed credentials
// still open a local demo session.
func (c *Client) Login(ctx context.Context, email, password, role string) (Session, error) {
	email = core.CleanString(email, true /* lower */)
	var sess Session
	err := c.do(ctx, http.MethodPost, "/api/login", map[string]string{
		"email":    email,
		"password": password,
		"role":     role,
	}, &sess)
	if err != nil {
		c.logger.Warn(fmt.Sprintf("login failed, trying demo auth: %v", err), err)
		if !core.IsEmailLike(email) || len(password) < minPasswordLen {
			return Session{}, ErrInvalidCredentials
		}
		if role = user.NormalizeRole(role); role == "" {
			role = user.RoleStudent
		}
		sess = Session{User: User{Name: core.EmailLocalPart(email), Email: email, Role: role}, Demo: true}
	}

	if err := c.store.Put(userKey, sess.User); err != nil {
		return Session{}, err
	}
	if sess.Token == "" {
		err = c.store.Delete(tokenKey)
	} else {
		err = c.store.Put(tokenKey, sess.Token)
	}
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

// CurrentUser returns the user of the stored session, if any.
func (c *Client) CurrentUser() (User, bool, error) {
	var usr User
	found, err := c.store.Get(userKey, &usr)
	return usr, found, err
}

func (c *Client) Logout() error {
	return c.store.Delete(tokenKey, userKey)
}
