// Package apiclient talks to the setup REST API.
package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/masomo-setup/core"
	"github.com/trezcool/masomo-setup/core/setup"
	"github.com/trezcool/masomo-setup/core/user"
)

type (
	// Client is a setup.Remote backed by the REST API.
	Client struct {
		baseURL string
		rest    *rest.Client
		session setup.Session
	}

	// LoginResult is returned by a successful sign in.
	LoginResult struct {
		Token string         `json:"token"`
		User  setup.UserInfo `json:"user"`
	}

	envelope struct {
		Status  int             `json:"status"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
)

var _ setup.Remote = (*Client)(nil)

// New returns a Client of the API at conf.BaseURL (e.g. http://localhost:8000/v1).
// Authenticated calls read their token from session.
func New(conf core.APIConfig, session setup.Session) *Client {
	return &Client{
		baseURL: strings.TrimRight(conf.BaseURL, "/"),
		rest:    &rest.Client{HTTPClient: &http.Client{Timeout: conf.Timeout}},
		session: session,
	}
}

func (c *Client) Login(ctx context.Context, creds user.LoginCredentials) (LoginResult, error) {
	var res LoginResult
	err := c.do(ctx, rest.Post, "/users/login", false, creds, &res)
	return res, err
}

func (c *Client) SetupStatus(ctx context.Context) (bool, error) {
	var complete bool
	err := c.do(ctx, rest.Get, "/setup-status", true, nil, &complete)
	return complete, err
}

func (c *Client) SetupProgress(ctx context.Context) (setup.ProgressReport, error) {
	var report setup.ProgressReport
	err := c.do(ctx, rest.Get, "/setup/progress", true, nil, &report)
	return report, err
}

func (c *Client) CreateCampus(ctx context.Context, nc setup.NewCampus) (setup.CreatedEntity, error) {
	var ent setup.CreatedEntity
	err := c.do(ctx, rest.Post, "/setup/campus", true, nc, &ent)
	return ent, err
}

func (c *Client) CreateClass(ctx context.Context, nc setup.NewClass) (setup.CreatedEntity, error) {
	var ent setup.CreatedEntity
	err := c.do(ctx, rest.Post, "/setup/class", true, nc, &ent)
	return ent, err
}

func (c *Client) CreateArm(ctx context.Context, na setup.NewArm) (setup.CreatedEntity, error) {
	var ent setup.CreatedEntity
	err := c.do(ctx, rest.Post, "/setup/arm", true, na, &ent)
	return ent, err
}

// do sends a JSON request and decodes the data of the response envelope into out.
// Answers with a non-2xx HTTP or envelope status are returned as *setup.ServerError.
func (c *Client) do(ctx context.Context, method rest.Method, path string, auth bool, body, out interface{}) error {
	req := rest.Request{
		Method:  method,
		BaseURL: c.baseURL + path,
		Headers: map[string]string{"Accept": "application/json"},
	}
	if auth {
		token, err := c.session.Token(ctx)
		if err != nil {
			return err
		}
		req.Headers["Authorization"] = "Bearer " + token
	}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		req.Body = data
	}

	resp, err := c.rest.SendWithContext(ctx, req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}

	var env envelope
	decodeErr := json.Unmarshal([]byte(resp.Body), &env)

	// the envelope status is authoritative; the HTTP status only counts when it is missing
	status := resp.StatusCode
	if decodeErr == nil && env.Status != 0 {
		status = env.Status
	}
	if !success(resp.StatusCode) || !success(status) {
		sErr := &setup.ServerError{Status: status}
		if decodeErr == nil {
			sErr.Message = env.Message
			sErr.Fields = decodeFields(env.Data)
		}
		return sErr
	}
	if decodeErr != nil {
		return errors.Wrapf(decodeErr, "decoding %s %s response", method, path)
	}
	if out != nil {
		if err = json.Unmarshal(env.Data, out); err != nil {
			return errors.Wrapf(err, "decoding %s %s data", method, path)
		}
	}
	return nil
}

func success(status int) bool { return status >= 200 && status < 300 }

// decodeFields reads the field errors of a validation failure; anything else yields nil.
func decodeFields(data json.RawMessage) map[string]string {
	var flds []core.FieldError
	if len(data) == 0 || json.Unmarshal(data, &flds) != nil || len(flds) == 0 {
		return nil
	}
	m := make(map[string]string, len(flds))
	for _, f := range flds {
		m[f.Field] = f.Error
	}
	return m
}
