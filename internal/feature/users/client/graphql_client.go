// Package client is the consumer side of the users GraphQL API: an HTTP client
// for the four operations and the form/list controller that drives it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// DefaultEndpoint is the API address used when none is configured.
const DefaultEndpoint = "http://localhost:5000/graphql"

const userFields = "id name email age createdAt"

const (
	getUsersQuery = `query GetUsers { users { ` + userFields + ` } }`
	getUserQuery  = `query GetUser($id: ID!) { user(id: $id) { ` + userFields + ` } }`

	createUserMutation = `mutation CreateUser($name: String!, $email: String!, $age: Int) {
  createUser(name: $name, email: $email, age: $age) { ` + userFields + ` }
}`
	updateUserMutation = `mutation UpdateUser($id: ID!, $name: String, $email: String, $age: Int) {
  updateUser(id: $id, name: $name, email: $email, age: $age) { ` + userFields + ` }
}`
	deleteUserMutation = `mutation DeleteUser($id: ID!) { deleteUser(id: $id) }`
)

// User is a user as returned by the API.
type User struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Age       *int    `json:"age"`
	CreatedAt *string `json:"createdAt"`
}

// Created parses CreatedAt, a decimal count of milliseconds since the Unix epoch.
func (u User) Created() (time.Time, bool) {
	if u.CreatedAt == nil {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(*u.CreatedAt, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}

// GraphQLError is the first error reported in a GraphQL response.
type GraphQLError struct {
	Message string
}

func (e *GraphQLError) Error() string { return e.Message }

// ErrUnexpectedStatus is returned for non-2xx responses without GraphQL errors.
var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

// GraphQLClient issues the user operations against a GraphQL endpoint.
type GraphQLClient struct {
	endpoint string
	hc       *http.Client
}

// NewGraphQLClient creates a client. An empty endpoint means DefaultEndpoint.
func NewGraphQLClient(endpoint string, hc *http.Client) *GraphQLClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &GraphQLClient{endpoint: endpoint, hc: hc}
}

// GetUsers lists all users.
func (c *GraphQLClient) GetUsers(ctx context.Context) ([]User, error) {
	var out struct {
		Users []User `json:"users"`
	}
	if err := c.do(ctx, getUsersQuery, nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

// GetUser fetches one user by ID.
func (c *GraphQLClient) GetUser(ctx context.Context, id string) (*User, error) {
	var out struct {
		User *User `json:"user"`
	}
	if err := c.do(ctx, getUserQuery, map[string]any{"id": id}, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// CreateUser creates a user. age may be nil.
func (c *GraphQLClient) CreateUser(ctx context.Context, name, email string, age *int) (*User, error) {
	var out struct {
		CreateUser *User `json:"createUser"`
	}
	vars := map[string]any{"name": name, "email": email, "age": age}
	if err := c.do(ctx, createUserMutation, vars, &out); err != nil {
		return nil, err
	}
	return out.CreateUser, nil
}

// UpdateUser sends name, email and age. A nil age clears it.
func (c *GraphQLClient) UpdateUser(ctx context.Context, id, name, email string, age *int) (*User, error) {
	var out struct {
		UpdateUser *User `json:"updateUser"`
	}
	vars := map[string]any{"id": id, "name": name, "email": email, "age": age}
	if err := c.do(ctx, updateUserMutation, vars, &out); err != nil {
		return nil, err
	}
	return out.UpdateUser, nil
}

// DeleteUser deletes a user and reports the server's success flag.
func (c *GraphQLClient) DeleteUser(ctx context.Context, id string) (bool, error) {
	var out struct {
		DeleteUser *bool `json:"deleteUser"`
	}
	if err := c.do(ctx, deleteUserMutation, map[string]any{"id": id}, &out); err != nil {
		return false, err
	}
	return out.DeleteUser != nil && *out.DeleteUser, nil
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *GraphQLClient) do(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", c.endpoint, err)
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var gr response
	if err := json.Unmarshal(raw, &gr); err != nil {
		if res.StatusCode/100 != 2 {
			return fmt.Errorf("%w: %d", ErrUnexpectedStatus, res.StatusCode)
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if len(gr.Errors) > 0 {
		return &GraphQLError{Message: gr.Errors[0].Message}
	}
	if res.StatusCode/100 != 2 {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, res.StatusCode)
	}
	if out == nil || len(gr.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(gr.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
