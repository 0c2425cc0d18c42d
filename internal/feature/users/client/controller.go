package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

var (
	// ErrSubmitInFlight is returned when Submit is called while a submission is running.
	ErrSubmitInFlight = errors.New("a submission is already in progress")

	// ErrInvalidAge is returned when the age field is not an integer.
	ErrInvalidAge = errors.New("age must be a whole number")
)

// API is the subset of GraphQLClient used by the Controller.
type API interface {
	GetUsers(ctx context.Context) ([]User, error)
	CreateUser(ctx context.Context, name, email string, age *int) (*User, error)
	UpdateUser(ctx context.Context, id, name, email string, age *int) (*User, error)
	DeleteUser(ctx context.Context, id string) (bool, error)
}

// State is a snapshot of the form and list.
type State struct {
	Name      string
	Email     string
	Age       string
	EditingID string
	Users     []User
	FetchErr  error
}

// Editing reports whether the form targets an existing user.
func (s State) Editing() bool { return s.EditingID != "" }

// Controller holds the form fields and the last fetched list.
// The list is only ever replaced by a fetch from the server.
type Controller struct {
	api API

	mu         sync.Mutex
	state      State
	submitting bool
}

// NewController creates a Controller in create mode with an empty list.
func NewController(api API) *Controller {
	return &Controller{api: api}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Users = append([]User(nil), c.state.Users...)
	return s
}

func (c *Controller) SetName(v string) {
	c.mu.Lock()
	c.state.Name = v
	c.mu.Unlock()
}

func (c *Controller) SetEmail(v string) {
	c.mu.Lock()
	c.state.Email = v
	c.mu.Unlock()
}

func (c *Controller) SetAge(v string) {
	c.mu.Lock()
	c.state.Age = v
	c.mu.Unlock()
}

// Edit fills the form from u and switches to edit mode for u.ID.
func (c *Controller) Edit(u User) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Name = u.Name
	c.state.Email = u.Email
	c.state.Age = ""
	if u.Age != nil {
		c.state.Age = strconv.Itoa(*u.Age)
	}
	c.state.EditingID = u.ID
}

// Cancel clears the form and leaves edit mode without persisting anything.
func (c *Controller) Cancel() {
	c.mu.Lock()
	c.clearForm()
	c.mu.Unlock()
}

// Refresh replaces the list with the server's current list.
func (c *Controller) Refresh(ctx context.Context) error {
	users, err := c.api.GetUsers(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state.Users = nil
		c.state.FetchErr = err
		return err
	}
	c.state.Users = users
	c.state.FetchErr = nil
	return nil
}

// Submit creates a user, or updates the one being edited, then clears the form
// and refetches the list. On failure the form is left as it was.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	form := c.state
	age, err := parseAge(form.Age)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.submitting = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	if form.Editing() {
		_, err = c.api.UpdateUser(ctx, form.EditingID, form.Name, form.Email, age)
	} else {
		_, err = c.api.CreateUser(ctx, form.Name, form.Email, age)
	}
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.clearForm()
	c.mu.Unlock()

	_ = c.Refresh(ctx)
	return nil
}

// Delete removes the user and refetches the list.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if _, err := c.api.DeleteUser(ctx, id); err != nil {
		return err
	}
	_ = c.Refresh(ctx)
	return nil
}

// clearForm requires c.mu.
func (c *Controller) clearForm() {
	c.state.Name = ""
	c.state.Email = ""
	c.state.Age = ""
	c.state.EditingID = ""
}

// parseAge converts the age field. Empty means no age.
func parseAge(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAge, s)
	}
	return &v, nil
}
