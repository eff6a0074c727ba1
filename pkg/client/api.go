package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Register creates an account and keeps its token for later calls.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/users", req, &out); err != nil {
		return nil, err
	}
	c.remember(out.Token)
	return &out, nil
}

// Login authenticates and keeps the returned token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/users/login", body, &out); err != nil {
		return nil, err
	}
	c.remember(out.Token)
	return &out, nil
}

func (c *Client) Profile(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/users/profile", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile applies upd and swaps in the fresh token.
func (c *Client) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPut, "/users/profile", upd, &out); err != nil {
		return nil, err
	}
	c.remember(out.Token)
	return &out, nil
}

func (c *Client) ListDoctors(ctx context.Context, q DoctorQuery) ([]Doctor, error) {
	params := url.Values{}
	if q.Specialization != "" {
		params.Set("specialization", q.Specialization)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	path := "/doctors"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var out []Doctor
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetDoctor(ctx context.Context, id string) (*Doctor, error) {
	var out Doctor
	if err := c.do(ctx, http.MethodGet, "/doctors/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateDoctor(ctx context.Context, in DoctorInput) (*Doctor, error) {
	var out Doctor
	if err := c.do(ctx, http.MethodPost, "/doctors", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateDoctor(ctx context.Context, id string, in DoctorInput) (*Doctor, error) {
	var out Doctor
	if err := c.do(ctx, http.MethodPut, "/doctors/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) BookAppointment(ctx context.Context, req BookingRequest) (*Appointment, error) {
	var out Appointment
	if err := c.do(ctx, http.MethodPost, "/appointments", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyAppointments(ctx context.Context) ([]Appointment, error) {
	var out []Appointment
	if err := c.do(ctx, http.MethodGet, "/appointments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DoctorAppointments(ctx context.Context) ([]Appointment, error) {
	var out []Appointment
	if err := c.do(ctx, http.MethodGet, "/appointments/doctor", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetAppointment(ctx context.Context, id string) (*Appointment, error) {
	var out Appointment
	if err := c.do(ctx, http.MethodGet, "/appointments/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateAppointmentStatus(ctx context.Context, id string, req StatusRequest) (*Appointment, error) {
	var out Appointment
	if err := c.do(ctx, http.MethodPut, "/appointments/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CancelAppointment(ctx context.Context, id string) (*Appointment, error) {
	var out Appointment
	if err := c.do(ctx, http.MethodPut, "/appointments/"+url.PathEscape(id)+"/cancel", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
