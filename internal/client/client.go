// Package client implements the interactive side of the reservation
// protocol: a hand-framed HTTP client over TCP, the console command parser,
// and the schedule renderer.
package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/example/court-reservation/internal/httpwire"
)

const (
	dialTimeout     = 10 * time.Second
	exchangeTimeout = 5 * time.Second
)

// APIError is a non-2xx protocol response decoded into its reason code and
// message.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("server answered %d %s", e.Status, httpwire.StatusText(e.Status))
}

// Client talks to the reservation server, opening a fresh connection per
// request the way the protocol's reference client does.
type Client struct {
	addr string
}

// New constructs a Client for the given server address.
func New(addr string) *Client {
	return &Client{addr: addr}
}

func (c *Client) do(ctx context.Context, method, path, token string, payload any) (*httpwire.Response, error) {
	req := &httpwire.Request{
		Method: method,
		Path:   path,
		Proto:  "HTTP/1.1",
		Header: make(httpwire.Header),
	}
	req.Header.Set("Host", c.addr)
	req.Header.Set("Connection", "close")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		req.Body = body
		req.Header.Set("Content-Type", "application/json")
	}

	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", c.addr, err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(exchangeTimeout)); err != nil {
		return nil, err
	}
	if _, err := req.WriteTo(conn); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	resp, err := httpwire.ReadResponse(bufio.NewReader(conn))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return resp, nil
}

func decodeInto(resp *httpwire.Response, out any) error {
	if resp.Status >= 200 && resp.Status < 300 {
		if out == nil || len(resp.Body) == 0 {
			return nil
		}
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return fmt.Errorf("decode response body: %w", err)
		}
		return nil
	}

	apiErr := &APIError{Status: resp.Status}
	var body struct {
		ErrorCode string `json:"error_code"`
		Message   string `json:"message"`
	}
	if json.Unmarshal(resp.Body, &body) == nil {
		apiErr.Code = body.ErrorCode
		apiErr.Message = body.Message
	}
	return apiErr
}

// LoginResult carries the issued token.
type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Login authenticates against the static roster.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	resp, err := c.do(ctx, "POST", "/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return LoginResult{}, err
	}
	var result LoginResult
	if err := decodeInto(resp, &result); err != nil {
		return LoginResult{}, err
	}
	return result, nil
}

// Logout revokes the token server side.
func (c *Client) Logout(ctx context.Context, token string) error {
	resp, err := c.do(ctx, "POST", "/logout", token, nil)
	if err != nil {
		return err
	}
	return decodeInto(resp, nil)
}

// Slot mirrors one schedule cell as the server reports it.
type Slot struct {
	Hour       int    `json:"hour"`
	TimeSlot   string `json:"time_slot"`
	Available  bool   `json:"available"`
	ReservedBy string `json:"reserved_by"`
}

// DaySchedule is one day's slot row.
type DaySchedule struct {
	Day   string `json:"day"`
	Slots []Slot `json:"slots"`
}

// WeekSchedule fetches the full grid.
func (c *Client) WeekSchedule(ctx context.Context, token string) ([]DaySchedule, error) {
	resp, err := c.do(ctx, "GET", "/schedule", token, nil)
	if err != nil {
		return nil, err
	}
	var result struct {
		Days []DaySchedule `json:"days"`
	}
	if err := decodeInto(resp, &result); err != nil {
		return nil, err
	}
	return result.Days, nil
}

// DayScheduleFor fetches one day's row.
func (c *Client) DayScheduleFor(ctx context.Context, token, day string) (DaySchedule, error) {
	resp, err := c.do(ctx, "GET", "/schedule/"+day, token, nil)
	if err != nil {
		return DaySchedule{}, err
	}
	var result DaySchedule
	if err := decodeInto(resp, &result); err != nil {
		return DaySchedule{}, err
	}
	return result, nil
}

// Reservation mirrors a booked slot as the server reports it.
type Reservation struct {
	Username string `json:"username"`
	Day      string `json:"day"`
	Hour     int    `json:"hour"`
	TimeSlot string `json:"time_slot"`
}

// MyReservations lists the caller's bookings.
func (c *Client) MyReservations(ctx context.Context, token string) ([]Reservation, error) {
	resp, err := c.do(ctx, "GET", "/reservations", token, nil)
	if err != nil {
		return nil, err
	}
	var result struct {
		Reservations []Reservation `json:"reservations"`
	}
	if err := decodeInto(resp, &result); err != nil {
		return nil, err
	}
	return result.Reservations, nil
}

// Reserve books one slot.
func (c *Client) Reserve(ctx context.Context, token, day string, hour int) (Reservation, error) {
	resp, err := c.do(ctx, "POST", "/reservations", token, map[string]any{
		"day":  day,
		"hour": hour,
	})
	if err != nil {
		return Reservation{}, err
	}
	var result Reservation
	if err := decodeInto(resp, &result); err != nil {
		return Reservation{}, err
	}
	return result, nil
}

// Cancel frees the caller's booking on a day.
func (c *Client) Cancel(ctx context.Context, token, day string) (Reservation, error) {
	resp, err := c.do(ctx, "DELETE", "/reservations/"+day, token, nil)
	if err != nil {
		return Reservation{}, err
	}
	var result Reservation
	if err := decodeInto(resp, &result); err != nil {
		return Reservation{}, err
	}
	return result, nil
}
