package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/habitd/habitd/pkg/habit"
)

// Client talks to the habits REST API. Toggle calls can be previewed
// locally for immediate feedback, but the server response is always
// authoritative: callers adopt it wholesale and discard the preview.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func New(base, token string) *Client {
	return &Client{
		BaseURL: base,
		Token:   token,
		HTTP:    http.DefaultClient,
	}
}

type habitListResponse struct {
	Habits []habit.Habit `json:"habits"`
}

type habitSummaryResponse struct {
	HabitID      string             `json:"habit_id"`
	HabitSummary habit.HabitSummary `json:"habit_summary"`
}

type toggleRequest struct {
	Date     string `json:"date"`
	Timezone string `json:"timezone,omitempty"`
}

type createHabitRequest struct {
	Title           string          `json:"title"`
	Description     string          `json:"description,omitempty"`
	Category        string          `json:"category,omitempty"`
	Color           string          `json:"color,omitempty"`
	Priority        int             `json:"priority,omitempty"`
	Frequency       habit.Frequency `json:"frequency"`
	CustomFrequency string          `json:"custom_frequency,omitempty"`
	CustomDays      []int           `json:"custom_days,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("%s %s: %s", method, path, res.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) ListHabits(ctx context.Context) ([]habit.Habit, error) {
	var resp habitListResponse
	if err := c.do(ctx, http.MethodGet, "/habits/", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Habits, nil
}

func (c *Client) GetHabit(ctx context.Context, id string) (*habit.Habit, error) {
	var h habit.Habit
	if err := c.do(ctx, http.MethodGet, "/habits/"+id, nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) CreateHabit(ctx context.Context, title, description string, freq habit.Frequency, customFrequency string, customDays []int) (*habit.Habit, error) {
	req := createHabitRequest{
		Title:           title,
		Description:     description,
		Frequency:       freq,
		CustomFrequency: customFrequency,
		CustomDays:      customDays,
	}
	var h habit.Habit
	if err := c.do(ctx, http.MethodPost, "/habits/", req, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) Complete(ctx context.Context, id, date, timezone string) (*habit.Habit, error) {
	return c.toggle(ctx, id, date, timezone, "complete")
}

func (c *Client) Uncomplete(ctx context.Context, id, date, timezone string) (*habit.Habit, error) {
	return c.toggle(ctx, id, date, timezone, "uncomplete")
}

func (c *Client) toggle(ctx context.Context, id, date, timezone, action string) (*habit.Habit, error) {
	var h habit.Habit
	err := c.do(ctx, http.MethodPost, "/habits/"+id+"/"+action,
		toggleRequest{Date: date, Timezone: timezone}, &h)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) GetHabitSummary(ctx context.Context, id string) (*habit.HabitSummary, error) {
	var resp habitSummaryResponse
	if err := c.do(ctx, http.MethodGet, "/habits/"+id+"/summary", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.HabitSummary, nil
}

// PreviewToggle computes the state a toggle is expected to produce,
// using the same engine the server runs. It never replaces the server
// response; on request failure the preview is simply thrown away.
func PreviewToggle(h habit.Habit, day, today habit.Day, complete bool) habit.Habit {
	habit.ApplyToggle(&h, day, today, complete)
	return h
}
