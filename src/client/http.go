// Package client submits scores to a dive server and keeps the ones that
// could not be delivered in a bounded retry queue.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dive-server/src/store"
)

// SubmitTimeout bounds one score submission.
const SubmitTimeout = 5 * time.Second

// Submitter delivers one score.
type Submitter interface {
	Submit(ctx context.Context, sub store.Submission) (store.Score, error)
}

// Leaderboarder fetches the ranked top entries.
type Leaderboarder interface {
	Leaderboard(ctx context.Context, limit int) ([]store.Entry, error)
}

// Transport is what the terminal client talks to. Both HTTP and
// rpc.Client satisfy it.
type Transport interface {
	Submitter
	Leaderboarder
}

// HTTP talks to the JSON endpoints at BaseURL.
type HTTP struct {
	BaseURL string
	client  *http.Client
}

func NewHTTP(baseURL string) *HTTP {
	return &HTTP{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: SubmitTimeout},
	}
}

type apiReply struct {
	OK        bool          `json:"ok"`
	Message   string        `json:"message"`
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Data      []store.Entry `json:"data"`
}

// ServerError is a non-2xx reply.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server replied %d", e.Status)
	}
	return fmt.Sprintf("server replied %d: %s", e.Status, e.Message)
}

func (h *HTTP) do(req *http.Request) (apiReply, error) {
	var reply apiReply
	resp, err := h.client.Do(req)
	if err != nil {
		return reply, err
	}
	defer resp.Body.Close()
	decodeErr := json.NewDecoder(resp.Body).Decode(&reply)
	if resp.StatusCode/100 != 2 || !reply.OK {
		return reply, &ServerError{Status: resp.StatusCode, Message: reply.Message}
	}
	if decodeErr != nil {
		return reply, fmt.Errorf("decode reply: %w", decodeErr)
	}
	return reply, nil
}

// Submit POSTs one score to /score.
func (h *HTTP) Submit(ctx context.Context, sub store.Submission) (store.Score, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return store.Score{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.BaseURL+"/score", bytes.NewReader(body))
	if err != nil {
		return store.Score{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	reply, err := h.do(req)
	if err != nil {
		return store.Score{}, err
	}
	return store.Score{
		ID:        reply.ID,
		Name:      sub.Name,
		Phone:     sub.Phone,
		Depth:     sub.Depth,
		Character: sub.Character,
		CreatedAt: reply.CreatedAt,
	}, nil
}

// Leaderboard GETs /leaderboard?limit=N.
func (h *HTTP) Leaderboard(ctx context.Context, limit int) ([]store.Entry, error) {
	q := url.Values{"limit": []string{strconv.Itoa(limit)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.BaseURL+"/leaderboard?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	reply, err := h.do(req)
	if err != nil {
		return nil, err
	}
	return reply.Data, nil
}
