// Package host is the boundary to the forum platform that owns topics, users
// and group membership. Everything here is read-only: the slotting service
// never writes through this interface.
package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"slotboard/models"
)

var ErrTopicNotFound = errors.New("topic not found")

// Forum answers topic lookups and permission questions.
type Forum interface {
	Topic(ctx context.Context, topicID string) (*models.Topic, error)
	CanSee(ctx context.Context, userID, topicID string) (bool, error)
	CanAttend(ctx context.Context, userID, topicID string) (bool, error)
	CanEdit(ctx context.Context, userID, topicID string) (bool, error)
}

// Client talks to the forum's internal REST API.
type Client struct {
	base string
	http *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		base: baseURL,
		http: &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *Client) Topic(ctx context.Context, topicID string) (*models.Topic, error) {
	var t models.Topic
	err := c.get(ctx, fmt.Sprintf("%s/api/internal/topic/%s", c.base, url.PathEscape(topicID)), &t)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) CanSee(ctx context.Context, userID, topicID string) (bool, error) {
	return c.privilege(ctx, userID, topicID, "see")
}

func (c *Client) CanAttend(ctx context.Context, userID, topicID string) (bool, error) {
	return c.privilege(ctx, userID, topicID, "attend")
}

func (c *Client) CanEdit(ctx context.Context, userID, topicID string) (bool, error) {
	return c.privilege(ctx, userID, topicID, "edit")
}

func (c *Client) privilege(ctx context.Context, userID, topicID, priv string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	u := fmt.Sprintf("%s/api/internal/topic/%s/privilege/%s?uid=%s",
		c.base, url.PathEscape(topicID), priv, url.QueryEscape(userID))
	var out struct {
		Allowed bool `json:"allowed"`
	}
	if err := c.get(ctx, u, &out); err != nil {
		if errors.Is(err, ErrTopicNotFound) {
			return false, nil
		}
		return false, err
	}
	return out.Allowed, nil
}

func (c *Client) get(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrTopicNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("forum api: unexpected status %d for %s", resp.StatusCode, u)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
