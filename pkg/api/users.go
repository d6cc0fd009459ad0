package api

import (
	"context"
	"net/http"
	"strconv"

	"video-portal/pkg/models"
)

// GetUser returns the user and their videos.
func (c *Client) GetUser(ctx context.Context, id int64) (*models.Channel, error) {
	var ch models.Channel
	err := c.do(ctx, call{
		op:       "get user",
		method:   http.MethodGet,
		path:     "/api/users/" + strconv.FormatInt(id, 10),
		fallback: "Failed to fetch user",
	}, &ch)
	if err != nil {
		return nil, err
	}
	if ch.User.ID == 0 {
		return nil, &RequestError{Op: "get user", StatusCode: http.StatusOK, Message: "Not found.", Err: ErrNotFound}
	}
	if ch.Videos == nil {
		ch.Videos = []models.Video{}
	}
	return &ch, nil
}
