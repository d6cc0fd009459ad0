package api

import (
	"context"
	"net/http"
	"strconv"

	"video-portal/pkg/models"
)

// LikeVideo records a like. A duplicate like comes back as a RequestError
// carrying the service's message.
func (c *Client) LikeVideo(ctx context.Context, videoID int64) (*models.Like, error) {
	like := models.Like{VideoID: videoID}
	err := c.do(ctx, call{
		op:          "like video",
		method:      http.MethodPost,
		path:        "/api/likes/" + strconv.FormatInt(videoID, 10),
		requireAuth: true,
		fallback:    "Failed to like video",
	}, &like)
	if err != nil {
		return nil, err
	}
	return &like, nil
}
