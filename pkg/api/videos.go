package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"video-portal/pkg/models"
)

// videoList accepts both a bare array and a {"videos": [...]} envelope.
type videoList []models.Video

func (l *videoList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var env struct {
			Videos []models.Video `json:"videos"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			return err
		}
		*l = env.Videos
		return nil
	}
	var vs []models.Video
	if err := json.Unmarshal(data, &vs); err != nil {
		return err
	}
	*l = vs
	return nil
}

// videoOne accepts a bare video or a {"video": {...}} envelope.
type videoOne struct {
	models.Video
}

func (v *videoOne) UnmarshalJSON(data []byte) error {
	var env struct {
		Video *models.Video `json:"video"`
	}
	if err := json.Unmarshal(data, &env); err == nil && env.Video != nil {
		v.Video = *env.Video
		return nil
	}
	return json.Unmarshal(data, &v.Video)
}

func (c *Client) GetVideos(ctx context.Context) ([]models.Video, error) {
	var list videoList
	err := c.do(ctx, call{
		op:       "list videos",
		method:   http.MethodGet,
		path:     "/api/videos",
		fallback: "Failed to fetch videos",
	}, &list)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return []models.Video{}, nil
	}
	return []models.Video(list), nil
}

// GetVideo returns ErrNotFound (wrapped) when no video has the id.
func (c *Client) GetVideo(ctx context.Context, id int64) (*models.Video, error) {
	var one videoOne
	err := c.do(ctx, call{
		op:       "get video",
		method:   http.MethodGet,
		path:     "/api/videos/" + strconv.FormatInt(id, 10),
		fallback: "Failed to fetch video",
	}, &one)
	if err != nil {
		return nil, err
	}
	if one.ID == 0 {
		return nil, &RequestError{Op: "get video", StatusCode: http.StatusOK, Message: "Not found.", Err: ErrNotFound}
	}
	return &one.Video, nil
}

// SearchVideos makes no request for a blank query.
func (c *Client) SearchVideos(ctx context.Context, query string) ([]models.Video, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Video{}, nil
	}
	var list videoList
	err := c.do(ctx, call{
		op:       "search videos",
		method:   http.MethodGet,
		path:     "/api/videos/search",
		query:    url.Values{"q": {query}},
		fallback: "Failed to search videos",
	}, &list)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return []models.Video{}, nil
	}
	return []models.Video(list), nil
}
