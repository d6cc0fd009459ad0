package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"video-portal/pkg/models"
)

// commentList accepts both a bare array and a {"comments": [...]} envelope.
type commentList []models.Comment

func (l *commentList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var env struct {
			Comments []models.Comment `json:"comments"`
		}
		if err := json.Unmarshal(data, &env); err != nil {
			return err
		}
		*l = env.Comments
		return nil
	}
	var cs []models.Comment
	if err := json.Unmarshal(data, &cs); err != nil {
		return err
	}
	*l = cs
	return nil
}

func (c *Client) GetComments(ctx context.Context, videoID int64) ([]models.Comment, error) {
	var comments commentList
	err := c.do(ctx, call{
		op:       "list comments",
		method:   http.MethodGet,
		path:     "/api/comments/" + strconv.FormatInt(videoID, 10),
		fallback: "Failed to fetch comments",
	}, &comments)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		return []models.Comment{}, nil
	}
	return []models.Comment(comments), nil
}

func (c *Client) AddComment(ctx context.Context, videoID int64, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, &ValidationError{Field: "content", Title: "Failed to add comment", Message: "Comment cannot be empty."}
	}
	body, err := jsonBody(map[string]string{"content": content})
	if err != nil {
		return nil, err
	}
	var comment models.Comment
	err = c.do(ctx, call{
		op:          "add comment",
		method:      http.MethodPost,
		path:        "/api/comments/" + strconv.FormatInt(videoID, 10),
		body:        body,
		contentType: "application/json",
		requireAuth: true,
		fallback:    "Failed to add comment",
	}, &comment)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}
