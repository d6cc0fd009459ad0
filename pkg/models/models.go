package models

import (
	"time"
)

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Uploader is the user summary embedded in a video.
type Uploader struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

type Video struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Filename    string    `json:"filename"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Views       int64     `json:"views"`
	UserID      int64     `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Uploader    *Uploader `json:"uploader,omitempty"`
}

func (v Video) UploaderName() string {
	if v.Uploader == nil || v.Uploader.Username == "" {
		return "Unknown"
	}
	return v.Uploader.Username
}

type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	VideoID   int64     `json:"videoId"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	User      *User     `json:"user,omitempty"`
}

func (c Comment) AuthorName() string {
	if c.User == nil || c.User.Username == "" {
		return "Anonymous"
	}
	return c.User.Username
}

type Like struct {
	ID      int64 `json:"id"`
	VideoID int64 `json:"videoId"`
	UserID  int64 `json:"userId"`
}

// Channel is a user together with the videos they uploaded.
type Channel struct {
	User   User    `json:"user"`
	Videos []Video `json:"videos"`
}
