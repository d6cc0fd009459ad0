package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"video-portal/pkg/api"
)

const multipartSlack = 1 << 20

func (h *Handler) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	if email == "" || password == "" {
		notify(c, "Missing information", "Please enter your email and password.", true)
		redirect(c, "/auth")
		return
	}
	if err := h.session.Login(c.Request.Context(), email, password); err != nil {
		notify(c, "Login failed", api.Message(err), true)
		redirect(c, "/auth")
		return
	}
	notify(c, "Welcome back!", "", false)
	redirect(c, "/")
}

func (h *Handler) Signup(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	if username == "" || email == "" || password == "" {
		notify(c, "Missing information", "Please fill in every field.", true)
		redirect(c, "/auth?mode=signup")
		return
	}
	if err := h.session.Signup(c.Request.Context(), username, email, password); err != nil {
		notify(c, "Signup failed", api.Message(err), true)
		redirect(c, "/auth?mode=signup")
		return
	}
	notify(c, "Account created!", "", false)
	redirect(c, "/")
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.session.Logout(); err != nil {
		h.logFor(c).WithError(err).Error("logout")
		notify(c, "Logout incomplete", "You are signed out for now, but the saved login could not be removed.", true)
		redirect(c, "/")
		return
	}
	notify(c, "Logged out", "", false)
	redirect(c, "/")
}

// Like never calls the service for an anonymous user.
func (h *Handler) Like(c *gin.Context) {
	id, ok := videoID(c)
	if !ok {
		h.notFound(c, "Video not found", "This video does not exist.")
		return
	}
	back := watchPath(id)
	if !h.session.IsAuthenticated() {
		notify(c, "Login required", "Please login to like videos.", true)
		redirect(c, back)
		return
	}

	_, err := h.api.LikeVideo(c.Request.Context(), id)
	switch {
	case err == nil:
		h.reactions.Liked(id)
		notify(c, "Video liked!", "", false)
	case errors.Is(err, api.ErrNotAuthenticated):
		notify(c, "Login required", "Please login to like videos.", true)
	default:
		h.logFor(c).WithError(err).Info("like video")
		notify(c, "Already liked", api.Message(err), false)
	}
	redirect(c, back)
}

func (h *Handler) Dislike(c *gin.Context) {
	id, ok := videoID(c)
	if !ok {
		h.notFound(c, "Video not found", "This video does not exist.")
		return
	}
	h.reactions.ToggleDislike(id)
	redirect(c, watchPath(id))
}

// Comment redirects back to the watch page, which fetches the comment list
// again. A failed submit keeps the text as a draft.
func (h *Handler) Comment(c *gin.Context) {
	id, ok := videoID(c)
	if !ok {
		h.notFound(c, "Video not found", "This video does not exist.")
		return
	}
	back := watchPath(id) + "#comments"
	if !h.session.IsAuthenticated() {
		notify(c, "Login required", "Please login to comment.", true)
		redirect(c, back)
		return
	}
	content := c.PostForm("content")
	if strings.TrimSpace(content) == "" {
		redirect(c, back)
		return
	}

	if _, err := h.api.AddComment(c.Request.Context(), id, content); err != nil {
		h.logFor(c).WithError(err).Warn("add comment")
		setFlash(c, flash{
			Notice: &Notice{Title: "Failed to add comment", Description: api.Message(err), Destructive: true},
			Draft:  content,
		})
		redirect(c, back)
		return
	}
	notify(c, "Comment added!", "", false)
	redirect(c, back)
}

func (h *Handler) ToggleWatchLater(c *gin.Context) {
	id, ok := videoID(c)
	if !ok {
		h.notFound(c, "Video not found", "This video does not exist.")
		return
	}
	back := localPath(c.PostForm("next"), watchPath(id))

	added, err := h.watchLater.Toggle(id)
	switch {
	case err != nil:
		h.logFor(c).WithError(err).Error("toggle watch later")
		notify(c, "Could not update Watch Later", "Please try again.", true)
	case added:
		notify(c, "Added to Watch Later", "", false)
	default:
		notify(c, "Removed from Watch Later", "", false)
	}
	redirect(c, back)
}

func (h *Handler) Upload(c *gin.Context) {
	if !h.session.IsAuthenticated() {
		notify(c, "Login required", "You need to be logged in to upload videos.", true)
		redirect(c, "/auth")
		return
	}
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload+multipartSlack)
	}

	fh, err := c.FormFile("video")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			notify(c, "File too large", "Videos can be at most "+api.FormatSize(h.maxUpload)+".", true)
		} else {
			notify(c, "Missing information", "Please select a video and provide a title.", true)
		}
		redirect(c, "/upload")
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		title = api.TitleFromFilename(fh.Filename)
	}
	f, err := fh.Open()
	if err != nil {
		h.logFor(c).WithError(err).Error("open uploaded file")
		notify(c, "Upload failed", "Could not read the selected file.", true)
		redirect(c, "/upload")
		return
	}
	defer f.Close()

	log := h.logFor(c).WithFields(logrus.Fields{"filename": fh.Filename, "size": fh.Size})
	u := api.Upload{
		Title:       title,
		Description: c.PostForm("description"),
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
		Progress:    progressLogger(log),
	}
	if err := u.Validate(h.maxUpload); err != nil {
		var vErr *api.ValidationError
		if errors.As(err, &vErr) {
			notify(c, vErr.Title, vErr.Message, true)
		}
		redirect(c, "/upload")
		return
	}

	if _, err := h.api.UploadVideo(c.Request.Context(), u); err != nil {
		log.WithError(err).Warn("upload video")
		notify(c, "Upload failed", api.Message(err), true)
		redirect(c, "/upload")
		return
	}
	log.Info("video uploaded")
	notify(c, "Video uploaded!", "Your video is now being processed.", false)
	redirect(c, "/")
}

// progressLogger logs every tenth of the upload.
func progressLogger(log *logrus.Entry) func(sent, total int64) {
	next := int64(10)
	return func(sent, total int64) {
		if total <= 0 {
			return
		}
		pct := sent * 100 / total
		for pct >= next && next <= 100 {
			log.WithField("percent", next).Debug("upload progress")
			next += 10
		}
	}
}
