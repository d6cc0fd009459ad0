package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"video-portal/pkg/api"
	"video-portal/pkg/models"
)

func (h *Handler) Index(c *gin.Context) {
	category := models.LookupCategory(c.Query("category"))

	videos, err := h.api.GetVideos(c.Request.Context())
	if err != nil {
		h.failed(c, "list videos", err)
		return
	}

	heading := category.Name
	if category.ID == models.DefaultCategory {
		heading = "All Videos"
	}
	c.HTML(http.StatusOK, "index.tmpl", h.page(c, "Home", gin.H{
		"Categories":     models.Categories(),
		"ActiveCategory": category.ID,
		"Heading":        heading,
		"Videos":         videos,
	}))
}

func (h *Handler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))

	videos, err := h.api.SearchVideos(c.Request.Context(), query)
	if err != nil {
		h.failed(c, "search videos", err)
		return
	}
	c.HTML(http.StatusOK, "search.tmpl", h.page(c, "Search", gin.H{
		"Query":  query,
		"Videos": videos,
	}))
}

func (h *Handler) Watch(c *gin.Context) {
	id, ok := videoID(c)
	if !ok {
		h.notFound(c, "Video not found", "This video does not exist.")
		return
	}
	ctx := c.Request.Context()

	video, err := h.api.GetVideo(ctx, id)
	if api.Classify(err) == api.NotFound {
		h.notFound(c, "Video not found", "This video does not exist.")
		return
	}
	if err != nil {
		h.failed(c, "get video", err)
		return
	}

	// Comments and related videos are secondary; the page renders without them.
	comments, err := h.api.GetComments(ctx, id)
	if err != nil {
		h.logFor(c).WithError(err).Warn("list comments")
		comments = []models.Comment{}
	}
	all, err := h.api.GetVideos(ctx)
	if err != nil {
		h.logFor(c).WithError(err).Warn("list related videos")
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	c.HTML(http.StatusOK, "watch.tmpl", h.page(c, video.Title, gin.H{
		"Video":        video,
		"Comments":     comments,
		"Related":      related(all, id),
		"InWatchLater": h.watchLater.Contains(id),
		"Reaction":     h.reactions.Get(id),
		"ShareURL":     scheme + "://" + c.Request.Host + watchPath(id),
	}))
}

func (h *Handler) Channel(c *gin.Context) {
	id, ok := videoID(c)
	if !ok {
		h.notFound(c, "Channel not found", "Channel not found")
		return
	}
	ch, err := h.api.GetUser(c.Request.Context(), id)
	if api.Classify(err) == api.NotFound {
		h.notFound(c, "Channel not found", "Channel not found")
		return
	}
	if err != nil {
		h.failed(c, "get user", err)
		return
	}
	c.HTML(http.StatusOK, "channel.tmpl", h.page(c, ch.User.Username, gin.H{
		"User":   ch.User,
		"Videos": ch.Videos,
	}))
}

// WatchLaterPage looks each saved id up. Ids the service no longer knows are
// skipped.
func (h *Handler) WatchLaterPage(c *gin.Context) {
	ctx := c.Request.Context()
	ids := h.watchLater.IDs()
	videos := make([]models.Video, 0, len(ids))
	unavailable := 0
	for _, id := range ids {
		v, err := h.api.GetVideo(ctx, id)
		switch api.Classify(err) {
		case api.OK:
			videos = append(videos, *v)
		case api.NotFound:
		default:
			unavailable++
			h.logFor(c).WithError(err).WithField("video_id", id).Warn("watch later lookup")
		}
	}

	data := h.page(c, "Watch Later", gin.H{
		"Videos":      videos,
		"Unavailable": unavailable,
	})
	c.HTML(http.StatusOK, "watchlater.tmpl", data)
}

func (h *Handler) AuthPage(c *gin.Context) {
	mode := c.Query("mode")
	if mode != "signup" {
		mode = "login"
	}
	c.HTML(http.StatusOK, "auth.tmpl", h.page(c, "Sign in", gin.H{"Mode": mode}))
}

func (h *Handler) UploadPage(c *gin.Context) {
	if !h.session.IsAuthenticated() {
		c.HTML(http.StatusUnauthorized, "loginrequired.tmpl", h.page(c, "Login Required", nil))
		return
	}
	c.HTML(http.StatusOK, "upload.tmpl", h.page(c, "Upload Video", gin.H{
		"MaxSize": api.FormatSize(h.maxUpload),
	}))
}
