package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"video-portal/pkg/api"
	"video-portal/pkg/logger"
	"video-portal/pkg/models"
	"video-portal/pkg/session"
)

const relatedLimit = 8

type Handler struct {
	api        *api.Client
	session    *session.Session
	watchLater *session.WatchLater
	reactions  *session.Reactions
	log        *logrus.Logger
	maxUpload  int64
}

type Options struct {
	Client     *api.Client
	Session    *session.Session
	WatchLater *session.WatchLater
	Reactions  *session.Reactions
	Log        *logrus.Logger
	// MaxUploadBytes caps a single video upload.
	MaxUploadBytes int64
}

func New(o Options) *Handler {
	if o.Log == nil {
		o.Log = logger.Discard()
	}
	if o.Reactions == nil {
		o.Reactions = session.NewReactions()
	}
	return &Handler{
		api:        o.Client,
		session:    o.Session,
		watchLater: o.WatchLater,
		reactions:  o.Reactions,
		log:        o.Log,
		maxUpload:  o.MaxUploadBytes,
	}
}

// page fills the fields every template's header needs.
func (h *Handler) page(c *gin.Context, title string, data gin.H) gin.H {
	f := takeFlash(c)
	out := gin.H{
		"Title":           title,
		"IsAuthenticated": h.session.IsAuthenticated(),
		"Username":        h.session.Username(),
		"Notice":          f.Notice,
		"Draft":           f.Draft,
		"WatchLaterCount": h.watchLater.Len(),
		"Query":           "",
	}
	for k, v := range data {
		out[k] = v
	}
	return out
}

func (h *Handler) logFor(c *gin.Context) *logrus.Entry {
	return h.log.WithField("request_id", c.GetString(requestIDKey))
}

func (h *Handler) notFound(c *gin.Context, title, message string) {
	c.HTML(http.StatusNotFound, "notfound.tmpl", h.page(c, title, gin.H{"Message": message}))
}

// failed renders the error page for a read that could not complete.
func (h *Handler) failed(c *gin.Context, what string, err error) {
	h.logFor(c).WithError(err).WithField("outcome", api.Classify(err).String()).Warn(what)
	c.HTML(http.StatusBadGateway, "error.tmpl", h.page(c, "Something went wrong", gin.H{
		"Message": api.Message(err),
	}))
}

func videoID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// localPath keeps redirects on this site.
func localPath(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}

func watchPath(id int64) string {
	return "/watch/" + strconv.FormatInt(id, 10)
}

func related(all []models.Video, exclude int64) []models.Video {
	out := make([]models.Video, 0, relatedLimit)
	for _, v := range all {
		if v.ID == exclude {
			continue
		}
		out = append(out, v)
		if len(out) == relatedLimit {
			break
		}
	}
	return out
}
