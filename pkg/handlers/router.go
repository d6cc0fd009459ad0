package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"video-portal/pkg/api"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

const requestIDKey = "request_id"

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Request = c.Request.WithContext(api.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func accessLog(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"request_id": c.GetString(requestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
		}).Info("page request")
	}
}

// sameOrigin rejects state-changing requests sent by another site. Every
// POST acts with the stored token.
func (h *Handler) sameOrigin() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if crossSite(c.Request) {
			h.logFor(c).WithFields(logrus.Fields{
				"origin":         c.GetHeader("Origin"),
				"sec_fetch_site": c.GetHeader("Sec-Fetch-Site"),
			}).Warn("rejected cross-site request")
			c.HTML(http.StatusForbidden, "error.tmpl", h.page(c, "Request blocked", gin.H{
				"Message": "This action must be sent from the portal itself.",
			}))
			c.Abort()
			return
		}
		c.Next()
	}
}

func crossSite(r *http.Request) bool {
	switch r.Header.Get("Sec-Fetch-Site") {
	case "", "same-origin", "none":
	default:
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return true
	}
	return u.Host != r.Host
}

func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog(h.log), h.sameOrigin())

	tmpl := template.Must(template.New("").Funcs(templateFuncs(h.api)).ParseFS(templatesFS, "templates/*.tmpl"))
	r.SetHTMLTemplate(tmpl)
	// Keep large uploads on disk instead of in memory.
	r.MaxMultipartMemory = 8 << 20

	r.GET("/", h.Index)
	r.GET("/search", h.Search)
	r.GET("/watch/:id", h.Watch)
	r.POST("/watch/:id/like", h.Like)
	r.POST("/watch/:id/dislike", h.Dislike)
	r.POST("/watch/:id/comments", h.Comment)
	r.GET("/watch-later", h.WatchLaterPage)
	r.POST("/watch-later/:id/toggle", h.ToggleWatchLater)
	r.GET("/channel/:id", h.Channel)

	r.GET("/auth", h.AuthPage)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/signup", h.Signup)
	r.POST("/auth/logout", h.Logout)

	r.GET("/upload", h.UploadPage)
	r.POST("/upload", h.Upload)

	r.NoRoute(func(c *gin.Context) {
		h.notFound(c, "Page not found", "Oops! Page not found")
	})
	return r
}

func redirect(c *gin.Context, to string) {
	c.Redirect(http.StatusSeeOther, to)
}
