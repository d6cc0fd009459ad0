package api

import (
	"net/url"
	"strings"
)

// MediaURL resolves a video's media reference to something a browser can
// play.
func (c *Client) MediaURL(ref string) string {
	return c.resolve(ref, "")
}

// ThumbnailURL is MediaURL for thumbnails, which live under thumbnails/.
func (c *Client) ThumbnailURL(ref string) string {
	return c.resolve(ref, "thumbnails/")
}

func (c *Client) resolve(ref, dir string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	if strings.HasPrefix(ref, "/") {
		return c.baseURL + ref
	}
	if c.presigner != nil {
		u, err := c.presigner.URL(dir + ref)
		if err == nil {
			return u
		}
		c.log.WithError(err).WithField("ref", ref).Warn("presign media failed, using uploads path")
	}
	return c.baseURL + "/uploads/" + dir + url.PathEscape(ref)
}
