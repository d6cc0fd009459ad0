package handlers

import (
	"fmt"
	"html/template"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"video-portal/pkg/api"
)

var now = time.Now

func formatViews(views int64) string {
	switch {
	case views >= 1_000_000:
		return fmt.Sprintf("%.1fM views", float64(views)/1_000_000)
	case views >= 1_000:
		return fmt.Sprintf("%dK views", views/1_000)
	}
	return fmt.Sprintf("%d views", views)
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now().Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int64(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return plural(int64(d/time.Hour), "hour")
	case d < 7*24*time.Hour:
		return plural(int64(d/(24*time.Hour)), "day")
	case d < 30*24*time.Hour:
		return plural(int64(d/(7*24*time.Hour)), "week")
	case d < 365*24*time.Hour:
		return plural(int64(d/(30*24*time.Hour)), "month")
	}
	return plural(int64(d/(365*24*time.Hour)), "year")
}

// initial is the avatar letter for a name.
func initial(name string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	if r == utf8.RuneError {
		return "?"
	}
	return string(unicode.ToUpper(r))
}

func templateFuncs(client *api.Client) template.FuncMap {
	return template.FuncMap{
		"formatViews":  formatViews,
		"relativeTime": relativeTime,
		"initial":      initial,
		"mediaURL":     client.MediaURL,
		"thumbnailURL": client.ThumbnailURL,
	}
}
