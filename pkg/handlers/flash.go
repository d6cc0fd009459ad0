package handlers

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gin-gonic/gin"
)

const flashCookie = "portal_flash"

// Notice is a transient notification shown once on the next page.
type Notice struct {
	Title       string `json:"t"`
	Description string `json:"d,omitempty"`
	Destructive bool   `json:"x,omitempty"`
}

type flash struct {
	Notice *Notice `json:"n,omitempty"`
	// Draft refills the comment box after a failed submit.
	Draft string `json:"c,omitempty"`
}

func setFlash(c *gin.Context, f flash) {
	b, err := json.Marshal(f)
	if err != nil {
		return
	}
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(b), 60, "/", "", false, true)
}

func notify(c *gin.Context, title, description string, destructive bool) {
	setFlash(c, flash{Notice: &Notice{Title: title, Description: description, Destructive: destructive}})
}

// takeFlash reads and clears the pending flash.
func takeFlash(c *gin.Context) flash {
	var f flash
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return f
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return flash{}
	}
	if err := json.Unmarshal(b, &f); err != nil {
		return flash{}
	}
	return f
}
