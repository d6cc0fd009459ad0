package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"video-portal/pkg/models"
)

// Upload is one video file plus its metadata. Body is streamed, never
// buffered whole.
type Upload struct {
	Title       string
	Description string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	// Progress, if set, is called as bytes of Body are sent.
	Progress func(sent, total int64)
}

// TitleFromFilename strips the directory and the last extension.
func TitleFromFilename(name string) string {
	base := filepath.Base(name)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// Validate checks the upload the way the upload form does. maxBytes <= 0
// disables the size check.
func (u *Upload) Validate(maxBytes int64) error {
	if u.Body == nil || u.Filename == "" || strings.TrimSpace(u.Title) == "" {
		return &ValidationError{Field: "video", Title: "Missing information", Message: "Please select a video and provide a title."}
	}
	if !strings.HasPrefix(strings.ToLower(u.ContentType), "video/") {
		return &ValidationError{Field: "video", Title: "Invalid file type", Message: "Please select a video file."}
	}
	if maxBytes > 0 && u.Size > maxBytes {
		return &ValidationError{Field: "video", Title: "File too large", Message: "Videos can be at most " + FormatSize(maxBytes) + "."}
	}
	return nil
}

// FormatSize renders a byte count with the largest unit that fits.
func FormatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return inUnit(n, 1<<20, "MB")
	case n >= 1<<10:
		return inUnit(n, 1<<10, "KB")
	case n == 1:
		return "1 byte"
	}
	return fmt.Sprintf("%d bytes", n)
}

func inUnit(n, unit int64, name string) string {
	if n%unit == 0 {
		return fmt.Sprintf("%d %s", n/unit, name)
	}
	return fmt.Sprintf("%.1f %s", float64(n)/float64(unit), name)
}

// UploadVideo fails with ErrNotAuthenticated before touching the network
// when no token is stored.
func (c *Client) UploadVideo(ctx context.Context, u Upload) (*models.Video, error) {
	if _, ok := c.tokens.Token(); !ok {
		return nil, ErrNotAuthenticated
	}
	if err := u.Validate(0); err != nil {
		return nil, err
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeUploadForm(mw, u))
	}()
	defer pr.Close()

	var one videoOne
	err := c.do(ctx, call{
		op:          "upload video",
		method:      http.MethodPost,
		path:        "/api/videos/upload",
		body:        pr,
		contentType: mw.FormDataContentType(),
		requireAuth: true,
		fallback:    "Upload failed",
	}, &one)
	if err != nil {
		return nil, err
	}
	return &one.Video, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writeUploadForm(mw *multipart.Writer, u Upload) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="video"; filename="%s"`, quoteEscaper.Replace(filepath.Base(u.Filename))))
	h.Set("Content-Type", u.ContentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return errors.Wrap(err, "create video part")
	}

	var src io.Reader = u.Body
	if u.Progress != nil {
		src = &progressReader{r: u.Body, total: u.Size, fn: u.Progress}
	}
	if _, err := io.Copy(part, src); err != nil {
		return errors.Wrap(err, "copy video")
	}
	if err := mw.WriteField("title", strings.TrimSpace(u.Title)); err != nil {
		return errors.Wrap(err, "write title")
	}
	if err := mw.WriteField("description", u.Description); err != nil {
		return errors.Wrap(err, "write description")
	}
	return mw.Close()
}

type progressReader struct {
	r     io.Reader
	sent  int64
	total int64
	fn    func(sent, total int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		p.fn(p.sent, p.total)
	}
	return n, err
}
