package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTokens struct {
	mu    sync.Mutex
	token string
	fail  error
}

func (m *memTokens) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

func (m *memTokens) SetToken(t string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.token = t
	return nil
}

func (m *memTokens) ClearToken() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

const videosJSON = `[
	{"id": 1, "title": "Building Modern Web Apps", "description": "React and tooling", "filename": "a.mp4", "views": 10, "userId": 3},
	{"id": 2, "title": "Cinematic Photography", "filename": "b.mp4", "views": 20, "userId": 4}
]`

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *memTokens, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	tokens := &memTokens{}
	return New(srv.URL+"/", tokens), tokens, &hits
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func TestLoginStoresToken(t *testing.T) {
	c, tokens, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "a@example.com", creds["email"])
		assert.Equal(t, "pw", creds["password"])
		writeJSON(w, http.StatusOK, `{"token": "tok-1", "user": {"id": 1, "username": "alice"}}`)
	})

	token, err := c.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	stored, ok := tokens.Token()
	assert.True(t, ok)
	assert.Equal(t, "tok-1", stored)
}

func TestLoginFailureKeepsTokenStore(t *testing.T) {
	c, tokens, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"error": "Invalid credentials"}`)
	})
	tokens.token = "previous"

	_, err := c.Login(context.Background(), "a@example.com", "bad")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", Message(err))
	assert.Equal(t, TransportError, Classify(err))

	stored, _ := tokens.Token()
	assert.Equal(t, "previous", stored)
}

func TestSignupFallbackMessage(t *testing.T) {
	c, tokens, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/signup", r.URL.Path)
		writeJSON(w, http.StatusBadRequest, `not json`)
	})

	_, err := c.Signup(context.Background(), "alice", "a@example.com", "pw")
	require.Error(t, err)
	assert.Equal(t, "Signup failed", Message(err))
	_, ok := tokens.Token()
	assert.False(t, ok)
}

func TestLoginWithoutTokenInBody(t *testing.T) {
	c, tokens, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"message": "ok"}`)
	})

	_, err := c.Login(context.Background(), "a@example.com", "pw")
	require.Error(t, err)
	assert.Equal(t, "Login failed", Message(err))
	_, ok := tokens.Token()
	assert.False(t, ok)
}

func TestLoginTokenPersistFailure(t *testing.T) {
	c, tokens, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"token": "tok"}`)
	})
	tokens.fail = errors.New("disk full")

	_, err := c.Login(context.Background(), "a@example.com", "pw")
	require.Error(t, err)
	assert.Equal(t, "disk full", errors.Cause(err).Error())
}

func TestLogoutMakesNoRequest(t *testing.T) {
	c, tokens, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})
	tokens.token = "tok"

	require.NoError(t, c.Logout())
	_, ok := tokens.Token()
	assert.False(t, ok)
	assert.Zero(t, atomic.LoadInt32(hits))
}

func TestGetVideosAttachesBearerWhenPresent(t *testing.T) {
	c, tokens, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, videosJSON)
	})
	tokens.token = "tok"

	videos, err := c.GetVideos(context.Background())
	require.NoError(t, err)
	require.Len(t, videos, 2)
	assert.Equal(t, "Building Modern Web Apps", videos[0].Title)
}

func TestGetVideosEnvelope(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, `{"videos": `+videosJSON+`}`)
	})

	videos, err := c.GetVideos(context.Background())
	require.NoError(t, err)
	assert.Len(t, videos, 2)
}

func TestGetVideosFailureIsTransportError(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"message": "db down"}`)
	})

	videos, err := c.GetVideos(context.Background())
	assert.Nil(t, videos)
	assert.Equal(t, TransportError, Classify(err))
	assert.Equal(t, "db down", Message(err))

	var rErr *RequestError
	require.True(t, errors.As(err, &rErr))
	assert.Equal(t, http.StatusInternalServerError, rErr.StatusCode)
}

func TestGetVideosUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := New(srv.URL, &memTokens{})

	_, err := c.GetVideos(context.Background())
	assert.Equal(t, TransportError, Classify(err))
	assert.Equal(t, "Could not reach the video service.", Message(err))
}

func TestGetVideosMalformedBody(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[{"id": "x"`)
	})

	_, err := c.GetVideos(context.Background())
	assert.Equal(t, TransportError, Classify(err))
}

func TestGetVideoUsesLookupEndpoint(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/videos/42", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"id": 42, "title": "Norway", "filename": "n.mp4"}`)
	})

	v, err := c.GetVideo(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, "Norway", v.Title)
}

func TestGetVideoMissingIsNotFound(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"error": "Video not found"}`)
	})

	v, err := c.GetVideo(context.Background(), 999)
	assert.Nil(t, v)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, NotFound, Classify(err))
}

func TestSearchVideos(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/videos/search", r.URL.Path)
		if r.URL.Query().Get("q") == "xyz-no-match" {
			writeJSON(w, http.StatusOK, `[]`)
			return
		}
		writeJSON(w, http.StatusOK, videosJSON)
	})

	none, err := c.SearchVideos(context.Background(), "xyz-no-match")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	some, err := c.SearchVideos(context.Background(), "web apps")
	require.NoError(t, err)
	assert.Len(t, some, 2)
}

func TestSearchBlankQueryMakesNoRequest(t *testing.T) {
	c, _, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	})

	res, err := c.SearchVideos(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, res)
	assert.Zero(t, atomic.LoadInt32(hits))
}

func TestComments(t *testing.T) {
	var posted string
	c, tokens, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/comments/7", r.URL.Path)
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, `[{"id": 1, "content": "nice", "videoId": 7, "userId": 2, "user": {"id": 2, "username": "bob"}}]`)
		case http.MethodPost:
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			posted = body["content"]
			writeJSON(w, http.StatusCreated, `{"id": 2, "content": "great", "videoId": 7, "userId": 1}`)
		}
	})

	comments, err := c.GetComments(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "bob", comments[0].AuthorName())

	_, err = c.AddComment(context.Background(), 7, "great")
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	tokens.token = "tok"
	created, err := c.AddComment(context.Background(), 7, "  great  ")
	require.NoError(t, err)
	assert.Equal(t, int64(2), created.ID)
	assert.Equal(t, "great", posted)
}

func TestCommentsEnvelope(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"comments": [{"id": 1, "content": "nice"}, {"id": 2, "content": "again"}]}`)
	})

	comments, err := c.GetComments(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "again", comments[1].Content)

	c, _, _ = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"comments": null}`)
	})
	comments, err = c.GetComments(context.Background(), 7)
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}

func TestAddCommentRejectsBlank(t *testing.T) {
	c, tokens, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	tokens.token = "tok"

	_, err := c.AddComment(context.Background(), 7, " \n ")
	assert.Equal(t, Invalid, Classify(err))
	assert.Zero(t, atomic.LoadInt32(hits))
}

func TestLikeVideo(t *testing.T) {
	var calls int32
	c, tokens, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/likes/42", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		if atomic.AddInt32(&calls, 1) > 1 {
			writeJSON(w, http.StatusBadRequest, `{"error": "You already liked this video"}`)
			return
		}
		writeJSON(w, http.StatusCreated, `{"id": 9, "videoId": 42, "userId": 1}`)
	})
	tokens.token = "tok"

	like, err := c.LikeVideo(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(9), like.ID)

	_, err = c.LikeVideo(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, "You already liked this video", Message(err))
}

func TestLikeVideoEmptyBody(t *testing.T) {
	c, tokens, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	tokens.token = "tok"

	like, err := c.LikeVideo(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), like.VideoID)
}

func TestLikeVideoRequiresToken(t *testing.T) {
	c, _, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := c.LikeVideo(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Equal(t, Invalid, Classify(err))
	assert.Zero(t, atomic.LoadInt32(hits))
}

func TestGetUser(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/users/3":
			writeJSON(w, http.StatusOK, `{"user": {"id": 3, "username": "techmaster", "email": "t@example.com", "role": "user"}, "videos": `+videosJSON+`}`)
		default:
			writeJSON(w, http.StatusNotFound, `{"error": "User not found"}`)
		}
	})

	ch, err := c.GetUser(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "techmaster", ch.User.Username)
	assert.Len(t, ch.Videos, 2)

	_, err = c.GetUser(context.Background(), 4)
	assert.Equal(t, NotFound, Classify(err))
}

func TestRequestIDFromContext(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "rid-1", r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, `[]`)
	})

	_, err := c.GetVideos(WithRequestID(context.Background(), "rid-1"))
	require.NoError(t, err)
}

func TestCanceledContext(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[]`)
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.GetVideos(ctx)
	assert.Equal(t, TransportError, Classify(err))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestClassifyAndMessage(t *testing.T) {
	assert.Equal(t, OK, Classify(nil))
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, Invalid, Classify(errors.Wrap(ErrNotAuthenticated, "upload")))
	assert.Equal(t, "Please login first.", Message(ErrNotAuthenticated))
	assert.Equal(t, TransportError, Classify(errors.New("boom")))
	assert.True(t, strings.HasPrefix(Message(errors.New("boom")), "Something went wrong"))
	assert.Equal(t, "not-found", NotFound.String())
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestWithHTTPClientKeepsTimeout(t *testing.T) {
	var used int32
	shared := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		atomic.AddInt32(&used, 1)
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     make(http.Header),
			Body:       io.NopCloser(strings.NewReader(`[]`)),
			Request:    r,
		}, nil
	})}

	c := New("http://videos.example.com", &memTokens{}, WithTimeout(3*time.Second), WithHTTPClient(shared))
	videos, err := c.GetVideos(context.Background())
	require.NoError(t, err)
	assert.Empty(t, videos)
	assert.Equal(t, int32(1), atomic.LoadInt32(&used))
	assert.Equal(t, 3*time.Second, c.http.Timeout)
	assert.Zero(t, shared.Timeout, "the caller's client is left alone")

	New("http://videos.example.com", &memTokens{}, WithHTTPClient(http.DefaultClient), WithTimeout(time.Second))
	assert.Zero(t, http.DefaultClient.Timeout)
}
