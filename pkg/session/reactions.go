package session

import "sync"

// Reaction is the like/dislike button state of one video for this process.
type Reaction struct {
	Liked    bool
	Disliked bool
}

// Reactions is view state only; nothing here reaches the service except
// through LikeVideo.
type Reactions struct {
	mu sync.Mutex
	m  map[int64]Reaction
}

func NewReactions() *Reactions {
	return &Reactions{m: make(map[int64]Reaction)}
}

func (r *Reactions) Get(videoID int64) Reaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.m[videoID]
}

// Liked marks a successful like and clears a dislike.
func (r *Reactions) Liked(videoID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[videoID] = Reaction{Liked: true}
}

// ToggleDislike flips the dislike and always clears the like.
func (r *Reactions) ToggleDislike(videoID int64) Reaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur := r.m[videoID]
	next := Reaction{Disliked: !cur.Disliked}
	r.m[videoID] = next
	return next
}
