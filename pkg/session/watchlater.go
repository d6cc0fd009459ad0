package session

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"video-portal/pkg/logger"
)

// WatchLater is the saved-for-later set of video ids. Every mutation is
// written through before it returns, so storage and memory never differ.
type WatchLater struct {
	mu  sync.RWMutex
	ids []int64
	kv  KV
	log *logrus.Logger
}

// LoadWatchLater reads the stored set. A stored value that does not decode
// starts an empty set.
func LoadWatchLater(kv KV, log *logrus.Logger) (*WatchLater, error) {
	if log == nil {
		log = logger.Discard()
	}
	w := &WatchLater{kv: kv, log: log, ids: []int64{}}

	raw, ok, err := kv.Get(watchLaterKey)
	if err != nil {
		return nil, errors.Wrap(err, "load watch later")
	}
	if !ok {
		return w, nil
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		log.WithError(err).Warn("stored watch later list is corrupt, starting empty")
		return w, nil
	}
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			w.ids = append(w.ids, id)
		}
	}
	return w, nil
}

func (w *WatchLater) indexOf(id int64) int {
	for i, v := range w.ids {
		if v == id {
			return i
		}
	}
	return -1
}

// persist must be called with mu held. On failure the previous slice is
// restored so memory keeps matching storage.
func (w *WatchLater) persist(prev []int64) error {
	b, err := json.Marshal(w.ids)
	if err == nil {
		err = w.kv.Set(watchLaterKey, string(b))
	}
	if err != nil {
		w.ids = prev
		return errors.Wrap(err, "save watch later")
	}
	return nil
}

func (w *WatchLater) Add(id int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.indexOf(id) >= 0 {
		return nil
	}
	prev := w.ids
	w.ids = append(append([]int64{}, prev...), id)
	return w.persist(prev)
}

func (w *WatchLater) Remove(id int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	i := w.indexOf(id)
	if i < 0 {
		return nil
	}
	prev := w.ids
	next := make([]int64, 0, len(prev)-1)
	next = append(next, prev[:i]...)
	w.ids = append(next, prev[i+1:]...)
	return w.persist(prev)
}

// Toggle returns whether id is in the set afterwards.
func (w *WatchLater) Toggle(id int64) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	prev := w.ids
	i := w.indexOf(id)
	if i >= 0 {
		next := make([]int64, 0, len(prev)-1)
		next = append(next, prev[:i]...)
		w.ids = append(next, prev[i+1:]...)
	} else {
		w.ids = append(append([]int64{}, prev...), id)
	}
	if err := w.persist(prev); err != nil {
		return i >= 0, err
	}
	return i < 0, nil
}

func (w *WatchLater) Contains(id int64) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.indexOf(id) >= 0
}

// IDs is a copy in insertion order.
func (w *WatchLater) IDs() []int64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]int64{}, w.ids...)
}

func (w *WatchLater) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.ids)
}
