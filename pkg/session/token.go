package session

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"video-portal/pkg/logger"
)

// TokenStore keeps the bearer token under a single durable key. It has no
// expiry; presence is all that counts.
type TokenStore struct {
	kv  KV
	log *logrus.Logger
}

func NewTokenStore(kv KV, log *logrus.Logger) *TokenStore {
	if log == nil {
		log = logger.Discard()
	}
	return &TokenStore{kv: kv, log: log}
}

// Token reports the stored token. A storage failure reads as absent.
func (s *TokenStore) Token() (string, bool) {
	v, ok, err := s.kv.Get(tokenKey)
	if err != nil {
		s.log.WithError(err).Error("read token")
		return "", false
	}
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (s *TokenStore) SetToken(token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	return errors.Wrap(s.kv.Set(tokenKey, token), "store token")
}

func (s *TokenStore) ClearToken() error {
	return errors.Wrap(s.kv.Delete(tokenKey), "clear token")
}
