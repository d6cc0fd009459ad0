package session

// KV is the durable key/value storage the session keeps its state in.
type KV interface {
	Get(name string) (string, bool, error)
	Set(name, value string) error
	Delete(name string) error
}

const (
	tokenKey      = "token"
	watchLaterKey = "watchLater"
)
