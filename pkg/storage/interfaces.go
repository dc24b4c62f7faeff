package storage

// Cache is the key/value surface the stats provider caches results behind.
type Cache interface {
	Set(key string, value interface{}) error
	Get(key string) (interface{}, bool)
	Delete(key string) error
	Clear() error
}
