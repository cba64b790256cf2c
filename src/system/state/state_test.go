package state

import (
	"encoding/json"
	"errors"
)

// memStorage is a tiny in-memory OfflineStorage used by this package's
// tests.
type memStorage struct {
	ready bool
	data  map[string]map[string]string
}

func newMemStorage(ready bool) *memStorage {
	return &memStorage{ready: ready, data: map[string]map[string]string{}}
}

func (m *memStorage) Ready() bool { return m.ready }

func (m *memStorage) Get(namespace, key string) (string, bool) {
	ns, ok := m.data[namespace]
	if !ok {
		return "", false
	}
	v, ok := ns[key]
	return v, ok
}

func (m *memStorage) Set(namespace, key, value string) error {
	ns, ok := m.data[namespace]
	if !ok {
		ns = map[string]string{}
		m.data[namespace] = ns
	}
	ns[key] = value
	return nil
}

func (m *memStorage) Serialize(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (m *memStorage) Deserialize(s string, out interface{}) error {
	if s == "" {
		return errors.New("empty value")
	}
	return json.Unmarshal([]byte(s), out)
}
