// Package offlinestorage provides a process-memory implementation of
// interfaces.OfflineStorage for the example command and tests that need a
// real (if ephemeral) backing store rather than a host SCORM API. It
// serializes through encoding/json, matching the state package's own
// array-of-arrays shape rules rather than inventing a bespoke format.
package offlinestorage

import "encoding/json"

// Memory is a ready-immediately, in-process OfflineStorage. Real hosts
// back this port with a SCORM LMS call; this one just keeps a flat map.
type Memory struct {
	values map[string]string
	ready  bool
}

func New() *Memory {
	return &Memory{values: make(map[string]string), ready: true}
}

func (m *Memory) Ready() bool { return m.ready }

// SetReady lets a test simulate the host's offline-storage readiness
// signal arriving after construction.
func (m *Memory) SetReady(ready bool) { m.ready = ready }

func (m *Memory) key(namespace, key string) string {
	return namespace + "\x00" + key
}

func (m *Memory) Get(namespace, key string) (string, bool) {
	v, ok := m.values[m.key(namespace, key)]
	return v, ok
}

func (m *Memory) Set(namespace, key, value string) error {
	m.values[m.key(namespace, key)] = value
	return nil
}

func (m *Memory) Serialize(v interface{}) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (m *Memory) Deserialize(s string, out interface{}) error {
	return json.Unmarshal([]byte(s), out)
}
