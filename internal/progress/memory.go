package progress

import "sync"

// memory is an in-memory KV. State is lost when the process exits.
type memory struct {
	mu     sync.RWMutex
	values map[string]int
}

// NewMemoryKV constructs an empty in-memory KV.
func NewMemoryKV() KV {
	return &memory{values: make(map[string]int)}
}

func (m *memory) GetInt(key string, def int) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return def, nil
}

func (m *memory) SetInt(key string, value int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// namespaced prefixes every key of an underlying KV.
type namespaced struct {
	kv     KV
	prefix string
}

// Namespaced returns a KV that stores its keys in kv under prefix, so
// several players can share one store.
func Namespaced(kv KV, prefix string) KV {
	if prefix == "" {
		return kv
	}
	return namespaced{kv: kv, prefix: prefix + "/"}
}

func (n namespaced) GetInt(key string, def int) (int, error) {
	return n.kv.GetInt(n.prefix+key, def)
}

func (n namespaced) SetInt(key string, value int) error {
	return n.kv.SetInt(n.prefix+key, value)
}

func (n namespaced) Delete(key string) error {
	return n.kv.Delete(n.prefix + key)
}
