package objstore

import (
	"context"
	"sort"
	"sync"

	perr "csvprep/internal/platform/errors"
)

type memObject struct {
	body        []byte
	contentType string
}

// Mem is an in-process Store for local runs and tests
// buckets are created on first write
type Mem struct {
	mu      sync.RWMutex
	objects map[string]map[string]memObject
	getErr  error
	putErr  error
}

// NewMem returns an empty store holding the given buckets
func NewMem(buckets ...string) *Mem {
	m := &Mem{objects: map[string]map[string]memObject{}}
	for _, b := range buckets {
		m.objects[b] = map[string]memObject{}
	}
	return m
}

// Seed stores body under bucket/key
func (m *Mem) Seed(bucket, key string, body []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store(bucket, key, body, "")
}

// Object returns a copy of a stored object
func (m *Mem) Object(bucket, key string) (body []byte, contentType string, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[bucket][key]
	if !ok {
		return nil, "", false
	}
	return append([]byte(nil), o.body...), o.contentType, true
}

// Keys lists the keys in bucket, sorted
func (m *Mem) Keys(bucket string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.objects[bucket]))
	for k := range m.objects[bucket] {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// FailGet makes every Get return err until reset with nil
func (m *Mem) FailGet(err error) {
	m.mu.Lock()
	m.getErr = err
	m.mu.Unlock()
}

// FailPut makes every Put return err until reset with nil
func (m *Mem) FailPut(err error) {
	m.mu.Lock()
	m.putErr = err
	m.mu.Unlock()
}

// Get implements Store
func (m *Mem) Get(ctx context.Context, bucket, key string, limit int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "get canceled")
	}
	m.mu.RLock()
	getErr := m.getErr
	o, ok := m.objects[bucket][key]
	m.mu.RUnlock()

	loc := uri("mem", bucket, key)
	if getErr != nil {
		return nil, getErr
	}
	if !ok {
		return nil, perr.NotFoundf("get %s: not found", loc)
	}
	if limit > 0 && int64(len(o.body)) > limit {
		return nil, perr.InvalidArgf("object %s is %d bytes, limit is %d", loc, len(o.body), limit)
	}
	return append([]byte(nil), o.body...), nil
}

// Put implements Store
func (m *Mem) Put(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "put canceled")
	}
	return m.put(bucket, key, body, contentType)
}

func (m *Mem) put(bucket, key string, body []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.store(bucket, key, body, contentType)
	return nil
}

// store requires m.mu held
func (m *Mem) store(bucket, key string, body []byte, contentType string) {
	if m.objects[bucket] == nil {
		m.objects[bucket] = map[string]memObject{}
	}
	m.objects[bucket][key] = memObject{body: append([]byte(nil), body...), contentType: contentType}
}

// BucketExists implements Store
func (m *Mem) BucketExists(_ context.Context, bucket string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[bucket]
	return ok, nil
}

// EnsureBucket creates bucket when it does not exist yet
func (m *Mem) EnsureBucket(ctx context.Context, bucket string) error {
	if err := ctx.Err(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "create canceled")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects[bucket] == nil {
		m.objects[bucket] = map[string]memObject{}
	}
	return nil
}

// Close implements Store
func (m *Mem) Close() error { return nil }
