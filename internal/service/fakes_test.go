package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"assessment_builder/internal/document"
	"assessment_builder/internal/util"
)

type memStore struct {
	mu     sync.Mutex
	docs   map[string]document.Assessment
	owners map[string]uint
	saves  int
}

func newMemStore() *memStore {
	return &memStore{docs: map[string]document.Assessment{}, owners: map[string]uint{}}
}

func (m *memStore) Create(ctx context.Context, teacherID uint, doc document.Assessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.ID] = doc
	m.owners[doc.ID] = teacherID
	return nil
}

func (m *memStore) Load(ctx context.Context, id string) (document.Assessment, uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return document.Assessment{}, 0, util.ErrDraftNotFound
	}
	return doc, m.owners[id], nil
}

func (m *memStore) Save(ctx context.Context, doc document.Assessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[doc.ID]; !ok {
		return util.ErrDraftNotFound
	}
	m.docs[doc.ID] = doc
	m.saves++
	return nil
}

type memCache struct {
	docs map[string]document.Assessment
}

func newMemCache() *memCache {
	return &memCache{docs: map[string]document.Assessment{}}
}

func (c *memCache) Get(ctx context.Context, id string) (document.Assessment, bool, error) {
	doc, ok := c.docs[id]
	return doc, ok, nil
}

func (c *memCache) Set(ctx context.Context, doc document.Assessment) error {
	c.docs[doc.ID] = doc
	return nil
}

func (c *memCache) Delete(ctx context.Context, id string) error {
	delete(c.docs, id)
	return nil
}

var errTransport = errors.New("transport down")

type fakeImages struct {
	failUpload bool
	failDelete bool
	noURL      bool
	n          int
	deleted    []string
}

func (f *fakeImages) Upload(ctx context.Context, name string, r io.Reader, size int64) (document.ImageRef, error) {
	if f.failUpload {
		return document.ImageRef{}, errTransport
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return document.ImageRef{}, err
	}
	f.n++
	id := "img/" + name + "-" + strings.Repeat("x", f.n)
	if f.noURL {
		return document.ImageRef{PublicID: id}, nil
	}
	return document.ImageRef{URL: "/uploads/" + id, PublicID: id}, nil
}

func (f *fakeImages) Delete(ctx context.Context, publicID string) error {
	if f.failDelete {
		return errTransport
	}
	f.deleted = append(f.deleted, publicID)
	return nil
}

type memProvider struct {
	objects map[string]string
	failPut bool
}

func (p *memProvider) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if p.failPut {
		return "", errTransport
	}
	b, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	if p.objects == nil {
		p.objects = map[string]string{}
	}
	p.objects[key] = string(b)
	return p.GetURL(key), nil
}

func (p *memProvider) Delete(ctx context.Context, key string) error {
	delete(p.objects, key)
	return nil
}

func (p *memProvider) GetURL(key string) string {
	return "mem://" + key
}
