package service

import (
	"context"
	"sync"
	"time"

	"github.com/atinyakov/baristafolio/internal/models"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func sequentialIDs(prefix string) func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return prefix + string(rune('0'+n))
	}
}

// memRepo is an in-memory ContentRepository keyed by document id.
type memRepo[T any, PT models.DocumentPtr[T]] struct {
	mu    sync.Mutex
	items map[string]T
	order []string

	CreateErr error
	UpdateErr error
}

func newMemRepo[T any, PT models.DocumentPtr[T]]() *memRepo[T, PT] {
	return &memRepo[T, PT]{items: map[string]T{}}
}

func (r *memRepo[T, PT]) List(context.Context) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *memRepo[T, PT]) GetByID(_ context.Context, id string) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &item, nil
}

func (r *memRepo[T, PT]) Create(_ context.Context, item *T) error {
	if r.CreateErr != nil {
		return r.CreateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id := PT(item).Meta().ID
	r.items[id] = *item
	r.order = append(r.order, id)
	return nil
}

func (r *memRepo[T, PT]) Update(_ context.Context, item *T) error {
	if r.UpdateErr != nil {
		return r.UpdateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id := PT(item).Meta().ID
	if _, ok := r.items[id]; !ok {
		return models.ErrNotFound
	}
	r.items[id] = *item
	return nil
}

func (r *memRepo[T, PT]) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.items, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type mockImageHost struct {
	UploadFunc func(ctx context.Context, folder string, up *models.Upload) (models.Asset, error)
	DeleteFunc func(ctx context.Context, assetID string) error

	uploads []string
	deletes []string
}

func (m *mockImageHost) Upload(ctx context.Context, folder string, up *models.Upload) (models.Asset, error) {
	m.uploads = append(m.uploads, folder)
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, folder, up)
	}
	id := folder + "/img" + string(rune('0'+len(m.uploads)))
	return models.Asset{URL: "https://cdn.example.com/" + id, ID: id}, nil
}

func (m *mockImageHost) Delete(ctx context.Context, assetID string) error {
	m.deletes = append(m.deletes, assetID)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, assetID)
	}
	return nil
}

type mockQueue struct {
	queued []string
}

func (m *mockQueue) Enqueue(_ context.Context, assetID string, _ error) error {
	m.queued = append(m.queued, assetID)
	return nil
}

type mockNotifier struct {
	SendReplyFunc func(ctx context.Context, email models.ReplyEmail) error
	sent          []models.ReplyEmail
}

func (m *mockNotifier) SendReply(ctx context.Context, email models.ReplyEmail) error {
	m.sent = append(m.sent, email)
	if m.SendReplyFunc != nil {
		return m.SendReplyFunc(ctx, email)
	}
	return nil
}
