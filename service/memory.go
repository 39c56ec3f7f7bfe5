package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/docvault/server/model"
)

// MemoryStore is an in-memory Store implementation guarded by a RWMutex.
// It backs tests and storage-less development runs; production deployments
// configure the SQLite store instead.
type MemoryStore struct {
	mu        sync.RWMutex
	users     map[string]*model.User
	documents map[string]*model.Document
	processes map[string]*model.IngestionProcess
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]*model.User),
		documents: make(map[string]*model.Document),
		processes: make(map[string]*model.IngestionProcess),
	}
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		clone := *u
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Username < result[j].Username
	})
	return result, nil
}

func (s *MemoryStore) UpdateUserRole(ctx context.Context, id, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *MemoryStore) CreateDocument(ctx context.Context, doc *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *doc
	s.documents[doc.ID] = &clone
	return nil
}

func (s *MemoryStore) FindDocumentByID(ctx context.Context, id string) (*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.documents[id]
	if !ok {
		return nil, nil
	}
	clone := *d
	return &clone, nil
}

func (s *MemoryStore) ListDocuments(ctx context.Context) ([]*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Document, 0, len(s.documents))
	for _, d := range s.documents {
		clone := *d
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *MemoryStore) UpdateDocument(ctx context.Context, doc *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[doc.ID]; !ok {
		return ErrDocumentNotFound
	}
	doc.UpdatedAt = time.Now()
	clone := *doc
	s.documents[doc.ID] = &clone
	return nil
}

func (s *MemoryStore) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[id]; !ok {
		return ErrDocumentNotFound
	}
	delete(s.documents, id)
	return nil
}

func (s *MemoryStore) CreateProcess(ctx context.Context, p *model.IngestionProcess) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *p
	s.processes[p.ID] = &clone
	return nil
}

func (s *MemoryStore) FindProcessByID(ctx context.Context, id string) (*model.IngestionProcess, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.processes[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (s *MemoryStore) ListProcesses(ctx context.Context) ([]*model.IngestionProcess, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.IngestionProcess, 0, len(s.processes))
	for _, p := range s.processes {
		clone := *p
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *MemoryStore) UpdateProcess(ctx context.Context, p *model.IngestionProcess) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.processes[p.ID]; !ok {
		return ErrProcessNotFound
	}
	p.UpdatedAt = time.Now()
	clone := *p
	s.processes[p.ID] = &clone
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
