package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taskflow/taskflow-api/internal/models"
)

// MemoryStore keeps users and tasks in process memory. Both repositories it
// hands out share one lock so that user deletion and its task cascade are atomic.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[uint64]models.User
	tasks      map[uint64]models.Task
	nextUserID uint64
	nextTaskID uint64
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[uint64]models.User),
		tasks:      make(map[uint64]models.Task),
		nextUserID: 1,
		nextTaskID: 1,
		now:        time.Now,
	}
}

func (s *MemoryStore) Users() UserRepository {
	return &memoryUserRepository{store: s}
}

func (s *MemoryStore) Tasks() TaskRepository {
	return &memoryTaskRepository{store: s}
}

type memoryUserRepository struct {
	store *MemoryStore
}

// conflicts reports whether another user already holds one of the unique values. Caller holds the lock.
func (s *MemoryStore) conflicts(candidate models.User) bool {
	for id, u := range s.users {
		if id == candidate.ID {
			continue
		}
		if u.Username == candidate.Username || u.Email == candidate.Email {
			return true
		}
		if candidate.GoogleID != nil && u.GoogleID != nil && *u.GoogleID == *candidate.GoogleID {
			return true
		}
	}
	return false
}

func (r *memoryUserRepository) Create(_ context.Context, user *models.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := *user
	candidate.ID = 0
	if s.conflicts(candidate) {
		return ErrDuplicate
	}

	user.ID = s.nextUserID
	s.nextUserID++
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	now := s.now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id uint64) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

func (r *memoryUserRepository) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username })
}

func (r *memoryUserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *memoryUserRepository) FindByGoogleID(_ context.Context, googleID string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.GoogleID != nil && *u.GoogleID == googleID })
}

func (r *memoryUserRepository) find(match func(models.User) bool) (*models.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memoryUserRepository) List(_ context.Context) ([]models.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *memoryUserRepository) Update(_ context.Context, id uint64, patch UserPatch) (*models.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.apply(&user)
	if s.conflicts(user) {
		return nil, ErrDuplicate
	}
	user.UpdatedAt = s.now()
	s.users[id] = user
	return &user, nil
}

func (r *memoryUserRepository) Delete(_ context.Context, id uint64) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for taskID, task := range s.tasks {
		if task.UserID == id {
			delete(s.tasks, taskID)
		}
	}
	if _, ok := s.users[id]; !ok {
		return false, nil
	}
	delete(s.users, id)
	return true, nil
}

type memoryTaskRepository struct {
	store *MemoryStore
}

func (r *memoryTaskRepository) Create(_ context.Context, task *models.Task) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	task.ID = s.nextTaskID
	s.nextTaskID++
	task.Completed = false
	now := s.now()
	task.CreatedAt = now
	task.UpdatedAt = now
	s.tasks[task.ID] = *task
	return nil
}

func (r *memoryTaskRepository) FindByID(_ context.Context, id uint64) (*models.Task, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &task, nil
}

func (r *memoryTaskRepository) ListByUser(_ context.Context, filter TaskFilter) ([]models.Task, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	tasks := []models.Task{}
	for _, task := range s.tasks {
		if task.UserID != filter.UserID {
			continue
		}
		if filter.Status == TaskStatusPending && task.Completed {
			continue
		}
		if filter.Status == TaskStatusCompleted && !task.Completed {
			continue
		}
		if filter.Tag != "" && task.Tag != filter.Tag {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(task.Title), search) &&
			!strings.Contains(strings.ToLower(task.Description), search) {
			continue
		}
		tasks = append(tasks, task)
	}

	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].DueDate != tasks[j].DueDate {
			return tasks[i].DueDate < tasks[j].DueDate
		}
		return tasks[i].ID < tasks[j].ID
	})
	return tasks, nil
}

func (r *memoryTaskRepository) Update(_ context.Context, id uint64, fields TaskFields) (*models.Task, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	fields.apply(&task)
	task.UpdatedAt = s.now()
	s.tasks[id] = task
	return &task, nil
}

func (r *memoryTaskRepository) Delete(_ context.Context, id uint64) (bool, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return false, nil
	}
	delete(s.tasks, id)
	return true, nil
}
