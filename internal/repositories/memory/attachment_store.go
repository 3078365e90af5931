package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"project-registry/internal/entities"
	"project-registry/internal/repositories"
	apperrors "project-registry/pkg/errors"
)

type fileKey struct {
	projectID string
	fileName  string
}

// AttachmentStore сериализует транзакции одним мьютексом (аналог SERIALIZABLE)
// и применяет накопленные изменения только при коммите.
type AttachmentStore struct {
	txMu     sync.Mutex
	mu       sync.RWMutex
	counters *CounterStore
	rows     []entities.AttachmentVersion
	latest   map[fileKey]int

	hookMu       sync.Mutex
	beforeCommit func() error
}

// NewAttachmentStore: counters может быть nil, тогда заводится собственный.
func NewAttachmentStore(counters *CounterStore) *AttachmentStore {
	if counters == nil {
		counters = NewCounterStore()
	}
	return &AttachmentStore{counters: counters, latest: make(map[fileKey]int)}
}

// BeforeCommit ставит хук, вызываемый перед применением транзакции.
// Ошибка из хука откатывает транзакцию, как сбой коммита в базе.
func (s *AttachmentStore) BeforeCommit(hook func() error) {
	s.hookMu.Lock()
	s.beforeCommit = hook
	s.hookMu.Unlock()
}

func (s *AttachmentStore) RunInTransaction(ctx context.Context, fn func(tx repositories.AttachmentTx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return apperrors.Classify(err)
	}

	tx := &attachmentTx{store: s, counters: make(map[string]int64), demoted: make(map[fileKey]bool)}
	if err := fn(tx); err != nil {
		return err
	}

	s.hookMu.Lock()
	hook := s.beforeCommit
	s.hookMu.Unlock()
	if hook != nil {
		if err := hook(); err != nil {
			return fmt.Errorf("ошибка при коммите транзакции: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("ошибка при коммите транзакции: %w", apperrors.Classify(err))
	}
	return s.commit(tx)
}

func (s *AttachmentStore) commit(tx *attachmentTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// те же ограничения, что и уникальные индексы в attachment_versions
	for _, v := range tx.inserted {
		key := fileKey{v.ProjectID, v.FileName}
		if idx, ok := s.latest[key]; ok && v.IsLatest && !tx.demoted[key] {
			return fmt.Errorf("версия %d уже текущая для %v: %w", s.rows[idx].Version, key, apperrors.ErrConflict)
		}
		for _, row := range s.rows {
			if row.ProjectID == v.ProjectID && row.FileName == v.FileName && row.Version == v.Version {
				return fmt.Errorf("версия %d уже существует: %w", v.Version, apperrors.ErrConflict)
			}
		}
	}

	for key := range tx.demoted {
		if idx, ok := s.latest[key]; ok {
			s.rows[idx].IsLatest = false
			delete(s.latest, key)
		}
	}
	for _, v := range tx.inserted {
		s.rows = append(s.rows, v)
		if v.IsLatest {
			s.latest[fileKey{v.ProjectID, v.FileName}] = len(s.rows) - 1
		}
	}
	for key, value := range tx.counters {
		s.counters.raise(key, value)
	}
	return nil
}

func (s *AttachmentStore) FindLatest(ctx context.Context, projectID, fileName string) (*entities.AttachmentVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.latest[fileKey{projectID, fileName}]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	v := s.rows[idx]
	return &v, nil
}

func (s *AttachmentStore) FindAllByFile(ctx context.Context, projectID, fileName string) ([]entities.AttachmentVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entities.AttachmentVersion
	for _, row := range s.rows {
		if row.ProjectID == projectID && row.FileName == fileName {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

func (s *AttachmentStore) FindLatestByProject(ctx context.Context, projectID string) ([]entities.AttachmentVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entities.AttachmentVersion
	for key, idx := range s.latest {
		if key.projectID == projectID {
			out = append(out, s.rows[idx])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FileName < out[j].FileName })
	return out, nil
}

type attachmentTx struct {
	store    *AttachmentStore
	counters map[string]int64
	demoted  map[fileKey]bool
	inserted []entities.AttachmentVersion
}

func (t *attachmentTx) NextVersion(ctx context.Context, partitionKey string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, apperrors.Classify(err)
	}
	value, ok := t.counters[partitionKey]
	if !ok {
		current, err := t.store.counters.Current(ctx, partitionKey)
		if err != nil {
			return 0, apperrors.Classify(err)
		}
		value = current
	}
	value++
	t.counters[partitionKey] = value
	return value, nil
}

func (t *attachmentTx) DemoteLatest(ctx context.Context, projectID, fileName string) (int64, error) {
	key := fileKey{projectID, fileName}
	if t.demoted[key] {
		return 0, nil
	}
	t.store.mu.RLock()
	_, ok := t.store.latest[key]
	t.store.mu.RUnlock()
	t.demoted[key] = true
	if !ok {
		return 0, nil
	}
	return 1, nil
}

func (t *attachmentTx) Insert(ctx context.Context, v *entities.AttachmentVersion) error {
	t.inserted = append(t.inserted, *v)
	return nil
}
