package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-registry/internal/entities"
	"project-registry/internal/repositories"
	apperrors "project-registry/pkg/errors"
)

func upload(ctx context.Context, s *AttachmentStore, projectID, fileName string) (int64, error) {
	var version int64
	err := s.RunInTransaction(ctx, func(tx repositories.AttachmentTx) error {
		v, err := tx.NextVersion(ctx, entities.AttachmentPartitionKey(projectID, fileName))
		if err != nil {
			return err
		}
		if _, err := tx.DemoteLatest(ctx, projectID, fileName); err != nil {
			return err
		}
		version = v
		return tx.Insert(ctx, &entities.AttachmentVersion{
			ID: uuid.New(), ProjectID: projectID, FileName: fileName, Version: v,
			IsLatest: true, UploadedAt: time.Now().UTC(),
		})
	})
	return version, err
}

func TestAttachmentStore_Sequential(t *testing.T) {
	s := NewAttachmentStore(nil)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := upload(ctx, s, "p1", "a.txt")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	all, err := s.FindAllByFile(ctx, "p1", "a.txt")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.False(t, all[0].IsLatest)
	assert.False(t, all[1].IsLatest)
	assert.True(t, all[2].IsLatest)

	latest, err := s.FindLatest(ctx, "p1", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(3), latest.Version)
}

func TestAttachmentStore_FailedCommitDiscardsEverything(t *testing.T) {
	counters := NewCounterStore()
	s := NewAttachmentStore(counters)
	ctx := context.Background()

	_, err := upload(ctx, s, "p1", "a.txt")
	require.NoError(t, err)

	boom := errors.New("диск отвалился")
	s.BeforeCommit(func() error { return boom })
	_, err = upload(ctx, s, "p1", "a.txt")
	require.ErrorIs(t, err, boom)
	s.BeforeCommit(nil)

	latest, err := s.FindLatest(ctx, "p1", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(1), latest.Version)

	current, err := counters.Current(ctx, entities.AttachmentPartitionKey("p1", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), current)
}

func TestAttachmentStore_InsertWithoutDemoteConflicts(t *testing.T) {
	s := NewAttachmentStore(nil)
	ctx := context.Background()

	_, err := upload(ctx, s, "p1", "a.txt")
	require.NoError(t, err)

	err = s.RunInTransaction(ctx, func(tx repositories.AttachmentTx) error {
		return tx.Insert(ctx, &entities.AttachmentVersion{ProjectID: "p1", FileName: "a.txt", Version: 7, IsLatest: true})
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	err = s.RunInTransaction(ctx, func(tx repositories.AttachmentTx) error {
		_, _ = tx.DemoteLatest(ctx, "p1", "a.txt")
		return tx.Insert(ctx, &entities.AttachmentVersion{ProjectID: "p1", FileName: "a.txt", Version: 1, IsLatest: true})
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict, "дубликат номера версии")
}

func TestAttachmentStore_CanceledBeforeCommit(t *testing.T) {
	s := NewAttachmentStore(nil)
	ctx, cancel := context.WithCancel(context.Background())

	err := s.RunInTransaction(ctx, func(tx repositories.AttachmentTx) error {
		if _, err := tx.NextVersion(ctx, "k"); err != nil {
			return err
		}
		cancel()
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)

	all, err := s.FindAllByFile(context.Background(), "p1", "a.txt")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAttachmentStore_FindLatestByProject(t *testing.T) {
	s := NewAttachmentStore(nil)
	ctx := context.Background()
	for _, name := range []string{"c.txt", "a.txt", "c.txt"} {
		_, err := upload(ctx, s, "p1", name)
		require.NoError(t, err)
	}
	_, err := upload(ctx, s, "p2", "b.txt")
	require.NoError(t, err)

	latest, err := s.FindLatestByProject(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "a.txt", latest[0].FileName)
	assert.Equal(t, "c.txt", latest[1].FileName)
	assert.Equal(t, int64(2), latest[1].Version)

	_, err = s.FindLatest(ctx, "p2", "a.txt")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
