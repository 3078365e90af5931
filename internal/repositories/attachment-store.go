package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"project-registry/internal/entities"
)

// AttachmentTx - операции, доступные внутри одной единицы работы загрузки.
// Всё, что сделано через AttachmentTx, фиксируется вместе или не фиксируется вовсе.
type AttachmentTx interface {
	NextVersion(ctx context.Context, partitionKey string) (int64, error)
	DemoteLatest(ctx context.Context, projectID, fileName string) (int64, error)
	Insert(ctx context.Context, v *entities.AttachmentVersion) error
}

type AttachmentStoreInterface interface {
	RunInTransaction(ctx context.Context, fn func(tx AttachmentTx) error) error
	FindLatest(ctx context.Context, projectID, fileName string) (*entities.AttachmentVersion, error)
	FindAllByFile(ctx context.Context, projectID, fileName string) ([]entities.AttachmentVersion, error)
	FindLatestByProject(ctx context.Context, projectID string) ([]entities.AttachmentVersion, error)
}

type postgresAttachmentStore struct {
	txManager TxManagerInterface
	sequences SequenceRepositoryInterface
	AttachmentVersionRepositoryInterface
}

// NewPostgresAttachmentStore собирает транзакционную единицу работы из TxManager и двух репозиториев.
func NewPostgresAttachmentStore(
	txManager TxManagerInterface,
	sequences SequenceRepositoryInterface,
	versions AttachmentVersionRepositoryInterface,
) AttachmentStoreInterface {
	return &postgresAttachmentStore{
		txManager:                            txManager,
		sequences:                            sequences,
		AttachmentVersionRepositoryInterface: versions,
	}
}

func (s *postgresAttachmentStore) RunInTransaction(ctx context.Context, fn func(tx AttachmentTx) error) error {
	return s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		return fn(&postgresAttachmentTx{tx: tx, sequences: s.sequences, versions: s.AttachmentVersionRepositoryInterface})
	})
}

type postgresAttachmentTx struct {
	tx        pgx.Tx
	sequences SequenceRepositoryInterface
	versions  AttachmentVersionRepositoryInterface
}

// NextVersion инкрементирует счётчик внутри транзакции: блокировка строки держится
// до коммита, поэтому параллельные загрузки одного файла выстраиваются в очередь.
func (t *postgresAttachmentTx) NextVersion(ctx context.Context, partitionKey string) (int64, error) {
	return t.sequences.Increment(ctx, t.tx, partitionKey)
}

func (t *postgresAttachmentTx) DemoteLatest(ctx context.Context, projectID, fileName string) (int64, error) {
	return t.versions.DemoteLatest(ctx, t.tx, projectID, fileName)
}

func (t *postgresAttachmentTx) Insert(ctx context.Context, v *entities.AttachmentVersion) error {
	return t.versions.Create(ctx, t.tx, v)
}
