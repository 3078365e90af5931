// Файл: internal/repositories/attachment-version-repository.go
package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"project-registry/internal/entities"
	apperrors "project-registry/pkg/errors"
)

const attachmentVersionsTable = "attachment_versions"

var attachmentVersionColumns = []string{
	"id", "project_id", "file_name", "version", "is_latest", "file_url",
	"category", "mime_type", "file_size", "comments", "uploaded_at",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type AttachmentVersionRepositoryInterface interface {
	// DemoteLatest снимает флаг is_latest с текущей версии. Ноль строк - не ошибка (первая загрузка).
	DemoteLatest(ctx context.Context, q Querier, projectID, fileName string) (int64, error)
	Create(ctx context.Context, q Querier, v *entities.AttachmentVersion) error
	FindLatest(ctx context.Context, projectID, fileName string) (*entities.AttachmentVersion, error)
	FindAllByFile(ctx context.Context, projectID, fileName string) ([]entities.AttachmentVersion, error)
	FindLatestByProject(ctx context.Context, projectID string) ([]entities.AttachmentVersion, error)
}

type attachmentVersionRepository struct {
	storage *pgxpool.Pool
}

func NewAttachmentVersionRepository(storage *pgxpool.Pool) AttachmentVersionRepositoryInterface {
	return &attachmentVersionRepository{storage: storage}
}

func (r *attachmentVersionRepository) DemoteLatest(ctx context.Context, q Querier, projectID, fileName string) (int64, error) {
	query, args, err := psql.Update(attachmentVersionsTable).
		Set("is_latest", false).
		Where(sq.Eq{"project_id": projectID, "file_name": fileName, "is_latest": true}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("ToSql для снятия is_latest: %w", err)
	}
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("снятие is_latest (%s, %s): %w", projectID, fileName, apperrors.Classify(err))
	}
	return tag.RowsAffected(), nil
}

func (r *attachmentVersionRepository) Create(ctx context.Context, q Querier, v *entities.AttachmentVersion) error {
	query, args, err := psql.Insert(attachmentVersionsTable).
		Columns(attachmentVersionColumns...).
		Values(v.ID, v.ProjectID, v.FileName, v.Version, v.IsLatest, v.FileURL,
			v.Category, v.MimeType, v.FileSize, v.Comments, v.UploadedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("ToSql для вставки версии: %w", err)
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("вставка версии %d файла (%s, %s): %w", v.Version, v.ProjectID, v.FileName, apperrors.Classify(err))
	}
	return nil
}

func (r *attachmentVersionRepository) FindLatest(ctx context.Context, projectID, fileName string) (*entities.AttachmentVersion, error) {
	query, args, err := psql.Select(attachmentVersionColumns...).
		From(attachmentVersionsTable).
		Where(sq.Eq{"project_id": projectID, "file_name": fileName, "is_latest": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("ToSql для текущей версии: %w", err)
	}

	v, err := scanAttachmentVersion(r.storage.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("поиск текущей версии (%s, %s): %w", projectID, fileName, apperrors.Classify(err))
	}
	return v, nil
}

func (r *attachmentVersionRepository) FindAllByFile(ctx context.Context, projectID, fileName string) ([]entities.AttachmentVersion, error) {
	return r.list(ctx, psql.Select(attachmentVersionColumns...).
		From(attachmentVersionsTable).
		Where(sq.Eq{"project_id": projectID, "file_name": fileName}).
		OrderBy("version ASC"))
}

func (r *attachmentVersionRepository) FindLatestByProject(ctx context.Context, projectID string) ([]entities.AttachmentVersion, error) {
	return r.list(ctx, psql.Select(attachmentVersionColumns...).
		From(attachmentVersionsTable).
		Where(sq.Eq{"project_id": projectID, "is_latest": true}).
		OrderBy("file_name ASC"))
}

func (r *attachmentVersionRepository) list(ctx context.Context, builder sq.SelectBuilder) ([]entities.AttachmentVersion, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("ToSql для списка версий: %w", err)
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("запрос списка версий: %w", apperrors.Classify(err))
	}
	defer rows.Close()

	var versions []entities.AttachmentVersion
	for rows.Next() {
		v, err := scanAttachmentVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("сканирование версии: %w", err)
		}
		versions = append(versions, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", apperrors.Classify(err))
	}
	return versions, nil
}

func scanAttachmentVersion(row pgx.Row) (*entities.AttachmentVersion, error) {
	var v entities.AttachmentVersion
	err := row.Scan(&v.ID, &v.ProjectID, &v.FileName, &v.Version, &v.IsLatest, &v.FileURL,
		&v.Category, &v.MimeType, &v.FileSize, &v.Comments, &v.UploadedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
