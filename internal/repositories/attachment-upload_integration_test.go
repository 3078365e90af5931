package repositories_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"project-registry/internal/entities"
	"project-registry/internal/repositories"
	"project-registry/internal/services"
	"project-registry/pkg/clock"
	"project-registry/pkg/config"
	"project-registry/pkg/filestorage"
	"project-registry/pkg/validation"
)

// Сотня параллельных загрузок одного файла через сервис и транзакционное хранилище Postgres:
// версии без дублей и пропусков, текущая ровно одна и она последняя.
func TestUploadAttachment_Integration_ConcurrentSingleLatest(t *testing.T) {
	for _, isolation := range []string{config.IsolationReadCommitted, config.IsolationSerializable} {
		t.Run(isolation, func(t *testing.T) {
			pool := repositories.RequirePool(t)
			svc := services.NewAttachmentVersionService(
				repositories.NewPostgresAttachmentStore(
					repositories.NewTxManager(pool, isolation),
					repositories.NewSequenceRepository(),
					repositories.NewAttachmentVersionRepository(pool),
				),
				filestorage.NewPathBuilder("/uploads"),
				clock.NewFixed(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)),
				// при serializable на одной строке счётчика за раунд коммитится один писатель
				services.RetryPolicy{MaxAttempts: 500, BaseDelay: time.Millisecond, MaxDelay: 20 * time.Millisecond},
				2*time.Minute,
				validation.New(),
				nil,
				zap.NewNop(),
			)
			ctx := context.Background()

			const n = 100
			var (
				wg       sync.WaitGroup
				mu       sync.Mutex
				returned = make(map[int64]bool, n)
			)
			for i := 0; i < n; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					v, err := svc.UploadAttachment(ctx, "p1", "spec.pdf", entities.FileDescriptor{
						Category: null.StringFrom("design"),
						MimeType: "application/pdf",
						FileSize: 1024,
					})
					if !assert.NoError(t, err) {
						return
					}
					mu.Lock()
					assert.False(t, returned[v.Version], "версия %d выдана дважды", v.Version)
					returned[v.Version] = true
					mu.Unlock()
				}()
			}
			wg.Wait()
			require.Len(t, returned, n)

			versions, err := svc.ListVersions(ctx, "p1", "spec.pdf")
			require.NoError(t, err)
			require.Len(t, versions, n)

			stored := make(map[int64]bool, n)
			var latest []int64
			for _, v := range versions {
				assert.False(t, stored[v.Version], "версия %d сохранена дважды", v.Version)
				stored[v.Version] = true
				if v.IsLatest {
					latest = append(latest, v.Version)
				}
			}
			for want := int64(1); want <= n; want++ {
				assert.True(t, stored[want], "нет версии %d", want)
			}
			require.Len(t, latest, 1, "текущая версия должна быть ровно одна")
			assert.Equal(t, int64(n), latest[0])

			var latestRows int
			require.NoError(t, pool.QueryRow(ctx,
				`SELECT count(*) FROM attachment_versions WHERE project_id = $1 AND file_name = $2 AND is_latest`,
				"p1", "spec.pdf",
			).Scan(&latestRows))
			assert.Equal(t, 1, latestRows)

			current, err := svc.Latest(ctx, "p1", "spec.pdf")
			require.NoError(t, err)
			assert.Equal(t, int64(n), current.Version)
		})
	}
}
