// seqctl - служебная утилита: миграции, ручная выдача значений, перенос старых номеров.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"project-registry/internal/bootstrap"
	"project-registry/internal/report"
	"project-registry/migrations"
	"project-registry/pkg/clock"
	"project-registry/pkg/config"
	"project-registry/pkg/database/postgresql"
	applogger "project-registry/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "seqctl",
		Usage: "обслуживание счётчиков, кодов проектов и версий вложений",
		Commands: []*cli.Command{
			migrateCommand(),
			{
				Name:      "allocate",
				Usage:     "выдать следующее значение для ключа партиции",
				ArgsUsage: "<partition-key>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "count", Value: 1, Usage: "сколько значений выдать подряд"},
				},
				Action: withComponents(func(c *cli.Context, comp *bootstrap.Components) error {
					key, err := requireArg(c, "partition-key")
					if err != nil {
						return err
					}
					for i := 0; i < c.Int("count"); i++ {
						value, err := comp.Allocator.Allocate(c.Context, key)
						if err != nil {
							return err
						}
						fmt.Fprintln(c.App.Writer, value)
					}
					return nil
				}),
			},
			{
				Name:      "peek",
				Usage:     "показать последнее выданное значение, не выдавая нового",
				ArgsUsage: "<partition-key>",
				Action: withComponents(func(c *cli.Context, comp *bootstrap.Components) error {
					key, err := requireArg(c, "partition-key")
					if err != nil {
						return err
					}
					value, err := comp.Allocator.Current(c.Context, key)
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, value)
					return nil
				}),
			},
			{
				Name:  "code",
				Usage: "выдать код проекта на текущий год",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "prefix", Usage: "префикс кода (по умолчанию PROJECT_CODE_PREFIX)"},
				},
				Action: withComponents(func(c *cli.Context, comp *bootstrap.Components) error {
					code, err := comp.ProjectCodes.GenerateProjectCode(c.Context, prefixOrDefault(c), clock.System())
					if err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, code)
					return nil
				}),
			},
			{
				Name:  "seed-floor",
				Usage: "продолжить нумерацию кодов после уже выданных в другой системе",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "prefix"},
					&cli.IntFlag{Name: "year", Required: true},
					&cli.Int64Flag{Name: "value", Required: true, Usage: "последний уже выданный номер"},
				},
				Action: withComponents(func(c *cli.Context, comp *bootstrap.Components) error {
					value, err := comp.ProjectCodes.SeedFloor(c.Context, prefixOrDefault(c), c.Int("year"), c.Int64("value"))
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "счётчик: %d\n", value)
					return nil
				}),
			},
			{
				Name:  "export-history",
				Usage: "выгрузить историю версий файла в XLSX",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "project", Required: true},
					&cli.StringFlag{Name: "file", Required: true},
					&cli.StringFlag{Name: "out", Value: "history.xlsx"},
				},
				Action: withComponents(func(c *cli.Context, comp *bootstrap.Components) error {
					versions, err := comp.Versions.ListVersions(c.Context, c.String("project"), c.String("file"))
					if err != nil {
						return err
					}
					out, err := os.Create(c.String("out"))
					if err != nil {
						return err
					}
					defer out.Close()
					if err := report.WriteAttachmentHistory(out, versions); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "версий: %d, файл: %s\n", len(versions), c.String("out"))
					return nil
				}),
			},
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "ошибка:", err)
		os.Exit(1)
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "миграции схемы Postgres",
		Subcommands: []*cli.Command{
			{Name: "up", Usage: "применить все миграции", Action: migrateAction(migrations.Up)},
			{Name: "down", Usage: "откатить последнюю миграцию", Action: migrateAction(migrations.Down)},
			{Name: "status", Usage: "показать состояние миграций", Action: migrateAction(migrations.Status)},
		},
	}
}

func migrateAction(fn func(ctx context.Context, pool *pgxpool.Pool) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg := config.New()
		pool, err := postgresql.ConnectDB(c.Context, cfg.Postgres.DSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		return fn(c.Context, pool)
	}
}

// withComponents поднимает хранилища по конфигу окружения и закрывает их после команды.
func withComponents(action func(c *cli.Context, comp *bootstrap.Components) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg := config.New()
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger := applogger.NewLogger(cfg.Log)
		defer func() { _ = logger.Sync() }()

		comp, err := bootstrap.Build(c.Context, cfg, clock.System(), logger)
		if err != nil {
			logger.Error("не удалось инициализировать хранилища", zap.Error(err))
			return err
		}
		defer comp.Close()
		return action(c, comp)
	}
}

func requireArg(c *cli.Context, name string) (string, error) {
	if c.NArg() != 1 {
		return "", cli.Exit(fmt.Sprintf("ожидается один аргумент <%s>", name), 2)
	}
	return c.Args().First(), nil
}

func prefixOrDefault(c *cli.Context) string {
	if prefix := c.String("prefix"); prefix != "" {
		return prefix
	}
	return config.New().Project.CodePrefix
}
