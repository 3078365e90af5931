package services

import (
	"context"

	"go.uber.org/zap"

	"project-registry/internal/entities"
	"project-registry/internal/events"
	"project-registry/pkg/clock"
	apperrors "project-registry/pkg/errors"
	"project-registry/pkg/eventbus"
	"project-registry/pkg/validation"
)

type ProjectCodeServiceInterface interface {
	GenerateProjectCode(ctx context.Context, prefix string, clk clock.Clock) (string, error)
	Generate(ctx context.Context, prefix string) (entities.ProjectCode, error)
	LastIssued(ctx context.Context, prefix string, year int) (*entities.ProjectCode, error)
	SeedFloor(ctx context.Context, prefix string, year int, sequence int64) (int64, error)
}

type ProjectCodeService struct {
	allocator SequenceAllocatorInterface
	clock     clock.Clock
	validator *validation.CustomValidator
	bus       *eventbus.Bus
	logger    *zap.Logger
}

func NewProjectCodeService(
	allocator SequenceAllocatorInterface,
	clk clock.Clock,
	validator *validation.CustomValidator,
	bus *eventbus.Bus,
	logger *zap.Logger,
) ProjectCodeServiceInterface {
	return &ProjectCodeService{
		allocator: allocator,
		clock:     clk,
		validator: validator,
		bus:       bus,
		logger:    logger,
	}
}

// GenerateProjectCode возвращает "PRJ-2026-0004". Год берётся из clk в момент вызова,
// поэтому запросы на стыке лет попадают каждый в свою партицию.
func (s *ProjectCodeService) GenerateProjectCode(ctx context.Context, prefix string, clk clock.Clock) (string, error) {
	code, err := s.generate(ctx, prefix, clk)
	if err != nil {
		return "", err
	}
	return code.String(), nil
}

func (s *ProjectCodeService) Generate(ctx context.Context, prefix string) (entities.ProjectCode, error) {
	return s.generate(ctx, prefix, s.clock)
}

func (s *ProjectCodeService) generate(ctx context.Context, prefix string, clk clock.Clock) (entities.ProjectCode, error) {
	if clk == nil {
		return entities.ProjectCode{}, apperrors.InvalidInput("часы не переданы")
	}
	year := clk.Now().Year()
	if err := s.validate(prefix, year); err != nil {
		return entities.ProjectCode{}, err
	}

	code := entities.ProjectCode{Prefix: prefix, Year: year}
	// Ошибки аллокатора отдаём как есть: он уже сделал свои повторы
	seq, err := s.allocator.Allocate(ctx, code.PartitionKey())
	if err != nil {
		return entities.ProjectCode{}, err
	}
	code.Sequence = seq

	s.logger.Info("выдан код проекта", zap.String("code", code.String()))
	s.bus.Publish(ctx, events.ProjectCodeIssuedEvent{Code: code})
	return code, nil
}

// LastIssued - последний выданный код для (prefix, year); ErrNotFound, если кодов ещё не было.
func (s *ProjectCodeService) LastIssued(ctx context.Context, prefix string, year int) (*entities.ProjectCode, error) {
	if err := s.validate(prefix, year); err != nil {
		return nil, err
	}
	code := entities.ProjectCode{Prefix: prefix, Year: year}
	seq, err := s.allocator.Current(ctx, code.PartitionKey())
	if err != nil {
		return nil, err
	}
	if seq == 0 {
		return nil, apperrors.ErrNotFound
	}
	code.Sequence = seq
	return &code, nil
}

// SeedFloor продолжает нумерацию после уже существующих кодов (например, PRJ-2026-0137 из старой системы).
func (s *ProjectCodeService) SeedFloor(ctx context.Context, prefix string, year int, sequence int64) (int64, error) {
	if err := s.validate(prefix, year); err != nil {
		return 0, err
	}
	return s.allocator.EnsureFloor(ctx, entities.ProjectCodePartitionKey(prefix, year), sequence)
}

func (s *ProjectCodeService) validate(prefix string, year int) error {
	if err := s.validator.Var(prefix, "required,code_prefix"); err != nil {
		return err
	}
	if year < 1000 || year > 9999 {
		return apperrors.InvalidInput("год %d не четырёхзначный", year)
	}
	return nil
}
