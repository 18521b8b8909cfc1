package repository

import (
	"context"
	"fmt"

	"lodge/infras/otel"
	"lodge/infras/postgres"
	"lodge/internal/domains/stay/model"
	"lodge/shared/constant"
	"lodge/shared/logger"
	gRepo "lodge/shared/repository"
)

// The conditional increment is the only guard against overselling a window: the row lock it takes
// is held until the surrounding transaction ends.
const (
	queryReserve = `UPDATE ` + model.AvailabilityTableName + `
		SET current_bookings = current_bookings + 1, modified_at = NOW()
		WHERE id = $1 AND is_available AND (max_bookings IS NULL OR current_bookings < max_bookings)`
	queryRelease = `UPDATE ` + model.AvailabilityTableName + `
		SET current_bookings = GREATEST(current_bookings - 1, 0), modified_at = NOW()
		WHERE id = $1`
)

type availabilityRepositoryImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func NewAvailability(db *postgres.Connection, otel otel.Otel) Availability {
	return &availabilityRepositoryImpl{
		db:   db,
		otel: otel,
	}
}

func (repo *availabilityRepositoryImpl) Reserve(ctx context.Context, id string) (reserved bool, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".availability.Reserve")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryReserve)

	result, err := gRepo.Writer(ctx, repo.db).ExecContext(ctx, queryReserve, id)
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to reserve availability: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read reserved rows: %w", err)
	}

	return affected == 1, nil
}

func (repo *availabilityRepositoryImpl) Release(ctx context.Context, id string) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".availability.Release")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryRelease)

	if _, err = gRepo.Writer(ctx, repo.db).ExecContext(ctx, queryRelease, id); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to release availability: %w", err)
	}

	return nil
}
