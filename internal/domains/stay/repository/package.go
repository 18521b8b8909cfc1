package repository

import (
	"context"
	"fmt"

	"lodge/infras/otel"
	"lodge/infras/postgres"
	"lodge/internal/domains/stay/model"
	"lodge/shared"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/logger"
	gRepo "lodge/shared/repository"

	"github.com/shopspring/decimal"
)

const (
	queryNextRulePosition = `SELECT COALESCE(MAX(position), -1) + 1 FROM ` + model.PricingRuleTableName + ` WHERE package_id = $1`
	queryRecordBooking    = `UPDATE ` + model.TableName + `
		SET total_bookings = total_bookings + 1, total_revenue = total_revenue + $2, modified_at = NOW()
		WHERE id = $1`
	queryRevertBooking = `UPDATE ` + model.TableName + `
		SET total_bookings = GREATEST(total_bookings - 1, 0), total_revenue = GREATEST(total_revenue - $2, 0), modified_at = NOW()
		WHERE id = $1`
)

type packageRepositoryImpl struct {
	gRepo.Repository[model.Package]
	components   gRepo.Repository[model.Component]
	rules        gRepo.Repository[model.PricingRule]
	availability gRepo.Repository[model.Availability]
	links        gRepo.Repository[model.PartnerOfferLink]
	db           *postgres.Connection
	otel         otel.Otel
}

func NewPackage(db *postgres.Connection, otel otel.Otel) Package {
	return &packageRepositoryImpl{
		Repository:   gRepo.NewRepository[model.Package](model.EntityName, model.TableName, model.FieldID, db, otel),
		components:   gRepo.NewRepository[model.Component](model.ComponentEntityName, model.ComponentTableName, model.FieldID, db, otel),
		rules:        gRepo.NewRepository[model.PricingRule](model.PricingRuleEntityName, model.PricingRuleTableName, model.FieldID, db, otel),
		availability: gRepo.NewRepository[model.Availability](model.AvailabilityEntityName, model.AvailabilityTableName, model.FieldID, db, otel),
		links:        gRepo.NewRepository[model.PartnerOfferLink](model.PartnerOfferEntityName, model.PartnerOfferTableName, model.FieldID, db, otel),
		db:           db,
		otel:         otel,
	}
}

func (repo *packageRepositoryImpl) GetAggregate(ctx context.Context, id string) (pkg model.Package, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".package.GetAggregate")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	pkg, err = repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil || pkg.ID == constant.Empty {
		return pkg, err
	}

	byPackage := shared.FilterByID(id, model.FieldPackageID, constant.Empty)

	pkg.Components, err = repo.components.GetAll(ctx, gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirAsc}, byPackage)
	if err != nil {
		return model.Package{}, err
	}

	pkg.PricingRules, err = repo.rules.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldPosition, SortDir: gDto.SortDirAsc}, byPackage)
	if err != nil {
		return model.Package{}, err
	}

	pkg.Availability, err = repo.availability.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldDateFrom, SortDir: gDto.SortDirAsc}, byPackage)
	if err != nil {
		return model.Package{}, err
	}

	pkg.PartnerOffers, err = repo.links.GetAll(ctx, gDto.QueryParams{SortBy: constant.FieldCreatedAt, SortDir: gDto.SortDirAsc}, byPackage)
	if err != nil {
		return model.Package{}, err
	}

	return pkg, nil
}

func (repo *packageRepositoryImpl) InsertComponents(ctx context.Context, components []model.Component) error {
	return repo.components.InsertBulk(ctx, components)
}

func (repo *packageRepositoryImpl) InsertPricingRules(ctx context.Context, rules []model.PricingRule) error {
	return repo.rules.InsertBulk(ctx, rules)
}

func (repo *packageRepositoryImpl) InsertAvailability(ctx context.Context, windows []model.Availability) error {
	return repo.availability.InsertBulk(ctx, windows)
}

func (repo *packageRepositoryImpl) InsertPartnerOffers(ctx context.Context, links []model.PartnerOfferLink) error {
	return repo.links.InsertBulk(ctx, links)
}

func (repo *packageRepositoryImpl) NextRulePosition(ctx context.Context, packageID string) (position int, err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".package.NextRulePosition")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryNextRulePosition)

	if err = gRepo.Reader(ctx, repo.db).GetContext(ctx, &position, queryNextRulePosition, packageID); err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to get next pricing rule position: %w", err)
	}

	return position, nil
}

func (repo *packageRepositoryImpl) RecordBooking(ctx context.Context, packageID string, amount decimal.Decimal) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".package.RecordBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return repo.exec(ctx, queryRecordBooking, packageID, amount)
}

func (repo *packageRepositoryImpl) RevertBooking(ctx context.Context, packageID string, amount decimal.Decimal) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".package.RevertBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return repo.exec(ctx, queryRevertBooking, packageID, amount)
}

func (repo *packageRepositoryImpl) exec(ctx context.Context, query, packageID string, amount decimal.Decimal) error {
	_, err := gRepo.Writer(ctx, repo.db).ExecContext(ctx, query, packageID, amount)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to update package statistics: %w", err)
	}

	return nil
}
