package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"lodge/internal/domains/stay/model"
	gDto "lodge/shared/dto"

	"github.com/shopspring/decimal"
)

type Package interface {
	Insert(ctx context.Context, model model.Package) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Package, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Package, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error

	// GetAggregate loads the package with its components, rules, windows and partner links.
	// A zero package is returned when the id is unknown.
	GetAggregate(ctx context.Context, id string) (model.Package, error)
	InsertComponents(ctx context.Context, components []model.Component) error
	InsertPricingRules(ctx context.Context, rules []model.PricingRule) error
	InsertAvailability(ctx context.Context, windows []model.Availability) error
	InsertPartnerOffers(ctx context.Context, links []model.PartnerOfferLink) error
	NextRulePosition(ctx context.Context, packageID string) (int, error)
	RecordBooking(ctx context.Context, packageID string, amount decimal.Decimal) error
	RevertBooking(ctx context.Context, packageID string, amount decimal.Decimal) error
}

type Availability interface {
	// Reserve counts one booking against the window when it is open and below its ceiling.
	// It reports false when no slot was taken.
	Reserve(ctx context.Context, id string) (bool, error)
	// Release gives one booking back to the window, never going below zero.
	Release(ctx context.Context, id string) error
}
