package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"lodge/infras/otel"
	"lodge/infras/postgres"
	"lodge/internal/domains/partner/model"
	gDto "lodge/shared/dto"
	gRepo "lodge/shared/repository"
)

type Partner interface {
	Insert(ctx context.Context, model model.Partner) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Partner, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Partner, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type Offer interface {
	Insert(ctx context.Context, model model.Offer) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Offer, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Offer, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type Reservation interface {
	Insert(ctx context.Context, model model.Reservation) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type partnerRepositoryImpl struct {
	gRepo.Repository[model.Partner]
}

func NewPartner(db *postgres.Connection, otel otel.Otel) Partner {
	return &partnerRepositoryImpl{
		Repository: gRepo.NewRepository[model.Partner](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

type offerRepositoryImpl struct {
	gRepo.Repository[model.Offer]
}

func NewOffer(db *postgres.Connection, otel otel.Otel) Offer {
	return &offerRepositoryImpl{
		Repository: gRepo.NewRepository[model.Offer](model.OfferEntityName, model.OfferTableName, model.FieldID, db, otel),
	}
}

type reservationRepositoryImpl struct {
	gRepo.Repository[model.Reservation]
}

func NewReservation(db *postgres.Connection, otel otel.Otel) Reservation {
	return &reservationRepositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.ReservationEntityName, model.ReservationTableName, model.FieldID, db, otel),
	}
}
