package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"

	"lodge/config"
	"lodge/infras/otel"
	"lodge/infras/s3"
	"lodge/internal/domains/stay/model"
	"lodge/internal/domains/stay/model/dto"
	"lodge/internal/domains/stay/repository"
	"lodge/shared"
	"lodge/shared/base64"
	"lodge/shared/cache"
	"lodge/shared/constant"
	gDto "lodge/shared/dto"
	"lodge/shared/failure"
	gModel "lodge/shared/model"
	gRepo "lodge/shared/repository"
	"lodge/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	CacheGetPackage    = "package:get"
	CacheGetAllPackage = "package:get_all"
	CacheCountPackage  = "package:count"
)

type Package interface {
	Create(ctx context.Context, req dto.CreatePackageRequest) (dto.PackageResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetPackagesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.PackageResponse, error)
	Update(ctx context.Context, req dto.UpdatePackageRequest, id string) error
	Delete(ctx context.Context, id string) error
	AddPricingRule(ctx context.Context, id string, req dto.CreatePricingRuleRequest) (dto.PricingRuleResponse, error)
	AddAvailability(ctx context.Context, id string, req dto.CreateAvailabilityRequest) (dto.AvailabilityResponse, error)
	UploadImage(ctx context.Context, id string, req dto.UploadImageRequest) (dto.UploadImageResponse, error)
}

type serviceImpl struct {
	repo       repository.Package
	transactor gRepo.Transactor
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
	s3         s3.S3
}

func New(repo repository.Package, transactor gRepo.Transactor, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Package {
	return &serviceImpl{
		repo:       repo,
		transactor: transactor,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
		s3:         s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreatePackageRequest) (res dto.PackageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	pkg, err := req.ToModel(user)
	if err != nil {
		return res, err
	}

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		exist, err := s.repo.Exist(ctx, shared.FilterByID(pkg.Code, model.FieldCode, model.TableName))
		if err != nil {
			return err
		}

		if exist {
			return failure.Conflict(fmt.Sprintf("package code %s is already in use", pkg.Code))
		}

		if err := s.repo.Insert(ctx, pkg); err != nil {
			if gRepo.IsUniqueViolation(err) {
				return failure.Conflict(fmt.Sprintf("package code %s is already in use", pkg.Code))
			}

			return err
		}

		if err := s.repo.InsertComponents(ctx, pkg.Components); err != nil {
			return err
		}

		if err := s.repo.InsertPricingRules(ctx, pkg.PricingRules); err != nil {
			return err
		}

		if err := s.repo.InsertAvailability(ctx, pkg.Availability); err != nil {
			return err
		}

		return s.repo.InsertPartnerOffers(ctx, pkg.PartnerOffers)
	})
	if err != nil {
		log.Error().Err(err).Str("code", pkg.Code).Msg("failed to create package")

		return res, err
	}

	res.FromModel(pkg)

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, CacheGetAllPackage)
		shared.InvalidateCaches(c, s.cache, CacheCountPackage)
	}()

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetPackagesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(CacheGetAllPackage, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for packages")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count packages")

		return res, err
	}

	packages, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get packages")

		return res, err
	}

	res.FromModels(packages, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save packages to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (total int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(CacheCountPackage, req, filter)

	err = s.cache.Get(ctx, cacheKey, &total)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for package count")

		return total, nil
	}

	total, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count packages")

		return total, err
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, total, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save package count to cache")
		}
	}()

	return total, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.PackageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(CacheGetPackage, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for package")

		return res, nil
	}

	pkg, err := s.repo.GetAggregate(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get package")

		return res, fmt.Errorf("failed to get package: %w", err)
	}

	if pkg.ID == constant.Empty {
		return res, failure.NotFound("package not found")
	}

	res.FromModel(pkg)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save package to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdatePackageRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	pkg, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get package")

		return fmt.Errorf("failed to get package: %w", err)
	}

	if pkg.ID == constant.Empty {
		return failure.NotFound("package not found")
	}

	if _, err = req.Merge(pkg); err != nil {
		return err
	}

	updatedFields := shared.TransformFields(req, user)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update package")

		return fmt.Errorf("failed to update package: %w", err)
	}

	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	pkg, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get package")

		return fmt.Errorf("failed to get package: %w", err)
	}

	if pkg.ID == constant.Empty {
		return failure.NotFound("package not found")
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		if gRepo.IsForeignKeyViolation(err) {
			return failure.Conflict("package has bookings and cannot be deleted, archive it instead")
		}

		log.Error().Err(err).Msg("failed to delete package")

		return fmt.Errorf("failed to delete package: %w", err)
	}

	s.deleteImage(ctx, pkg.ImageURL)
	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) AddPricingRule(ctx context.Context, id string, req dto.CreatePricingRuleRequest) (res dto.PricingRuleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AddPricingRule")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if err = s.mustExist(ctx, id); err != nil {
		return res, err
	}

	var rule model.PricingRule

	err = s.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		position, err := s.repo.NextRulePosition(ctx, id)
		if err != nil {
			return err
		}

		rule = req.ToModel(id, position, gModel.NewMetadata(user, timezone.Now()))

		return s.repo.InsertPricingRules(ctx, []model.PricingRule{rule})
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to add pricing rule")

		return res, fmt.Errorf("failed to add pricing rule: %w", err)
	}

	res.FromModel(rule)
	s.invalidate(ctx, id)

	return res, nil
}

func (s *serviceImpl) AddAvailability(ctx context.Context, id string, req dto.CreateAvailabilityRequest) (res dto.AvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AddAvailability")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	window, err := req.ToModel(id, gModel.NewMetadata(user, timezone.Now()))
	if err != nil {
		return res, err
	}

	if err = s.mustExist(ctx, id); err != nil {
		return res, err
	}

	if err = s.repo.InsertAvailability(ctx, []model.Availability{window}); err != nil {
		log.Error().Err(err).Msg("failed to add availability window")

		return res, fmt.Errorf("failed to add availability window: %w", err)
	}

	res.FromModel(window)
	s.invalidate(ctx, id)

	return res, nil
}

func (s *serviceImpl) UploadImage(ctx context.Context, id string, req dto.UploadImageRequest) (res dto.UploadImageResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UploadImage")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	contentType, data, err := base64.Decode(req.Image)
	if err != nil {
		return res, failure.BadRequest(err)
	}

	if err = s.mustExist(ctx, id); err != nil {
		return res, err
	}

	key := fmt.Sprintf("%s/%s-%s.%s", model.EntityName, id, uuid.NewString(), base64.Extension(contentType))

	url, err := s.s3.Upload(ctx, key, contentType, data)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload file to S3")

		return res, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	updatedFields := map[string]any{
		model.FieldImageURL:      url,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Msg("failed to save package image")

		return res, fmt.Errorf("failed to save package image: %w", err)
	}

	res.URL = url
	s.invalidate(ctx, id)

	return res, nil
}

// deleteImage removes a stored package image. The package row is already gone, so failures are
// only logged.
func (s *serviceImpl) deleteImage(ctx context.Context, url string) {
	key := s.s3.KeyFromURL(url)
	if key == constant.Empty {
		return
	}

	if err := s.s3.Delete(context.WithoutCancel(ctx), key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to delete package image")
	}
}

func (s *serviceImpl) mustExist(ctx context.Context, id string) error {
	exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check package existence")

		return err
	}

	if !exist {
		return failure.NotFound("package not found")
	}

	return nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(CacheGetPackage, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete package cache")
		}

		shared.InvalidateCaches(c, s.cache, CacheGetAllPackage)
		shared.InvalidateCaches(c, s.cache, CacheCountPackage)
	}()
}
