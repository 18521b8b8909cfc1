package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"lodge/infras/otel"
	"lodge/infras/postgres"
	"lodge/shared/constant"
	"lodge/shared/dto"
	"lodge/shared/logger"

	"github.com/jmoiron/sqlx"
)

var errRequiredFilter = errors.New("required filter")

// Repository runs CRUD queries for one table. Columns come from the db tags of T, including the tags
// of embedded structs such as model.Metadata.
type Repository[T any] struct {
	db      *postgres.Connection
	otel    otel.Otel
	table   string
	entity  string
	primary string
	columns []string
	insert  string
}

func NewRepository[T any](entity, table, primary string, db *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns := dbColumns(reflect.TypeOf(zero))

	placeholders := make([]string, len(columns))
	for idx, col := range columns {
		placeholders[idx] = ":" + col
	}

	return Repository[T]{
		db:      db,
		otel:    otl,
		table:   table,
		entity:  entity,
		primary: primary,
		columns: columns,
		insert:  fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), strings.Join(placeholders, ", ")),
	}
}

func (repo *Repository[T]) scope(ctx context.Context, operation string, query string) (context.Context, otel.Scope) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+repo.entity+"."+operation)
	if query != "" {
		scope.SetAttribute(constant.OtelQueryAttributeKey, query)
	}

	return ctx, scope
}

func (repo *Repository[T]) fail(scope otel.Scope, action string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", action, repo.entity, err)
}

// prepare builds a named statement on the reader, which is the open transaction when ctx carries one.
func (repo *Repository[T]) prepare(ctx context.Context, scope otel.Scope, query string) (*sqlx.NamedStmt, error) {
	stmt, err := Reader(ctx, repo.db).PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, repo.fail(scope, "prepare statement", err)
	}

	return stmt, nil
}

func (repo *Repository[T]) Insert(ctx context.Context, entity T) error {
	ctx, scope := repo.scope(ctx, "Insert", repo.insert)
	defer scope.End()

	if _, err := Writer(ctx, repo.db).NamedExecContext(ctx, repo.insert, entity); err != nil {
		return repo.fail(scope, "insert data", err)
	}

	return nil
}

// InsertBulk writes all entities in one statement. An empty slice is a no-op.
func (repo *Repository[T]) InsertBulk(ctx context.Context, entities []T) error {
	if len(entities) == 0 {
		return nil
	}

	ctx, scope := repo.scope(ctx, "InsertBulk", repo.insert)
	defer scope.End()

	if _, err := Writer(ctx, repo.db).NamedExecContext(ctx, repo.insert, entities); err != nil {
		return repo.fail(scope, "bulk insert data", err)
	}

	return nil
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s%s)", repo.table, where)

	ctx, scope := repo.scope(ctx, "Exist", query)
	defer scope.End()

	stmt, err := repo.prepare(ctx, scope, query)
	if err != nil {
		return false, err
	}
	defer stmt.Close()

	var exist bool
	if err = stmt.GetContext(ctx, &exist, args); err != nil {
		return false, repo.fail(scope, "check exist data", err)
	}

	return exist, nil
}

// Get returns the first row matching filter, or the zero T when nothing matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	var entity T

	where, args := repo.BuildWhereClause(filter)
	query := fmt.Sprintf("SELECT %s FROM %s%s", repo.selection(columns), repo.table, where)

	ctx, scope := repo.scope(ctx, "Get", query)
	defer scope.End()

	stmt, err := repo.prepare(ctx, scope, query)
	if err != nil {
		return entity, err
	}
	defer stmt.Close()

	err = stmt.GetContext(ctx, &entity, args)
	if errors.Is(err, sql.ErrNoRows) {
		return entity, nil
	}

	if err != nil {
		return entity, repo.fail(scope, "get data", err)
	}

	return entity, nil
}

// GetAll lists rows matching filter. Without a sort column rows come newest first. The primary key
// breaks ties so pages never overlap.
func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	where, args := repo.BuildWhereClause(filter)

	sortBy, sortDir := params.SortBy, params.SortDir
	if sortBy == "" {
		sortBy, sortDir = constant.DefaultValueSortBy, constant.DefaultValueSortDir
	}

	if sortDir == "" {
		sortDir = dto.SortDirAsc
	}

	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s.%s %s, %s.%s",
		repo.selection(columns), repo.table, where, repo.table, sortBy, sortDir, repo.table, repo.primary)

	if params.Limit > 0 {
		args["limit"] = params.Limit
		args["offset"] = params.Offset()
		query += " LIMIT :limit OFFSET :offset"
	}

	ctx, scope := repo.scope(ctx, "GetAll", query)
	defer scope.End()

	stmt, err := repo.prepare(ctx, scope, query)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	entities := []T{}
	if err = stmt.SelectContext(ctx, &entities, args); err != nil {
		return nil, repo.fail(scope, "get all data", err)
	}

	return entities, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	where, args := repo.BuildWhereClause(filter)
	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s%s", repo.table, repo.primary, repo.table, where)

	ctx, scope := repo.scope(ctx, "Count", query)
	defer scope.End()

	stmt, err := repo.prepare(ctx, scope, query)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	var count int
	if err = stmt.GetContext(ctx, &count, args); err != nil {
		return 0, repo.fail(scope, "count data", err)
	}

	return count, nil
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	query := "DELETE FROM " + repo.table + where

	ctx, scope := repo.scope(ctx, "Delete", query)
	defer scope.End()

	if _, err := Writer(ctx, repo.db).NamedExecContext(ctx, query, args); err != nil {
		return repo.fail(scope, "delete data", err)
	}

	return nil
}

func (repo *Repository[T]) Update(ctx context.Context, fields map[string]any, filter dto.FilterGroup) error {
	_, err := repo.UpdateAffected(ctx, fields, filter)

	return err
}

// UpdateAffected behaves like Update and reports how many rows matched the filter. Field names are
// bound as named arguments, so they must not collide with the filter's argument names.
func (repo *Repository[T]) UpdateAffected(ctx context.Context, fields map[string]any, filter dto.FilterGroup) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}

	where, args := repo.BuildWhereClause(filter)
	if where == "" {
		return 0, errRequiredFilter
	}

	assignments := make([]string, 0, len(fields))
	for _, col := range slices.Sorted(maps.Keys(fields)) {
		assignments = append(assignments, col+" = :"+col)
	}

	query := fmt.Sprintf("UPDATE %s SET %s%s", repo.table, strings.Join(assignments, ", "), where)

	ctx, scope := repo.scope(ctx, "Update", query)
	defer scope.End()

	maps.Copy(args, fields)

	result, err := Writer(ctx, repo.db).NamedExecContext(ctx, query, args)
	if err != nil {
		return 0, repo.fail(scope, "update data", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, repo.fail(scope, "read affected rows", err)
	}

	return affected, nil
}

// BuildWhereClause renders filter as a WHERE clause with a leading space, or an empty string when the
// group holds no predicate.
func (repo *Repository[T]) BuildWhereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return " WHERE " + where, args
}

func (repo *Repository[T]) selection(columns []string) string {
	selected := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(columns) > 0 && !slices.Contains(columns, col) {
			continue
		}

		selected = append(selected, repo.table+"."+col)
	}

	return strings.Join(selected, ", ")
}

func dbColumns(reflectType reflect.Type) []string {
	columns := []string{}

	for idx := range reflectType.NumField() {
		field := reflectType.Field(idx)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			columns = append(columns, dbColumns(field.Type)...)

			continue
		}

		if tag := field.Tag.Get("db"); tag != "" && tag != "-" {
			columns = append(columns, tag)
		}
	}

	return columns
}
