package repository

import (
	"errors"
	"strings"

	market_errors "classifieds-core/pkg/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// translate maps gorm errors onto the domain error set.
// notFound replaces gorm.ErrRecordNotFound; everything unknown becomes StorageUnavailable.
func translate(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if market_errors.IsDomain(err) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if notFound == nil {
			return market_errors.ErrNotFound
		}
		return notFound
	}
	if isUniqueViolation(err) {
		return market_errors.ErrAlreadyExists
	}
	return market_errors.StorageUnavailable(err)
}

// likePattern escapes LIKE wildcards in a user supplied search term.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(term)) + "%"
}
