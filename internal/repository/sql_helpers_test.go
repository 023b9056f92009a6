package repository

import (
	"errors"
	"fmt"
	"testing"

	market_errors "classifieds-core/pkg/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		notFound error
		want     error
		wantKind market_errors.Kind
	}{
		{name: "nil", err: nil, want: nil},
		{name: "record not found with override", err: gorm.ErrRecordNotFound, notFound: market_errors.ErrReportNotFound, want: market_errors.ErrReportNotFound},
		{name: "record not found default", err: gorm.ErrRecordNotFound, want: market_errors.ErrNotFound},
		{name: "wrapped record not found", err: fmt.Errorf("first: %w", gorm.ErrRecordNotFound), notFound: market_errors.ErrListingNotFound, want: market_errors.ErrListingNotFound},
		{name: "duplicated key", err: gorm.ErrDuplicatedKey, want: market_errors.ErrAlreadyExists},
		{name: "raw unique violation", err: &pgconn.PgError{Code: "23505"}, want: market_errors.ErrAlreadyExists},
		{name: "domain errors pass through", err: market_errors.ErrReportAlreadyResolved, want: market_errors.ErrReportAlreadyResolved},
		{name: "anything else", err: errors.New("dial tcp: refused"), wantKind: market_errors.KindStorageUnavailable},
		{name: "other pg error", err: &pgconn.PgError{Code: "40001"}, wantKind: market_errors.KindStorageUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translate(tt.err, tt.notFound)
			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, market_errors.KindOf(got))
				assert.ErrorIs(t, got, tt.err)
				return
			}
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("23505")))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, `%honda%`, likePattern("honda"))
	assert.Equal(t, `%50\%\_off%`, likePattern("  50%_off "))
	assert.Equal(t, `%C:\\cars%`, likePattern(`C:\cars`))
}
