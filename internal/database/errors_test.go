package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestErrorHelpers(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation})
	check := &pgconn.PgError{Code: pgerrcode.CheckViolation}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsCheckViolation(unique))

	assert.True(t, IsCheckViolation(check))
	assert.False(t, IsUniqueViolation(check))

	assert.True(t, IsNoRows(fmt.Errorf("get: %w", sql.ErrNoRows)))
	assert.False(t, IsNoRows(errors.New("boom")))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
}
