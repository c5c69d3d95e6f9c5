package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/cosecrets/cosecrets/internal/errors"
)

func TestConnect_UnsupportedDriver(t *testing.T) {
	db, err := Connect(Config{Driver: "sqlite3"})

	assert.Nil(t, db)
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}
