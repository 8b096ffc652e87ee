package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN("booking", "s3cret", "db", "3306", "movie_booking")
	assert.Equal(t,
		"booking:s3cret@tcp(db:3306)/movie_booking?charset=utf8mb4&parseTime=true&loc=UTC",
		dsn)

	// Empty password omits the colon so socket auth setups keep working.
	dsn = buildDSN("root", "", "127.0.0.1", "3306", "movie_booking")
	assert.Equal(t,
		"root@tcp(127.0.0.1:3306)/movie_booking?charset=utf8mb4&parseTime=true&loc=UTC",
		dsn)
}
