package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildConnStringSetsTimeouts(t *testing.T) {
	connStr := buildConnString("localhost", "5432", "mentorhub", "secret", "mentorhub_db", "disable")

	assert.Contains(t, connStr, "host=localhost")
	assert.Contains(t, connStr, "dbname=mentorhub_db")
	assert.Contains(t, connStr, "connect_timeout=10")
	assert.Contains(t, connStr, "statement_timeout=10000", "every session must carry a bounded statement timeout")
}
