package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisteredMigrations(t *testing.T) {
	migrations := GetMigrations()
	require.NotEmpty(t, migrations, "embedded migrations must register at init")

	last := 0
	for _, m := range migrations {
		assert.Greater(t, m.Version, last, "versions must be strictly increasing")
		last = m.Version
		assert.NotEmpty(t, m.Name)
		assert.NotEmpty(t, m.UpScript)
		assert.NotEmpty(t, m.DownScript)
	}
}

func TestGetMigrationByVersion(t *testing.T) {
	first := GetMigrationByVersion(1)
	require.NotNil(t, first)
	assert.Equal(t, "init", first.Name)
	assert.Equal(t, "000001_init", first.String())

	assert.Nil(t, GetMigrationByVersion(99999))
}
