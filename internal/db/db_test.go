package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"

	"taskflow/internal/model"
)

func TestDialector(t *testing.T) {
	d, err := Dialector("mysql", "user:pass@tcp(localhost:3306)/taskflow")
	require.NoError(t, err)
	assert.IsType(t, &mysql.Dialector{}, d)
	assert.Equal(t, "mysql", d.Name())

	d, err = Dialector("postgres", "host=localhost dbname=taskflow")
	require.NoError(t, err)
	pg, ok := d.(*postgres.Dialector)
	require.True(t, ok)
	assert.Equal(t, "postgres", pg.Name())
	assert.Equal(t, "postgres", pg.DriverName)

	_, err = Dialector("sqlite", "file.db")
	assert.Error(t, err)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "dsn")
	assert.Error(t, err)
}

func TestModels_ParentsFirst(t *testing.T) {
	models := Models()
	require.Len(t, models, 2)
	assert.IsType(t, &model.User{}, models[0])
	assert.IsType(t, &model.Task{}, models[1])
}
