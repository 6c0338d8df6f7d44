package mysql_test

import (
	"context"
	"os"
	"testing"

	"github.com/Rrens/chatrooms/internal/config"
	"github.com/Rrens/chatrooms/internal/repository/kvtest"
	"github.com/Rrens/chatrooms/internal/repository/mysql"
	"github.com/stretchr/testify/require"
)

func TestStore_Contract(t *testing.T) {
	host := os.Getenv("TEST_MYSQL_HOST")
	if host == "" {
		t.Skip("Requires database connection - set TEST_MYSQL_HOST to run as integration test")
	}

	store, err := mysql.Open(context.Background(), config.DatabaseConfig{
		Host:     host,
		Port:     3306,
		User:     os.Getenv("TEST_MYSQL_USER"),
		Password: os.Getenv("TEST_MYSQL_PASSWORD"),
		Database: os.Getenv("TEST_MYSQL_DB"),
	})
	require.NoError(t, err)
	defer store.Close()

	kvtest.Run(t, store)
}
