package postgres_test

import (
	"context"
	"os"
	"strconv"
	"testing"

	"github.com/Rrens/chatrooms/internal/config"
	"github.com/Rrens/chatrooms/internal/repository/kvtest"
	"github.com/Rrens/chatrooms/internal/repository/postgres"
	"github.com/stretchr/testify/require"
)

func TestStore_Contract(t *testing.T) {
	host := os.Getenv("TEST_POSTGRES_HOST")
	if host == "" {
		t.Skip("Requires database connection - set TEST_POSTGRES_HOST to run as integration test")
	}
	port, _ := strconv.Atoi(os.Getenv("TEST_POSTGRES_PORT"))
	if port == 0 {
		port = 5432
	}

	store, err := postgres.Open(context.Background(), config.DatabaseConfig{
		Host:     host,
		Port:     port,
		User:     os.Getenv("TEST_POSTGRES_USER"),
		Password: os.Getenv("TEST_POSTGRES_PASSWORD"),
		Database: os.Getenv("TEST_POSTGRES_DB"),
		SSLMode:  "disable",
		MaxConns: 2,
	})
	require.NoError(t, err)
	defer store.Close()

	kvtest.Run(t, store)
}
