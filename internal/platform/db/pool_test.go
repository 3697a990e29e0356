package db

import (
	"context"
	"testing"
	"time"

	"fxdeals/internal/config"

	"github.com/stretchr/testify/require"
)

func TestNewPoolConfig(t *testing.T) {
	poolCfg, err := newPoolConfig(config.DbServer{
		Host: "db", Port: "5433", User: "fx", Pass: "secret", Name: "fxdeals", MaxConns: 7,
	})

	require.NoError(t, err)
	require.Equal(t, int32(7), poolCfg.MaxConns)
	require.Equal(t, healthCheckPeriod, poolCfg.HealthCheckPeriod)
	require.Equal(t, "db", poolCfg.ConnConfig.Host)
	require.Equal(t, uint16(5433), poolCfg.ConnConfig.Port)
	require.Equal(t, "fxdeals", poolCfg.ConnConfig.Database)
	require.Equal(t, "fxdeals", poolCfg.ConnConfig.RuntimeParams["application_name"])
	require.Equal(t, "UTC", poolCfg.ConnConfig.RuntimeParams["timezone"])
}

func TestCreatePoolAndPing_InvalidPort(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := CreatePoolAndPing(ctx, config.DbServer{Host: "localhost", Port: "not-a-port", Name: "fxdeals"})

	require.Nil(t, pool)
	require.ErrorContains(t, err, "failed to parse db config")
}
