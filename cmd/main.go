// Package main runs the wallet API: membership, catalog, balances, top ups and payments.
package main

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/go-petr/pet-wallet/cmd/httpserver"
	"github.com/go-petr/pet-wallet/internal/middleware"
	"github.com/go-petr/pet-wallet/pkg/cachepkg"
	"github.com/go-petr/pet-wallet/pkg/configpkg"
	"github.com/go-petr/pet-wallet/pkg/dbpkg"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.CreateLogger(config)

	db, err := dbpkg.Setup(config.DBDriver, config.DBSource, dbpkg.PoolOptions{
		MaxOpenConns:    config.DBMaxOpenConns,
		MaxIdleConns:    config.DBMaxIdleConns,
		ConnMaxLifetime: config.DBConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to database")
	}

	var cache *redis.Client

	if config.RedisAddress != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)

		cache, err = cachepkg.Setup(ctx, config.RedisAddress)
		if err != nil {
			logger.Warn().Err(err).Msg("catalog cache disabled")
		}

		cancel()
	}

	server, err := httpserver.New(db, cache, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().Str("address", config.ServerAddress).Msg("WALLET API SERVER HAS STARTED")

	if err := server.Start(config.ServerAddress); err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
