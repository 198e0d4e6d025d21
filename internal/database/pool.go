package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"fabula-server/internal/config"
)

// Connect создает пул соединений PostgreSQL с повторными попытками:
// сервис может стартовать раньше базы.
func Connect(cfg *config.Config, logger *zap.Logger) (*pgxpool.Pool, error) {
	var dbPool *pgxpool.Pool
	var err error
	maxRetries := 50
	retryDelay := 3 * time.Second

	poolConfig, parseErr := pgxpool.ParseConfig(cfg.GetDSN())
	if parseErr != nil {
		// DSN некорректен, нет смысла пытаться дальше
		return nil, fmt.Errorf("ошибка парсинга DSN: %w", parseErr)
	}
	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	poolConfig.MaxConnIdleTime = cfg.DBIdleTimeout

	logger.Info("Попытка подключения к PostgreSQL",
		zap.String("dsn", cfg.MaskedDSN()),
		zap.Int("max_retries", maxRetries),
		zap.Duration("retry_delay", retryDelay))

	for i := 0; i < maxRetries; i++ {
		attempt := i + 1

		// Таймаут на одну попытку подключения и пинга
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			logger.Warn("Не удалось создать пул соединений",
				zap.Int("attempt", attempt), zap.Error(err))
			cancel()
			if i < maxRetries-1 {
				time.Sleep(retryDelay)
			}
			continue
		}

		if err = dbPool.Ping(ctx); err != nil {
			logger.Warn("Не удалось выполнить ping к PostgreSQL",
				zap.Int("attempt", attempt), zap.Error(err))
			dbPool.Close()
			cancel()
			if i < maxRetries-1 {
				time.Sleep(retryDelay)
			}
			continue
		}

		cancel()
		logger.Info("Подключение к PostgreSQL установлено", zap.Int("attempt", attempt))
		return dbPool, nil
	}

	return nil, fmt.Errorf("не удалось подключиться к PostgreSQL после %d попыток: %w", maxRetries, err)
}
