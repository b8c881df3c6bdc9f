// db/redis.go
package db

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	logger "github.com/MZain-ul-Abideen/MAS-Explainability/logging"
	"github.com/MZain-ul-Abideen/MAS-Explainability/model"
)

var RedisClient *redis.Client

func InitRedis() error {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:         viper.GetString("redis.addr"),
		Password:     viper.GetString("redis.password"),
		DB:           viper.GetInt("redis.db"),
		DialTimeout:  viper.GetDuration("redis.dialTimeout"),
		ReadTimeout:  viper.GetDuration("redis.readTimeout"),
		WriteTimeout: viper.GetDuration("redis.writeTimeout"),
		PoolSize:     viper.GetInt("redis.poolSize"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Successfully connected to Redis")
	return nil
}

func CloseRedis() {
	if RedisClient != nil {
		if err := RedisClient.Close(); err != nil {
			logger.Error("Error closing Redis connection", zap.Error(err))
		}
	}
}

// queryKey hashes the query text so arbitrary user input never lands in a
// Redis key verbatim.
func queryKey(prefix, query string) string {
	sum := sha256.Sum256([]byte(query))
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:16]))
}

func CacheEvidencePacket(ctx context.Context, packet *model.EvidencePacket) error {
	packetJSON, err := json.Marshal(packet)
	if err != nil {
		return fmt.Errorf("failed to marshal evidence packet: %w", err)
	}

	key := queryKey("evidence", packet.Query)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, packetJSON, defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache evidence packet: %w", err)
	}

	logger.Debug("Evidence packet cached successfully", zap.String("query", packet.Query))
	return nil
}

func GetCachedEvidencePacket(ctx context.Context, query string) (*model.EvidencePacket, error) {
	key := queryKey("evidence", query)
	packetJSON, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Evidence packet not found in cache", zap.String("query", query))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get evidence packet from cache: %w", err)
	}

	var packet model.EvidencePacket
	err = json.Unmarshal([]byte(packetJSON), &packet)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal evidence packet: %w", err)
	}

	logger.Debug("Evidence packet retrieved from cache", zap.String("query", query))
	return &packet, nil
}

func CacheExplanation(ctx context.Context, explanation *model.Explanation) error {
	explanationJSON, err := json.Marshal(explanation)
	if err != nil {
		return fmt.Errorf("failed to marshal explanation: %w", err)
	}

	key := queryKey("explanation", explanation.Query)
	defaultTTL := viper.GetDuration("redis.defaultCacheTTL")
	err = RedisClient.Set(ctx, key, explanationJSON, defaultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to cache explanation: %w", err)
	}

	logger.Debug("Explanation cached successfully", zap.String("query", explanation.Query))
	return nil
}

func GetCachedExplanation(ctx context.Context, query string) (*model.Explanation, error) {
	key := queryKey("explanation", query)
	explanationJSON, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		logger.Debug("Explanation not found in cache", zap.String("query", query))
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get explanation from cache: %w", err)
	}

	var explanation model.Explanation
	err = json.Unmarshal([]byte(explanationJSON), &explanation)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal explanation: %w", err)
	}

	logger.Debug("Explanation retrieved from cache", zap.String("query", query))
	return &explanation, nil
}

func InvalidateQueryCaches(ctx context.Context) error {
	for _, pattern := range []string{"evidence:*", "explanation:*"} {
		iter := RedisClient.Scan(ctx, 0, pattern, 0).Iterator()
		for iter.Next(ctx) {
			if err := RedisClient.Del(ctx, iter.Val()).Err(); err != nil {
				return fmt.Errorf("failed to invalidate cached query: %w", err)
			}
		}
		if err := iter.Err(); err != nil {
			return fmt.Errorf("failed to scan cached queries: %w", err)
		}
	}
	logger.Debug("Query caches invalidated")
	return nil
}

func RateLimit(ctx context.Context, key string, limit int, per time.Duration) (bool, error) {
	pipe := RedisClient.Pipeline()
	now := time.Now().UnixNano()
	key = fmt.Sprintf("ratelimit:%s", key)

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", now-(per.Nanoseconds())))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, per)

	cmds, err := pipe.Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to execute rate limit commands: %w", err)
	}

	count := cmds[2].(*redis.IntCmd).Val()
	allowed := count <= int64(limit)
	logger.Debug("Rate limit check",
		zap.String("key", key),
		zap.Int64("count", count),
		zap.Int("limit", limit),
		zap.Bool("allowed", allowed))
	return allowed, nil
}

func LockResource(ctx context.Context, resourceName string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:%s", resourceName)
	locked, err := RedisClient.SetNX(ctx, key, "locked", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	logger.Debug("Lock acquisition attempt",
		zap.String("resource", resourceName),
		zap.Bool("locked", locked))
	return locked, nil
}

func UnlockResource(ctx context.Context, resourceName string) error {
	key := fmt.Sprintf("lock:%s", resourceName)
	err := RedisClient.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	logger.Debug("Lock released", zap.String("resource", resourceName))
	return nil
}
