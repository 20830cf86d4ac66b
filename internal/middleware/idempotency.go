package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/NTAravind/Eustress/internal/response"
)

const (
	// IdempotencyKeyHeader is the header carrying the client's key
	IdempotencyKeyHeader = "X-Idempotency-Key"
	// ContextKeyIdempotencyKey is the gin context key for the key
	ContextKeyIdempotencyKey = "idempotency_key"

	idempotencyKeyPrefix = "idempotency:"
)

// Idempotency record statuses
const (
	statusProcessing = "processing"
	statusCompleted  = "completed"
)

// idempotencyRecord stores the state of one idempotent request
type idempotencyRecord struct {
	Key          string     `json:"key"`
	Status       string     `json:"status"`
	RequestHash  string     `json:"request_hash"`
	ResponseCode int        `json:"response_code"`
	ResponseBody string     `json:"response_body"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// IdempotencyStore is the Redis surface the middleware needs
type IdempotencyStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Store IdempotencyStore
	// TTL for completed records; retries inside this window replay the
	// stored response
	TTL time.Duration
	// ProcessingTTL bounds how long a crashed request can block its key
	ProcessingTTL time.Duration
}

// Idempotency makes checkout endpoints safe to retry. A client that
// resends the same X-Idempotency-Key gets the stored response instead of
// a second booking attempt.
func Idempotency(config *IdempotencyConfig) gin.HandlerFunc {
	if config.TTL == 0 {
		config.TTL = 5 * time.Minute
	}
	if config.ProcessingTTL == 0 {
		config.ProcessingTTL = 60 * time.Second
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			// The header is optional; without it the request runs plain
			c.Next()
			return
		}
		c.Set(ContextKeyIdempotencyKey, key)

		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}
		requestHash := hashRequest(c, bodyBytes)

		redisKey := idempotencyKeyPrefix + key
		ctx := c.Request.Context()

		existing, err := getRecord(ctx, config.Store, redisKey)
		if err != nil && !errors.Is(err, redis.Nil) {
			// Redis trouble fails open
			c.Next()
			return
		}

		if existing != nil {
			if existing.RequestHash != requestHash {
				response.Error(c, http.StatusUnprocessableEntity, "IDEMPOTENCY_KEY_REUSED",
					"Idempotency key already used with a different request", "")
				c.Abort()
				return
			}
			if existing.Status == statusProcessing {
				response.Error(c, http.StatusConflict, "REQUEST_IN_PROGRESS",
					"A request with this idempotency key is already being processed", "")
				c.Abort()
				return
			}
			c.Data(existing.ResponseCode, "application/json", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		record := &idempotencyRecord{
			Key:         key,
			Status:      statusProcessing,
			RequestHash: requestHash,
			CreatedAt:   time.Now(),
		}

		if !trySetRecord(ctx, config.Store, redisKey, record, config.ProcessingTTL) {
			// Lost the race to a concurrent retry
			if existing, _ = getRecord(ctx, config.Store, redisKey); existing != nil {
				if existing.Status == statusProcessing {
					response.Error(c, http.StatusConflict, "REQUEST_IN_PROGRESS",
						"A request with this idempotency key is already being processed", "")
					c.Abort()
					return
				}
				c.Data(existing.ResponseCode, "application/json", []byte(existing.ResponseBody))
				c.Abort()
				return
			}
		}

		rw := &captureWriter{ResponseWriter: c.Writer, body: bytes.NewBuffer(nil)}
		c.Writer = rw

		c.Next()

		now := time.Now()
		record.Status = statusCompleted
		record.ResponseCode = rw.Status()
		record.ResponseBody = rw.body.String()
		record.CompletedAt = &now

		if payload, err := json.Marshal(record); err == nil {
			config.Store.Set(ctx, redisKey, payload, config.TTL)
		}
	}
}

// GetIdempotencyKey extracts the idempotency key from the gin context
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	key, exists := c.Get(ContextKeyIdempotencyKey)
	if !exists {
		return "", false
	}
	k, ok := key.(string)
	return k, ok
}

func hashRequest(c *gin.Context, body []byte) string {
	h := sha256.New()
	h.Write([]byte(c.Request.Method))
	h.Write([]byte(c.Request.URL.Path))
	h.Write([]byte(c.GetString(ContextKeyUserID)))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func getRecord(ctx context.Context, store IdempotencyStore, key string) (*idempotencyRecord, error) {
	payload, err := store.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	record := &idempotencyRecord{}
	if err := json.Unmarshal([]byte(payload), record); err != nil {
		return nil, err
	}
	return record, nil
}

func trySetRecord(ctx context.Context, store IdempotencyStore, key string, record *idempotencyRecord, ttl time.Duration) bool {
	payload, err := json.Marshal(record)
	if err != nil {
		return false
	}
	ok, err := store.SetNX(ctx, key, payload, ttl).Result()
	return err == nil && ok
}

// captureWriter buffers the response body so it can be replayed
type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
