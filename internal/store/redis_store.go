package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"transportsystem/avganger/internal/constants"
	"transportsystem/avganger/internal/logging"
	"transportsystem/avganger/internal/models/entities"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the collection as one JSON value and publishes the same
// JSON on a channel after every write, so every process sees every write.
type RedisStore struct {
	client  *redis.Client
	key     string
	channel string
}

var _ RemoteStore = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, key, channel string) *RedisStore {
	return &RedisStore{
		client:  client,
		key:     key,
		channel: channel,
	}
}

func (s *RedisStore) Subscribe(ctx context.Context, onSnapshot SnapshotFunc) (Subscription, error) {
	pubsub := s.client.Subscribe(ctx, s.channel)

	// Wait for the subscription to be confirmed so no write after the
	// initial read can be missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", s.channel, err)
	}

	records, err := s.load(ctx)
	if err != nil {
		_ = pubsub.Close()
		return nil, err
	}
	onSnapshot(records)

	done := make(chan struct{})
	messages := pubsub.Channel()
	go func() {
		for {
			select {
			case <-done:
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				snapshot, err := decodeSnapshot([]byte(msg.Payload))
				if err != nil {
					logging.WithComponent("redis_store").Warnw("Dropping malformed departures snapshot", "channel", s.channel, "error", err.Error())
					continue
				}
				onSnapshot(snapshot)
			}
		}
	}()

	var once sync.Once
	return closeFunc(func() error {
		var closeErr error
		once.Do(func() {
			close(done)
			closeErr = pubsub.Close()
		})
		return closeErr
	}), nil
}

// ReplaceAll stores and broadcasts the snapshot inside one MULTI/EXEC, so
// concurrent writers cannot leave the key holding one value while
// subscribers were sent another.
func (s *RedisStore) ReplaceAll(ctx context.Context, records []entities.Departure) error {
	data, err := json.Marshal(cloneRecords(records))
	if err != nil {
		return fmt.Errorf("encode departures: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key, data, 0)
		pipe.Publish(ctx, s.channel, data)
		return nil
	})
	if err != nil {
		return fmt.Errorf("write departures to redis: %w", err)
	}
	return nil
}

func (s *RedisStore) load(ctx context.Context) ([]entities.Departure, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []entities.Departure{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read departures from redis: %w", err)
	}
	return decodeSnapshot(data)
}

func decodeSnapshot(data []byte) ([]entities.Departure, error) {
	var records []entities.Departure
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode departures: %w", err)
	}
	return cloneRecords(records), nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Name() string { return string(constants.StoreBackendRedis) }

func (s *RedisStore) Close() error {
	return s.client.Close()
}
