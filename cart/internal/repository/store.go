package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/prasetyo/storefront/cart/internal/common/otel"
	"github.com/prasetyo/storefront/cart/pkg/cart"
	inErrors "github.com/prasetyo/storefront/internal/errors"
	"github.com/prasetyo/storefront/internal/log"
)

const (
	KEY_USER_CART  = "carts:user:%s"
	KEY_GUEST_CART = "carts:guest:%s"
)

// CartStore is the document store holding at most one cart per owning
// identity. Find returns inErrors.ErrCartNotFound when no document exists.
type CartStore interface {
	Find(c context.Context, owner cart.Owner) (*cart.Cart, error)
	Save(c context.Context, crt *cart.Cart) error
	Delete(c context.Context, owner cart.Owner) error
}

func StoreKey(owner cart.Owner) string {
	if owner.Kind == cart.OwnerKindGuest {
		return fmt.Sprintf(KEY_GUEST_CART, owner.ID)
	}
	return fmt.Sprintf(KEY_USER_CART, owner.ID)
}

// RedisCartStore persists each cart aggregate as one JSON document keyed by
// its owning identity.
type RedisCartStore struct {
	cache *redis.Client
}

func NewRedisCartStore(cache *redis.Client) RedisCartStore {
	return RedisCartStore{cache: cache}
}

func (s RedisCartStore) Find(c context.Context, owner cart.Owner) (*cart.Cart, error) {
	c, span := otel.Tracer.Start(c, "RedisCartStore Find")
	defer span.End()

	storeKey := StoreKey(owner)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "RedisCartStore Find").
		Str(log.KEY_CACHE_KEY, storeKey).
		Logger()

	jsonCart, err := s.cache.JSONGet(c, storeKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, inErrors.ErrCartNotFound
		}
		err = fmt.Errorf("failed finding cart by key=%s with error=%w", storeKey, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	if jsonCart == "" {
		return nil, inErrors.ErrCartNotFound
	}

	crt := cart.Cart{}
	err = json.Unmarshal([]byte(jsonCart), &crt)
	if err != nil {
		err = fmt.Errorf("failed unmarshaling cart by key=%s with error=%w", storeKey, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	return &crt, nil
}

func (s RedisCartStore) Save(c context.Context, crt *cart.Cart) error {
	c, span := otel.Tracer.Start(c, "RedisCartStore Save")
	defer span.End()

	storeKey := StoreKey(crt.Owner)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "RedisCartStore Save").
		Str(log.KEY_CACHE_KEY, storeKey).
		Logger()

	err := s.cache.JSONSet(c, storeKey, "$", crt).Err()
	if err != nil {
		err = fmt.Errorf("failed saving cart by key=%s with error=%w", storeKey, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	return nil
}

func (s RedisCartStore) Delete(c context.Context, owner cart.Owner) error {
	c, span := otel.Tracer.Start(c, "RedisCartStore Delete")
	defer span.End()

	storeKey := StoreKey(owner)

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "RedisCartStore Delete").
		Str(log.KEY_CACHE_KEY, storeKey).
		Logger()

	err := s.cache.Del(c, storeKey).Err()
	if err != nil {
		err = fmt.Errorf("failed deleting cart by key=%s with error=%w", storeKey, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	return nil
}
