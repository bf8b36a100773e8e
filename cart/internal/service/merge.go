package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prasetyo/storefront/cart/internal/common/otel"
	"github.com/prasetyo/storefront/cart/internal/repository"
	"github.com/prasetyo/storefront/cart/pkg/cart"
	inErrors "github.com/prasetyo/storefront/internal/errors"
	"github.com/prasetyo/storefront/internal/log"
)

// MergeCarts folds the guest cart into the user's cart when the guest
// authenticates. The guest cart record is gone afterwards, so a second merge
// with the same guestId fails with ErrGuestCartNotFound.
func (s *CartService) MergeCarts(
	c context.Context,
	guestId string,
	userId uuid.UUID,
) (*cart.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService MergeCarts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "CartService MergeCarts").
		Str(log.KEY_GUEST_ID, guestId).
		Str(log.KEY_USER_ID, userId.String()).
		Logger()

	guestOwner := cart.GuestOwner(guestId)
	userOwner := cart.UserOwner(userId.String())

	// merge is the only operation holding two owner locks; the fixed
	// guest-then-user order keeps concurrent merges deadlock free
	unlockGuest := s.locks.Lock(repository.StoreKey(guestOwner))
	defer unlockGuest()
	unlockUser := s.locks.Lock(repository.StoreKey(userOwner))
	defer unlockUser()

	logger = logger.With().Str(log.KEY_PROCESS, "finding guest cart").Logger()
	logger.Info().Msg("finding guest cart")
	c = logger.WithContext(c)
	guestCart, err := s.store.Find(c, guestOwner)
	if err != nil {
		if errors.Is(err, inErrors.ErrCartNotFound) {
			err = fmt.Errorf(
				"failed finding guest cart with error=%w",
				inErrors.ErrGuestCartNotFound,
			)
		} else {
			err = fmt.Errorf("failed finding guest cart with error=%w", err)
		}
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("found guest cart")

	logger = logger.With().Str(log.KEY_PROCESS, "finding user cart").Logger()
	logger.Info().Msg("finding user cart")
	userCart, err := s.store.Find(c, userOwner)
	if err != nil && !errors.Is(err, inErrors.ErrCartNotFound) {
		err = fmt.Errorf("failed finding user cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	if userCart == nil {
		logger = logger.With().Str(log.KEY_PROCESS, "promoting guest cart").Logger()
		logger.Info().Msg("no user cart, promoting guest cart in place")
		guestCart.Promote(userId.String())
		err = s.store.Save(c, guestCart)
		if err != nil {
			err = fmt.Errorf("failed saving promoted cart with error=%w", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		err = s.store.Delete(c, guestOwner)
		if err != nil {
			err = fmt.Errorf("failed deleting guest cart with error=%w", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		logger.Info().Msg("promoted guest cart")
		return guestCart, nil
	}
	logger.Info().Msg("found user cart")

	logger = logger.With().Str(log.KEY_PROCESS, "merging guest cart into user cart").Logger()
	logger.Info().Msg("merging guest cart into user cart")
	userCart.MergeFrom(guestCart)
	logger = logger.With().
		Int(log.KEY_CART_LINES, len(userCart.Lines)).
		Str(log.KEY_TOTAL_PRICE, userCart.TotalPrice.String()).
		Logger()
	logger.Info().Msg("merged guest cart into user cart")

	logger = logger.With().Str(log.KEY_PROCESS, "saving user cart").Logger()
	logger.Info().Msg("saving user cart")
	err = s.store.Save(c, userCart)
	if err != nil {
		err = fmt.Errorf("failed saving user cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("saved user cart")

	logger = logger.With().Str(log.KEY_PROCESS, "deleting guest cart").Logger()
	logger.Info().Msg("deleting guest cart")
	err = s.store.Delete(c, guestOwner)
	if err != nil {
		err = fmt.Errorf("failed deleting guest cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("deleted guest cart")

	return userCart, nil
}
