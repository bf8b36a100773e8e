package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/prasetyo/storefront/cart/internal/client"
	"github.com/prasetyo/storefront/cart/internal/common/otel"
	"github.com/prasetyo/storefront/cart/internal/repository"
	"github.com/prasetyo/storefront/cart/pkg/cart"
	"github.com/prasetyo/storefront/cart/pkg/request"
	inErrors "github.com/prasetyo/storefront/internal/errors"
	"github.com/prasetyo/storefront/internal/log"
)

type CartService struct {
	store   repository.CartStore
	catalog client.Catalog
	locks   ownerLocks
}

func NewCartService(store repository.CartStore, catalog client.Catalog) *CartService {
	return &CartService{store: store, catalog: catalog}
}

// resolveOwner picks the owning identity for a request: a user id wins over
// a guest id, and neither resolves to no owner.
func resolveOwner(userId, guestId string) (cart.Owner, bool) {
	if userId != "" {
		return cart.UserOwner(userId), true
	}
	if guestId != "" {
		return cart.GuestOwner(guestId), true
	}
	return cart.Owner{}, false
}

func (s *CartService) AddItem(c context.Context, param request.AddItem) (*cart.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "CartService AddItem").
		Str(log.KEY_PRODUCT_ID, param.ProductId.String()).
		Str(log.KEY_SIZE, param.Size).
		Str(log.KEY_COLOR, param.Color).
		Int32(log.KEY_QUANTITY, param.Quantity).
		Logger()

	if param.Size == "" || param.Color == "" {
		err := fmt.Errorf("failed adding item with error=%w", inErrors.ErrInvalidSelection)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}

	logger = logger.With().Str(log.KEY_PROCESS, "finding product in catalog").Logger()
	logger.Info().Msg("finding product in catalog")
	c = logger.WithContext(c)
	product, err := s.catalog.FindProductById(c, param.ProductId)
	if err != nil {
		err = fmt.Errorf("failed finding product in catalog with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("found product in catalog")

	owner, ok := resolveOwner(param.UserId, param.GuestId)
	if !ok {
		owner = cart.GuestOwner(cart.NewGuestID())
		logger = logger.With().Str(log.KEY_GUEST_ID, owner.ID).Logger()
		logger.Info().Msgf("assigned new guestId=%s", owner.ID)
	}
	logger = logger.With().Any(log.KEY_OWNER, owner).Logger()

	unlock := s.locks.Lock(repository.StoreKey(owner))
	defer unlock()

	logger = logger.With().Str(log.KEY_PROCESS, "finding cart").Logger()
	logger.Info().Msg("finding cart")
	crt, err := s.store.Find(c, owner)
	if err != nil {
		if !errors.Is(err, inErrors.ErrCartNotFound) {
			err = fmt.Errorf("failed finding cart with error=%w", err)
			inErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		crt = cart.New(owner)
		logger.Info().Msg("no cart yet, created empty cart")
	} else {
		logger.Info().Msg("found cart")
	}

	logger = logger.With().Str(log.KEY_PROCESS, "adding line to cart").Logger()
	logger.Info().Msg("adding line to cart")
	crt.AddLine(cart.Line{
		ProductID: product.ID,
		Name:      product.Name,
		Image:     product.ImageUrl,
		UnitPrice: product.Price,
		Size:      param.Size,
		Color:     param.Color,
		Quantity:  param.Quantity,
	})
	logger = logger.With().
		Int(log.KEY_CART_LINES, len(crt.Lines)).
		Str(log.KEY_TOTAL_PRICE, crt.TotalPrice.String()).
		Logger()
	logger.Info().Msg("added line to cart")

	logger = logger.With().Str(log.KEY_PROCESS, "saving cart").Logger()
	logger.Info().Msg("saving cart")
	err = s.store.Save(c, crt)
	if err != nil {
		err = fmt.Errorf("failed saving cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("saved cart")

	return crt, nil
}

func (s *CartService) UpdateItem(c context.Context, param request.UpdateItem) (*cart.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService UpdateItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "CartService UpdateItem").
		Str(log.KEY_PRODUCT_ID, param.ProductId.String()).
		Str(log.KEY_SIZE, param.Size).
		Str(log.KEY_COLOR, param.Color).
		Int32(log.KEY_QUANTITY, param.Quantity).
		Logger()

	owner, ok := resolveOwner(param.UserId, param.GuestId)
	if !ok {
		err := fmt.Errorf("failed resolving owner with error=%w", inErrors.ErrCartNotFound)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger = logger.With().Any(log.KEY_OWNER, owner).Logger()

	unlock := s.locks.Lock(repository.StoreKey(owner))
	defer unlock()

	logger = logger.With().Str(log.KEY_PROCESS, "finding cart").Logger()
	logger.Info().Msg("finding cart")
	c = logger.WithContext(c)
	crt, err := s.store.Find(c, owner)
	if err != nil {
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("found cart")

	key := cart.LineKey{ProductID: param.ProductId, Size: param.Size, Color: param.Color}
	logger = logger.With().Str(log.KEY_PROCESS, "setting line quantity").Logger()
	logger.Info().Msg("setting line quantity")
	if ok := crt.SetLineQuantity(key, param.Quantity); !ok {
		err = fmt.Errorf("failed setting line quantity with error=%w", inErrors.ErrLineNotFound)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger = logger.With().
		Int(log.KEY_CART_LINES, len(crt.Lines)).
		Str(log.KEY_TOTAL_PRICE, crt.TotalPrice.String()).
		Logger()
	logger.Info().Msg("set line quantity")

	logger = logger.With().Str(log.KEY_PROCESS, "saving cart").Logger()
	logger.Info().Msg("saving cart")
	err = s.store.Save(c, crt)
	if err != nil {
		err = fmt.Errorf("failed saving cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("saved cart")

	return crt, nil
}

func (s *CartService) RemoveItem(c context.Context, param request.RemoveItem) (*cart.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "CartService RemoveItem").
		Str(log.KEY_PRODUCT_ID, param.ProductId.String()).
		Str(log.KEY_SIZE, param.Size).
		Str(log.KEY_COLOR, param.Color).
		Logger()

	owner, ok := resolveOwner(param.UserId, param.GuestId)
	if !ok {
		err := fmt.Errorf("failed resolving owner with error=%w", inErrors.ErrCartNotFound)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger = logger.With().Any(log.KEY_OWNER, owner).Logger()

	unlock := s.locks.Lock(repository.StoreKey(owner))
	defer unlock()

	logger = logger.With().Str(log.KEY_PROCESS, "finding cart").Logger()
	logger.Info().Msg("finding cart")
	c = logger.WithContext(c)
	crt, err := s.store.Find(c, owner)
	if err != nil {
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("found cart")

	key := cart.LineKey{ProductID: param.ProductId, Size: param.Size, Color: param.Color}
	logger = logger.With().Str(log.KEY_PROCESS, "removing line from cart").Logger()
	logger.Info().Msg("removing line from cart")
	if removed := crt.RemoveLine(key); !removed {
		// removing an absent line is not an error, the cart stays as is
		logger.Info().Msg("line not in cart, nothing removed")
	} else {
		logger.Info().Msg("removed line from cart")
	}

	logger = logger.With().Str(log.KEY_PROCESS, "saving cart").Logger()
	logger.Info().Msg("saving cart")
	err = s.store.Save(c, crt)
	if err != nil {
		err = fmt.Errorf("failed saving cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("saved cart")

	return crt, nil
}

func (s *CartService) FindCart(c context.Context, param request.FindCart) (*cart.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService FindCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "CartService FindCart").
		Logger()

	owner, ok := resolveOwner(param.UserId, param.GuestId)
	if !ok {
		logger.Info().Msg("no owner supplied, returning empty cart")
		return cart.New(cart.Owner{}), nil
	}
	logger = logger.With().Any(log.KEY_OWNER, owner).Logger()

	logger = logger.With().Str(log.KEY_PROCESS, "finding cart").Logger()
	logger.Info().Msg("finding cart")
	c = logger.WithContext(c)
	crt, err := s.store.Find(c, owner)
	if err != nil {
		if errors.Is(err, inErrors.ErrCartNotFound) {
			logger.Info().Msg("no cart yet, returning empty cart")
			return cart.New(owner), nil
		}
		err = fmt.Errorf("failed finding cart with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("found cart")

	return crt, nil
}
