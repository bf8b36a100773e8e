package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/prasetyo/storefront/cart/internal/common/otel"
	inErrors "github.com/prasetyo/storefront/internal/errors"
	inHttp "github.com/prasetyo/storefront/internal/http"
	"github.com/prasetyo/storefront/internal/log"
)

// Product is the catalog snapshot a cart line is populated from.
type Product struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	ImageUrl string          `json:"image_url"`
}

// Catalog resolves a product identifier to its current name, price and
// representative image.
type Catalog interface {
	FindProductById(c context.Context, productId uuid.UUID) (Product, error)
}

type ProductServiceClient struct {
	baseUrl string
}

func NewProductServiceClient(baseUrl string) ProductServiceClient {
	return ProductServiceClient{baseUrl: baseUrl}
}

func (p ProductServiceClient) FindProductById(
	c context.Context,
	productId uuid.UUID,
) (Product, error) {
	c, span := otel.Tracer.Start(c, "ProductServiceClient FindProductById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KEY_TAG, "ProductServiceClient FindProductById").
		Str(log.KEY_PRODUCT_ID, productId.String()).
		Logger()

	logger = logger.With().Str(log.KEY_PROCESS, "finding product by id").Logger()
	logger.Info().Msgf("finding product by productId=%s", productId.String())
	req, err := http.NewRequestWithContext(
		c,
		http.MethodGet,
		p.baseUrl+"/"+productId.String(),
		nil,
	)
	if err != nil {
		err = fmt.Errorf("failed creating request for productId=%s with error=%w", productId.String(), err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Product{}, err
	}
	req.Header.Add(inHttp.KEY_HEADER_REQUEST_ID, log.RequestIDFromContext(c))

	resp, err := otelhttp.DefaultClient.Do(req)
	if err != nil {
		err = fmt.Errorf("failed getting productId=%s with error=%w", productId.String(), err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Product{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf(
			"productId=%s with error=%w",
			productId.String(),
			inErrors.ErrProductNotFound,
		)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Product{}, err
	}

	logger = logger.With().Str(log.KEY_PROCESS, "decoding product response").Logger()
	respBody := struct {
		Data struct {
			Product Product `json:"product"`
		} `json:"data"`
	}{}
	err = json.NewDecoder(resp.Body).Decode(&respBody)
	if err != nil {
		err = fmt.Errorf("failed decoding productId=%s with error=%w", productId.String(), err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Product{}, err
	}
	logger.Info().Msgf("found product by productId=%s", productId.String())

	return respBody.Data.Product, nil
}
