package constants

const (
	APP_MAIN_STOREFRONT = "storefront"
	APP_CART_SERVICE    = "cart-service"
	APP_PRODUCT_SERVICE = "product-service"
	APP_USER_SERVICE    = "user-service"
	AUDIENCE_USER       = "audience-user"
)
