package log

const (
	KEY_APP_NAME       = "app"
	KEY_TAG            = "tag"
	KEY_PROCESS        = "process"
	KEY_CONFIG         = "config"
	KEY_REQUEST_ID     = "requestId"
	KEY_TRACE_ID       = "traceId"
	KEY_SPAN_ID        = "spanId"
	KEY_TOKEN          = "token"
	KEY_USER_ID        = "userId"
	KEY_GUEST_ID       = "guestId"
	KEY_OWNER          = "owner"
	KEY_PRODUCT_ID     = "productId"
	KEY_SIZE           = "size"
	KEY_COLOR          = "color"
	KEY_QUANTITY       = "quantity"
	KEY_CART           = "cart"
	KEY_CART_LINES     = "cartLines"
	KEY_TOTAL_PRICE    = "totalPrice"
	KEY_CACHE_KEY      = "cacheKey"
	KEY_REQUEST        = "request"
	KEY_REQUEST_BODY   = "requestBody"
	KEY_REQUEST_HEADER = "requestHeader"
	KEY_REQUEST_HOST   = "host"
	KEY_REQUEST_IP     = "requesterIP"
	KEY_REQUEST_METHOD = "requestMethod"
	KEY_REQUEST_URI    = "requestURI"
	KEY_REQUEST_URL    = "requestURL"
)
