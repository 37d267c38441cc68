package apierror

// Problem type URIs, urn:foodmood:error:*
const (
	TypeValidation       = "urn:foodmood:error:validation"
	TypeNotFound         = "urn:foodmood:error:not_found"
	TypeRateLimit        = "urn:foodmood:error:rate_limit"
	TypeUnauthorized     = "urn:foodmood:error:unauthorized"
	TypeInternal         = "urn:foodmood:error:internal"
	TypeInvalidUUID      = "urn:foodmood:error:invalid_uuid"
	TypeBadRequest       = "urn:foodmood:error:bad_request"
	TypeStoreUnavailable = "urn:foodmood:error:store_unavailable"
)

const (
	TitleValidation         = "Validation Error"
	TitleNotFound           = "Resource Not Found"
	TitleRateLimit          = "Rate Limit Exceeded"
	TitleUnauthorized       = "Authentication Required"
	TitleInternal           = "Internal Server Error"
	TitleInvalidUUID        = "Invalid UUID Format"
	TitleBadRequest         = "Bad Request"
	TitleServiceUnavailable = "Service Unavailable"
)
