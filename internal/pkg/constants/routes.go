package constants

// Static route constants
const (
	PublicRoute  = "/"
	MetricsRoute = "/metrics"
	FaviconRoute = "/favicon.ico"
	DocsAPIRoute = "/docs/api/"
)

// Serving paths relative to the project root
const (
	ViewsPath       = "views"
	AssetsPath      = "public/assets"
	FaviconPath     = "public/assets/icons/favicon.ico"
	OpenAPISpecPath = "public/docs/v1/openapi.yml"
)
