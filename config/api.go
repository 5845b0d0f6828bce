package config

// Remote catalog API paths. The widget consumes these read-only; the server
// owns the data.
const (
	PathProducts      = "/products"
	PathFiltered      = "/products/filtered"
	PathFilterOptions = "/products/filter-options"
	PathSearch        = "/search"
)
