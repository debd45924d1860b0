// Package client is the storefront side of product search: an HTTP client
// for the gateway's /store/search endpoint and a debounced search session
// that only ever applies the response of the latest request.
package client
