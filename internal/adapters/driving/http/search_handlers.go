package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
)

const maxSearchBodyBytes = 64 << 10

// SearchErrorResponse is returned when a search could not be served
// @Description Search failure
type SearchErrorResponse struct {
	Error   string `json:"error" example:"Internal server error during search"`
	Message string `json:"message" example:"search \"mouse\" failed: fallback search: connection refused"`
}

// InvalidQueryResponse is returned when q is missing or not a string
// @Description Invalid search query
type InvalidQueryResponse struct {
	Error         string `json:"error" example:"Query parameter 'q' is required and must be a string"`
	ReceivedQuery any    `json:"receivedQuery,omitempty"`
	QueryType     string `json:"queryType,omitempty" example:"undefined"`
}

// InvalidBodyResponse is returned when the POST body cannot be decoded
// @Description Undecodable search body
type InvalidBodyResponse struct {
	Error        string `json:"error" example:"Invalid JSON in request body"`
	Message      string `json:"message"`
	ReceivedType string `json:"receivedType" example:"string"`
	ReceivedBody string `json:"receivedBody"`
}

// SearchBody is the POST /store/search payload. limit and offset may be
// numbers or numeric strings.
type SearchBody struct {
	Q      string `json:"q" example:"mouse"`
	Limit  any    `json:"limit,omitempty" swaggertype:"integer" example:"20"`
	Offset any    `json:"offset,omitempty" swaggertype:"integer" example:"0"`
}

// handleSearchGet godoc
// @Summary      Search products
// @Description  Full-text product search. Blank queries return an empty result.
// @Tags         Store
// @Produce      json
// @Param        q       query     string  true   "Search text"
// @Param        limit   query     int     false  "Page size (1-100, default 20)"
// @Param        offset  query     int     false  "Offset (default 0)"
// @Success      200     {object}  domain.SearchResult
// @Failure      400     {object}  InvalidQueryResponse
// @Failure      500     {object}  SearchErrorResponse
// @Router       /store/search [get]
func (s *Server) handleSearchGet(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := params.Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, InvalidQueryResponse{Error: errorMessage(domain.ErrInvalidRequest)})
		return
	}

	s.search(w, r, domain.NormalizeSearchRequest(query, params.Get("limit"), params.Get("offset")))
}

// handleSearchPost godoc
// @Summary      Search products (JSON body)
// @Description  Same as GET /store/search; tolerates a double-encoded JSON string body.
// @Tags         Store
// @Accept       json
// @Produce      json
// @Param        request  body      SearchBody  true  "Search parameters"
// @Success      200      {object}  domain.SearchResult
// @Failure      400      {object}  InvalidQueryResponse
// @Failure      500      {object}  SearchErrorResponse
// @Router       /store/search [post]
func (s *Server) handleSearchPost(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxSearchBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	body, err := decodeSearchBody(raw)
	if err != nil {
		s.logger.Warn("undecodable search body", "error", err)
		writeJSON(w, http.StatusBadRequest, InvalidBodyResponse{
			Error:        "Invalid JSON in request body",
			Message:      err.Error(),
			ReceivedType: bodyType(raw),
			ReceivedBody: string(raw),
		})
		return
	}

	query, ok := body["q"].(string)
	if !ok || query == "" {
		writeJSON(w, http.StatusBadRequest, InvalidQueryResponse{
			Error:         errorMessage(domain.ErrInvalidRequest),
			ReceivedQuery: body["q"],
			QueryType:     jsTypeOf(body["q"]),
		})
		return
	}

	s.search(w, r, domain.NormalizeSearchRequest(query, body["limit"], body["offset"]))
}

func (s *Server) search(w http.ResponseWriter, r *http.Request, req domain.SearchRequest) {
	result, err := s.searchService.Search(r.Context(), req)
	if err != nil {
		s.logger.Error("search error", "query", req.Query, "error", err)
		writeJSON(w, http.StatusInternalServerError, SearchErrorResponse{
			Error:   "Internal server error during search",
			Message: err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// decodeSearchBody accepts a JSON object, a JSON string holding an
// object, or a double-encoded object whose quotes arrive escaped.
func decodeSearchBody(raw []byte) (map[string]any, error) {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		// not JSON at all; treat the bytes as the encoded string itself
		decoded = string(raw)
	}

	switch v := decoded.(type) {
	case map[string]any:
		return v, nil
	case string:
		return decodeEncodedBody(v)
	default:
		return nil, errors.New("request body is neither string nor object")
	}
}

func decodeEncodedBody(s string) (map[string]any, error) {
	var body map[string]any
	if err := json.Unmarshal([]byte(s), &body); err == nil && body != nil {
		return body, nil
	}

	unescaped := strings.ReplaceAll(s, `\"`, `"`)
	if len(unescaped) < 2 {
		return nil, fmt.Errorf("cannot decode body %q", s)
	}
	unescaped = unescaped[1 : len(unescaped)-1]
	if err := json.Unmarshal([]byte(unescaped), &body); err != nil {
		return nil, fmt.Errorf("decode double-encoded body: %w", err)
	}
	if body == nil {
		return nil, errors.New("request body is neither string nor object")
	}
	return body, nil
}

// jsTypeOf names a decoded JSON value the way storefront clients report types
func jsTypeOf(v any) string {
	switch v.(type) {
	case nil:
		return "undefined"
	case string:
		return "string"
	case float64, json.Number:
		return "number"
	case bool:
		return "boolean"
	default:
		return "object"
	}
}

func bodyType(raw []byte) string {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "string"
	}
	return jsTypeOf(decoded)
}

// errorMessage capitalizes a sentinel error for API responses
func errorMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
