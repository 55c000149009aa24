package chi

import (
	"encoding/json"
	"time"

	"github.com/kailas-cloud/textdex/internal/domain/record"
)

// ErrorCode is a machine-readable error code in error responses.
type ErrorCode string

// Error codes returned by the API.
const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodeValidationFailed   ErrorCode = "validation_failed"
	CodeInvalidValueType   ErrorCode = "invalid_value_type"
	CodeAlreadyExists      ErrorCode = "string_already_exists"
	CodeNotFound           ErrorCode = "string_not_found"
	CodeRouteNotFound      ErrorCode = "not_found"
	CodeQueryNotUnderstood ErrorCode = "query_not_understood"
	CodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// CreateStringRequest is the create request body. Value is kept raw so that an
// absent field (400) can be told apart from a non-string one (422).
type CreateStringRequest struct {
	Value *json.RawMessage `json:"value"`
}

// PropertiesResponse mirrors analysis.Properties on the wire.
type PropertiesResponse struct {
	Length                int            `json:"length"`
	IsPalindrome          bool           `json:"is_palindrome"`
	UniqueCharacters      int            `json:"unique_characters"`
	WordCount             int            `json:"word_count"`
	SHA256Hash            string         `json:"sha256_hash"`
	CharacterFrequencyMap map[string]int `json:"character_frequency_map"`
}

// RecordResponse is the full record representation.
type RecordResponse struct {
	ID         string             `json:"id"`
	Value      string             `json:"value"`
	Properties PropertiesResponse `json:"properties"`
	CreatedAt  time.Time          `json:"created_at"`
}

// ListResponse is the structured-filter listing body.
type ListResponse struct {
	Data           []RecordResponse `json:"data"`
	Count          int              `json:"count"`
	FiltersApplied map[string]any   `json:"filters_applied"`
}

// InterpretedQuery echoes how a natural-language query was understood.
type InterpretedQuery struct {
	Original      string         `json:"original"`
	ParsedFilters map[string]any `json:"parsed_filters"`
}

// QueryResponse is the natural-language listing body.
type QueryResponse struct {
	Data             []RecordResponse `json:"data"`
	Count            int              `json:"count"`
	InterpretedQuery InterpretedQuery `json:"interpreted_query"`
}

// HealthResponse reports aggregated component health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}

func recordToResponse(rec *record.Record) RecordResponse {
	props := rec.Properties()
	return RecordResponse{
		ID:    rec.ID(),
		Value: rec.Value(),
		Properties: PropertiesResponse{
			Length:                props.Length,
			IsPalindrome:          props.IsPalindrome,
			UniqueCharacters:      props.UniqueCharacters,
			WordCount:             props.WordCount,
			SHA256Hash:            props.SHA256Hash,
			CharacterFrequencyMap: props.CharacterFrequency,
		},
		CreatedAt: rec.CreatedAt(),
	}
}

func recordsToResponse(records []record.Record) []RecordResponse {
	out := make([]RecordResponse, len(records))
	for i := range records {
		out[i] = recordToResponse(&records[i])
	}
	return out
}
