package weaviate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// graphQLRequest is the outbound request body for POST /v1/graphql.
type graphQLRequest struct {
	Query string `json:"query"`
}

// RawResponse is the GraphQL envelope returned by the store.
type RawResponse struct {
	Data   *dataDTO       `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type dataDTO struct {
	Get map[string]json.RawMessage `json:"Get"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// chunkDTO mirrors one matched entity of the Documents class.
type chunkDTO struct {
	Filename   string        `json:"filename"`
	ChunkIndex int           `json:"chunk_index"`
	ChunkID    string        `json:"chunk_id"`
	Content    string        `json:"content"`
	Additional additionalDTO `json:"_additional"`
}

type additionalDTO struct {
	Certainty *float64     `json:"certainty"`
	Score     scoreValue   `json:"score"`
	Generate  *generateDTO `json:"generate"`
}

type generateDTO struct {
	SingleResult *string `json:"singleResult"`
	Error        *string `json:"error"`
}

// scoreValue tolerates both string and number encodings: the store
// returns scores as JSON strings for hybrid/keyword ranking and as
// numbers elsewhere.
type scoreValue float64

func (s *scoreValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = 0
		return nil
	}
	if data[0] == '"' {
		unquoted, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("unquote score: %w", err)
		}
		if unquoted == "" {
			*s = 0
			return nil
		}
		f, err := strconv.ParseFloat(unquoted, 64)
		if err != nil {
			return fmt.Errorf("parse score %q: %w", unquoted, err)
		}
		*s = scoreValue(f)
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("parse score %s: %w", data, err)
	}
	*s = scoreValue(f)
	return nil
}
