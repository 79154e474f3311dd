package cinema

import (
	"bytes"
	"encoding/json"
)

// Page is the DRF pagination envelope
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// ListResponse is either a bare array or a Page. Exactly one of Array and
// Page is set after decoding a recognised shape; neither is set otherwise.
type ListResponse[T any] struct {
	Array []T
	Page  *Page[T]
}

// UnmarshalJSON decides the shape from the first significant byte
func (r *ListResponse[T]) UnmarshalJSON(data []byte) error {
	*r = ListResponse[T]{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		r.Array = items
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return err
		}
		if _, ok := fields["results"]; !ok {
			return nil
		}
		var page Page[T]
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return err
		}
		r.Page = &page
	}

	return nil
}

// Items normalizes the response to a plain slice, never nil
func (r *ListResponse[T]) Items() []T {
	switch {
	case r == nil:
		return []T{}
	case r.Array != nil:
		return r.Array
	case r.Page != nil && r.Page.Results != nil:
		return r.Page.Results
	default:
		return []T{}
	}
}

// NextURL returns the next page link, or "" when there is none
func (r *ListResponse[T]) NextURL() string {
	if r == nil || r.Page == nil || r.Page.Next == nil {
		return ""
	}
	return *r.Page.Next
}

// Total returns the envelope count, or the array length for bare arrays
func (r *ListResponse[T]) Total() int {
	if r != nil && r.Page != nil {
		return r.Page.Count
	}
	return len(r.Items())
}

// Normalize decodes a list body of either shape into a plain slice
func Normalize[T any](data []byte) ([]T, error) {
	var resp ListResponse[T]
	if err := resp.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return resp.Items(), nil
}
