package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Envelope is the wrapper every backend response is expected to use.
type Envelope[T any] struct {
	Error  bool `json:"error"`
	Status int  `json:"status"`
	Body   T    `json:"body"`
}

// ListBody is a backend list payload. The backend sends either a bare array
// or an {items,total} object; both decode into the same value.
type ListBody[T any] struct {
	Items []T
	Total *int
}

func (b *ListBody[T]) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		b.Items, b.Total = nil, nil
		return nil
	}

	switch raw[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("list body: %w", err)
		}
		b.Items, b.Total = items, nil
		return nil
	case '{':
		var paged struct {
			Items []T  `json:"items"`
			Total *int `json:"total"`
		}
		if err := json.Unmarshal(raw, &paged); err != nil {
			return fmt.Errorf("list body: %w", err)
		}
		b.Items, b.Total = paged.Items, paged.Total
		return nil
	default:
		return fmt.Errorf("list body: %w", ErrUnexpectedShape)
	}
}

// OneOrMany is a singular backend payload that may arrive as an object or as
// an array; only the first element of an array is kept.
type OneOrMany[T any] struct {
	Value *T
}

func (o *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	o.Value = nil
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return fmt.Errorf("singular body: %w", err)
		}
		if len(items) > 0 {
			o.Value = &items[0]
		}
		return nil
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("singular body: %w", err)
	}
	o.Value = &v
	return nil
}

// Confirmation is the body of a create/update/delete response: a plain
// message, a bare id, or an object carrying an id.
type Confirmation struct {
	Message string `json:"message,omitempty"`
	ID      *int64 `json:"id,omitempty"`
}

func (c *Confirmation) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	*c = Confirmation{}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	switch raw[0] {
	case '"':
		return json.Unmarshal(raw, &c.Message)
	case '{':
		var obj struct {
			ID      json.Number `json:"id"`
			Message string      `json:"message"`
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&obj); err != nil {
			c.Message = string(raw)
			return nil
		}
		c.Message = obj.Message
		if id, err := obj.ID.Int64(); err == nil {
			c.ID = &id
		}
		if c.Message == "" {
			c.Message = string(raw)
		}
		return nil
	default:
		c.Message = string(raw)
		if id, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
			c.ID = &id
		}
		return nil
	}
}

func (c Confirmation) String() string {
	if c.Message != "" {
		return c.Message
	}
	if c.ID != nil {
		return strconv.FormatInt(*c.ID, 10)
	}
	return "OK"
}
