// Package ecolatam holds the typed clients of the Ecolatam backend API. Each
// client turns a raw backend answer into a UI model: list bodies are
// normalized into domain.Page, singular bodies accept an object or a
// one-element array, and mutation answers become a domain.Confirmation.
package ecolatam

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/ecolatam/gateway/internal/core/domain"
	"github.com/ecolatam/gateway/internal/core/ports"
	"github.com/ecolatam/gateway/internal/infrastructure/restclient"
)

// Backend is the subset of *restclient.Client the API clients use.
type Backend interface {
	Get(ctx context.Context, path string, params restclient.Params) (*restclient.Response, error)
	Post(ctx context.Context, path string, body any) (*restclient.Response, error)
	Put(ctx context.Context, path string, body any) (*restclient.Response, error)
	Delete(ctx context.Context, path string, body any) (*restclient.Response, error)
}

func decodeEnvelope[T any](resp *restclient.Response) (domain.Envelope[T], error) {
	var env domain.Envelope[T]
	if err := resp.Decode(&env); err != nil {
		return env, fmt.Errorf("%w: %v", domain.ErrUnexpectedShape, err)
	}
	return env, nil
}

// getList fetches path and decodes the envelope body as a list.
func getList[D any](ctx context.Context, b Backend, path string, params restclient.Params) (domain.ListBody[D], error) {
	resp, err := b.Get(ctx, path, params)
	if err != nil {
		return domain.ListBody[D]{}, err
	}
	env, err := decodeEnvelope[domain.ListBody[D]](resp)
	if err != nil {
		return domain.ListBody[D]{}, err
	}
	return env.Body, nil
}

// getOne fetches path and keeps the single row of the body, object or array.
func getOne[D any](ctx context.Context, b Backend, path string) (*D, error) {
	resp, err := b.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	env, err := decodeEnvelope[domain.OneOrMany[D]](resp)
	if err != nil {
		return nil, err
	}
	if env.Body.Value == nil {
		return nil, fmt.Errorf("GET %s: %w", path, domain.ErrNotFound)
	}
	return env.Body.Value, nil
}

func confirm(resp *restclient.Response, err error) (domain.Confirmation, error) {
	if err != nil {
		return domain.Confirmation{}, err
	}
	env, err := decodeEnvelope[domain.Confirmation](resp)
	if err != nil {
		return domain.Confirmation{}, err
	}
	return env.Body, nil
}

// unwrapBody returns the "body" member of an enveloped answer, or the whole
// answer when it is not enveloped.
func unwrapBody(raw []byte) gjson.Result {
	root := gjson.ParseBytes(raw)
	if body := root.Get("body"); body.Exists() && body.Type != gjson.Null {
		return body
	}
	return root
}

// rowsOf locates the row array of a list answer: a bare array, or an
// "items" array, looked up inside the envelope first. Anything else has no
// rows.
func rowsOf(raw []byte) gjson.Result {
	body := unwrapBody(raw)
	if body.IsArray() {
		return body
	}
	if items := body.Get("items"); items.IsArray() {
		return items
	}
	return gjson.Result{}
}

// decodeRows unmarshals every row of a list answer into T.
func decodeRows[T any](raw []byte) ([]T, error) {
	out := []T{}
	var err error
	rowsOf(raw).ForEach(func(_, row gjson.Result) bool {
		var v T
		if err = json.Unmarshal([]byte(row.Raw), &v); err != nil {
			err = fmt.Errorf("%w: %v", domain.ErrUnexpectedShape, err)
			return false
		}
		out = append(out, v)
		return true
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// actorID is the session user id used for attribution, nil when unknown.
func actorID(ctx context.Context, sessions ports.SessionLocator) *int64 {
	if sessions == nil {
		return nil
	}
	sess := sessions(ctx)
	if sess == nil {
		return nil
	}
	id, ok := sess.UserID(ctx)
	if !ok {
		return nil
	}
	return &id
}
