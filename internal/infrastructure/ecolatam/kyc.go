package ecolatam

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/ecolatam/gateway/internal/core/domain"
)

// KycClient reads and submits user KYC records.
type KycClient struct {
	backend  Backend
	validate *validator.Validate
}

func NewKycClient(backend Backend) *KycClient {
	return &KycClient{backend: backend, validate: validator.New()}
}

// GetByUserID returns the KYC record of a user; domain.ErrNotFound when the
// user has none yet.
func (c *KycClient) GetByUserID(ctx context.Context, userID int64) (*domain.UserKyc, error) {
	return getOne[domain.UserKyc](ctx, c.backend, "/ukyc/"+strconv.FormatInt(userID, 10))
}

func (c *KycClient) Submit(ctx context.Context, payload domain.KycSubmission) (domain.Confirmation, error) {
	if err := c.validate.Struct(payload); err != nil {
		return domain.Confirmation{}, fmt.Errorf("%w: %v", domain.ErrInvalidKyc, err)
	}
	return confirm(c.backend.Post(ctx, "/ukyc", payload))
}
