package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// CachedTerms is the cached MFN maximum for one issuing company.
type CachedTerms struct {
	DiscountRate *decimal.Decimal `json:"discountRate"`
	ValuationCap *decimal.Decimal `json:"valuationCap"`
}

// TermsCache keeps each company's current max terms in Redis so the
// read-time MFN computation does not hit the notes table on every render.
type TermsCache struct {
	client *redis.Client
}

func NewTermsCache(client *redis.Client) *TermsCache {
	return &TermsCache{client: client}
}

func (tc *TermsCache) key(companyID uuid.UUID) string {
	return fmt.Sprintf("company:%s:maxterms", companyID)
}

// Get returns the cached terms, or nil on a cache miss.
func (tc *TermsCache) Get(ctx context.Context, companyID uuid.UUID) (*CachedTerms, error) {
	if tc.client == nil {
		return nil, fmt.Errorf("redis client not initialized")
	}

	raw, err := tc.client.Get(ctx, tc.key(companyID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var terms CachedTerms
	if err := json.Unmarshal([]byte(raw), &terms); err != nil {
		return nil, err
	}
	return &terms, nil
}

// Store caches the terms with a 24h expiry.
func (tc *TermsCache) Store(ctx context.Context, companyID uuid.UUID, terms *CachedTerms) error {
	if tc.client == nil {
		return fmt.Errorf("redis client not initialized")
	}

	raw, err := json.Marshal(terms)
	if err != nil {
		return err
	}
	return tc.client.Set(ctx, tc.key(companyID), raw, 24*time.Hour).Err()
}

// Invalidate drops the cached terms for a company.
func (tc *TermsCache) Invalidate(ctx context.Context, companyID uuid.UUID) error {
	if tc.client == nil {
		return fmt.Errorf("redis client not initialized")
	}
	return tc.client.Del(ctx, tc.key(companyID)).Err()
}
