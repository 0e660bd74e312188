package services

import (
	"context"

	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/apperrors"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/repositories"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/pkg/redisclient"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// MaxTerms is the best terms ever signed for a company, the terms every
// MFN-flagged note is entitled to at render time.
type MaxTerms struct {
	DiscountRate *decimal.Decimal `json:"discountRate"`
	ValuationCap *decimal.Decimal `json:"valuationCap"`
}

// TermsCache is the per-company max-terms cache, satisfied by
// redisclient.TermsCache.
type TermsCache interface {
	Get(ctx context.Context, companyID uuid.UUID) (*redisclient.CachedTerms, error)
	Store(ctx context.Context, companyID uuid.UUID, terms *redisclient.CachedTerms) error
	Invalidate(ctx context.Context, companyID uuid.UUID) error
}

// TermsService computes MFN max terms on demand. The TERMS_CHANGED worker
// calls RefreshMaxTerms after every create/sign so the cache stays warm.
type TermsService struct {
	notes repositories.SafeNoteRepository
	cache TermsCache
}

func NewTermsService(notes repositories.SafeNoteRepository, cache TermsCache) *TermsService {
	return &TermsService{notes: notes, cache: cache}
}

// GetMaxTerms returns the maximum discount rate among the company's SIGNED
// notes, and the valuation cap of the SIGNED note whose cap is greatest. The
// two come from independent scans: the discount is a standalone maximum, the
// cap belongs to the max-cap row.
func (s *TermsService) GetMaxTerms(ctx context.Context, companyID uuid.UUID) (*MaxTerms, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, companyID)
		if err != nil {
			log.Warn().Err(err).Str("companyId", companyID.String()).Msg("terms cache read failed")
		} else if cached != nil {
			return &MaxTerms{DiscountRate: cached.DiscountRate, ValuationCap: cached.ValuationCap}, nil
		}
	}

	terms, err := s.computeMaxTerms(companyID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		err := s.cache.Store(ctx, companyID, &redisclient.CachedTerms{
			DiscountRate: terms.DiscountRate,
			ValuationCap: terms.ValuationCap,
		})
		if err != nil {
			log.Warn().Err(err).Str("companyId", companyID.String()).Msg("terms cache write failed")
		}
	}
	return terms, nil
}

// RefreshMaxTerms recomputes and overwrites the cached terms for a company.
// The stale entry is dropped first, so a failed recompute leaves a cache miss
// rather than outdated maxima.
func (s *TermsService) RefreshMaxTerms(ctx context.Context, companyID uuid.UUID) error {
	if s.cache == nil {
		_, err := s.computeMaxTerms(companyID)
		return err
	}

	if err := s.cache.Invalidate(ctx, companyID); err != nil {
		log.Warn().Err(err).Str("companyId", companyID.String()).Msg("terms cache invalidation failed")
	}

	terms, err := s.computeMaxTerms(companyID)
	if err != nil {
		return err
	}
	return s.cache.Store(ctx, companyID, &redisclient.CachedTerms{
		DiscountRate: terms.DiscountRate,
		ValuationCap: terms.ValuationCap,
	})
}

func (s *TermsService) computeMaxTerms(companyID uuid.UUID) (*MaxTerms, error) {
	notes, err := s.notes.FindSignedByCompany(companyID)
	if err != nil {
		return nil, apperrors.Internal("failed to load signed notes", err)
	}

	terms := &MaxTerms{}
	for i := range notes {
		note := &notes[i]
		if note.DiscountRate != nil {
			if terms.DiscountRate == nil || note.DiscountRate.GreaterThan(*terms.DiscountRate) {
				terms.DiscountRate = note.DiscountRate
			}
		}
		if note.ValuationCap != nil {
			if terms.ValuationCap == nil || note.ValuationCap.GreaterThan(*terms.ValuationCap) {
				terms.ValuationCap = note.ValuationCap
			}
		}
	}
	return terms, nil
}
