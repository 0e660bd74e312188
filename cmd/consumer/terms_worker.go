package main

import (
	"context"
	"encoding/json"

	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/events"
	"github.com/misha-kliuvak/safenotes-university-project-sub000/internal/services"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TermsWorker is the MFN propagation pass: after every create/sign touching a
// company it recomputes the company's max terms and refreshes the cache that
// MFN-flagged notes render from.
type TermsWorker struct {
	terms *services.TermsService
}

func NewTermsWorker(terms *services.TermsService) *TermsWorker {
	return &TermsWorker{terms: terms}
}

func (w *TermsWorker) HandleTermEvent(ctx context.Context, key, value []byte) error {
	var event events.TermEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}

	companyID, err := uuid.Parse(event.CompanyID)
	if err != nil {
		log.Warn().Str("companyId", event.CompanyID).Msg("invalid company id in term event")
		return nil
	}

	if err := w.terms.RefreshMaxTerms(ctx, companyID); err != nil {
		return err
	}

	log.Info().Str("companyId", event.CompanyID).Msg("refreshed max terms")
	return nil
}
