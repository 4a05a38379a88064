package screening

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"

	"github.com/tkohno/guardian/internal/contracts"
	"github.com/tkohno/guardian/pkg/logger"
)

// Screener drives the full fundamentals pipeline over one sector:
// listing -> disclosures -> derived metrics -> rank -> price -> commentary.
// Strictly sequential, one company at a time, in listing order.
type Screener struct {
	directory   contracts.ListingDirectory
	store       contracts.DisclosureStore
	prices      contracts.PriceLookup
	deriver     *Deriver
	classifier  *Classifier
	commentator *Commentator
	logger      *logger.Logger
}

// NewScreener creates a new sector screener.
func NewScreener(
	directory contracts.ListingDirectory,
	store contracts.DisclosureStore,
	prices contracts.PriceLookup,
	deriver *Deriver,
	classifier *Classifier,
	commentator *Commentator,
	log *logger.Logger,
) *Screener {
	return &Screener{
		directory:   directory,
		store:       store,
		prices:      prices,
		deriver:     deriver,
		classifier:  classifier,
		commentator: commentator,
		logger:      log,
	}
}

// Screen runs one screening pass over the sector, truncated to at most limit
// companies, and returns the qualifying results in listing order.
//
// An invalid session refuses to start (ErrInvalidSession). Everything else
// degrades per company: collaborator failures and non-evaluable companies are
// skipped silently, a failed price lookup leaves price/PER nil on an
// otherwise valid result. Zero results is a normal completed pass.
//
// progress may be nil. Cancellation is honored between companies only, so a
// partial pass never contains a half-evaluated company; the results
// accumulated so far are returned alongside ctx.Err().
func (s *Screener) Screen(
	ctx context.Context,
	sector string,
	limit int,
	session contracts.Session,
	progress contracts.ProgressSink,
) ([]contracts.ScreeningResult, error) {
	if session == nil || !session.Valid() {
		return nil, contracts.ErrInvalidSession
	}

	runID := uuid.NewString()[:8]
	log := s.logger.WithFields(map[string]interface{}{
		"run_id": runID,
		"sector": sector,
	})

	codes, err := s.directory.CodesInSector(ctx, sector)
	if err != nil {
		// ExternalUnavailable collapses to an empty listing
		log.WithError(err).Warn("Sector listing unavailable")
		codes = nil
	}
	if limit > 0 && len(codes) > limit {
		codes = codes[:limit]
	}

	results := make([]contracts.ScreeningResult, 0)
	skipped := make(map[string]int) // Skip reason -> count

	for i, code := range codes {
		select {
		case <-ctx.Done():
			log.WithField("processed", i).Warn("Screening cancelled")
			return results, ctx.Err()
		default:
		}

		if progress != nil {
			progress.Report(float64(i+1)/float64(len(codes)), code)
		}

		result, reason := s.evaluate(ctx, code, session)
		if reason != "" {
			skipped[reason]++
			log.WithFields(map[string]interface{}{
				"code":   code,
				"reason": reason,
			}).Debug("Company skipped")
			continue
		}

		results = append(results, *result)
	}

	log.WithFields(map[string]interface{}{
		"total_input": len(codes),
		"qualified":   len(results),
		"skipped":     skipped,
	}).Info("Screening completed")

	return results, nil
}

// evaluate runs the per-company pipeline. Returns a result, or an empty
// result and the skip reason.
func (s *Screener) evaluate(ctx context.Context, code string, session contracts.Session) (*contracts.ScreeningResult, string) {
	disclosures, err := s.store.FetchStatements(ctx, code, session)
	if err != nil {
		return nil, "fetch_failed"
	}

	if len(disclosures) < 2 {
		return nil, "history"
	}

	// Oldest first; the last two entries are (prior, current). Stable so
	// same-day revised filings keep their upstream order.
	sort.SliceStable(disclosures, func(i, j int) bool {
		return disclosures[i].DisclosedDate.Before(disclosures[j].DisclosedDate)
	})
	prior := disclosures[len(disclosures)-2]
	current := disclosures[len(disclosures)-1]

	metrics, err := s.deriver.Derive(prior, current)
	if err != nil {
		if errors.Is(err, contracts.ErrNotEvaluable) {
			return nil, "guard"
		}
		return nil, "derive_failed"
	}

	rank := s.classifier.Classify(metrics)
	if !rank.Qualifies() {
		return nil, "rank_b"
	}

	// Best effort: a failed lookup keeps the result with unknown price/PER
	price, per, err := s.prices.Current(ctx, code)
	if err != nil {
		price, per = nil, nil
	}

	return &contracts.ScreeningResult{
		Code:       code,
		Rank:       rank,
		Metrics:    metrics,
		Price:      price,
		PER:        per,
		Commentary: s.commentator.Render(rank, metrics, per),
	}, ""
}
