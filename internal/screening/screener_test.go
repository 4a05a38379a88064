package screening

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tkohno/guardian/internal/contracts"
	"github.com/tkohno/guardian/pkg/logger"
)

type fakeSession struct{ valid bool }

func (s fakeSession) Valid() bool { return s.valid }

type fakeDirectory struct {
	codes []string
	err   error
}

func (d *fakeDirectory) CodesInSector(ctx context.Context, sector string) ([]string, error) {
	return d.codes, d.err
}

type fakeStore struct {
	statements map[string][]contracts.Disclosure
	errs       map[string]error
}

func (s *fakeStore) FetchStatements(ctx context.Context, code string, _ contracts.Session) ([]contracts.Disclosure, error) {
	if err, ok := s.errs[code]; ok {
		return nil, err
	}
	return s.statements[code], nil
}

type fakePrices struct {
	price *float64
	per   *float64
	err   error
	calls []string
}

func (p *fakePrices) Current(ctx context.Context, code string) (*float64, *float64, error) {
	p.calls = append(p.calls, code)
	return p.price, p.per, p.err
}

type progressRecorder struct {
	fractions []float64
	labels    []string
}

func (r *progressRecorder) Report(fraction float64, code string) {
	r.fractions = append(r.fractions, fraction)
	r.labels = append(r.labels, code)
}

// pair builds a (prior, current) disclosure history producing the given
// growth and margin, deliberately returned newest-first to exercise sorting.
func pair(priorOP, currentOP, sales float64) []contracts.Disclosure {
	return []contracts.Disclosure{
		{
			DisclosedDate:   time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
			OperatingProfit: currentOP,
			NetSales:        sales,
			NetIncome:       40,
			TotalAssets:     1000,
			NetAssets:       500,
		},
		{
			DisclosedDate:   time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
			OperatingProfit: priorOP,
			NetSales:        sales,
		},
	}
}

func newTestScreener(dir *fakeDirectory, store *fakeStore, prices *fakePrices) *Screener {
	return NewScreener(
		dir,
		store,
		prices,
		NewDeriver(DefaultDeriverConfig()),
		NewClassifier(DefaultClassifierConfig()),
		NewCommentator(DefaultCommentaryConfig()),
		logger.NewWriter(io.Discard),
	)
}

func TestScreenSameDayRevisionDeterministic(t *testing.T) {
	sameDay := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	history := []contracts.Disclosure{
		// Original same-day filing, superseded by the revision below
		{DisclosedDate: sameDay, OperatingProfit: 105, NetSales: 1000, NetIncome: 40, TotalAssets: 1000, NetAssets: 500},
		{DisclosedDate: time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), OperatingProfit: 100, NetSales: 1000},
		{DisclosedDate: sameDay, OperatingProfit: 130, NetSales: 1000, NetIncome: 40, TotalAssets: 1000, NetAssets: 500},
	}

	dir := &fakeDirectory{codes: []string{"7203"}}
	store := &fakeStore{statements: map[string][]contracts.Disclosure{"7203": history}}
	s := newTestScreener(dir, store, &fakePrices{})

	for i := 0; i < 10; i++ {
		results, err := s.Screen(context.Background(), "情報･通信業", 30, fakeSession{valid: true}, nil)
		require.NoError(t, err)
		require.Len(t, results, 1)
		// Upstream order survives the sort: the revision is current, the
		// original same-day filing is prior. Growth (130-105)/105, never
		// the swapped negative pick.
		assert.InDelta(t, 23.809, results[0].Metrics.Growth, 0.001)
		assert.Equal(t, contracts.RankS, results[0].Rank)
	}
}

func TestScreenRefusesInvalidSession(t *testing.T) {
	s := newTestScreener(&fakeDirectory{}, &fakeStore{}, &fakePrices{})

	_, err := s.Screen(context.Background(), "情報･通信業", 10, fakeSession{valid: false}, nil)
	assert.ErrorIs(t, err, contracts.ErrInvalidSession)

	_, err = s.Screen(context.Background(), "情報･通信業", 10, nil, nil)
	assert.ErrorIs(t, err, contracts.ErrInvalidSession)
}

func TestScreenPipeline(t *testing.T) {
	dir := &fakeDirectory{codes: []string{"7203", "6758", "9432", "4063", "228A"}}
	store := &fakeStore{
		statements: map[string][]contracts.Disclosure{
			"7203": pair(100, 130, 1000),     // growth 30, margin 13 -> S
			"6758": pair(100, 108, 2000),     // growth 8, margin 5.4 -> B
			"9432": pair(100, 112, 1000),     // growth 12, margin 11.2 -> A
			"4063": {pair(100, 130, 1000)[0]}, // single disclosure -> not evaluable
		},
		errs: map[string]error{
			"228A": errors.New("upstream 500"),
		},
	}
	prices := &fakePrices{price: fptr(2500), per: fptr(12.0)}
	progress := &progressRecorder{}

	s := newTestScreener(dir, store, prices)

	results, err := s.Screen(context.Background(), "情報･通信業", 30, fakeSession{valid: true}, progress)
	require.NoError(t, err)

	// Only S and A qualify, in listing order
	require.Len(t, results, 2)
	assert.Equal(t, "7203", results[0].Code)
	assert.Equal(t, contracts.RankS, results[0].Rank)
	assert.Equal(t, "9432", results[1].Code)
	assert.Equal(t, contracts.RankA, results[1].Rank)

	// Price lookup spent only on qualifying companies
	assert.Equal(t, []string{"7203", "9432"}, prices.calls)

	// Commentary rendered and price attached
	assert.NotEmpty(t, results[0].Commentary)
	require.NotNil(t, results[0].Price)
	assert.Equal(t, 2500.0, *results[0].Price)

	// One progress report per company, ending at 1.0
	require.Len(t, progress.fractions, 5)
	assert.Equal(t, []string{"7203", "6758", "9432", "4063", "228A"}, progress.labels)
	assert.InDelta(t, 0.2, progress.fractions[0], 1e-9)
	assert.InDelta(t, 1.0, progress.fractions[4], 1e-9)
}

func TestScreenNeverEmitsRankB(t *testing.T) {
	dir := &fakeDirectory{codes: []string{"1111", "2222"}}
	store := &fakeStore{
		statements: map[string][]contracts.Disclosure{
			"1111": pair(100, 105, 1000), // growth 5 -> B
			"2222": pair(100, 109, 100),  // growth 9, margin high -> still B
		},
	}
	prices := &fakePrices{}

	s := newTestScreener(dir, store, prices)

	results, err := s.Screen(context.Background(), "電気機器", 10, fakeSession{valid: true}, nil)
	require.NoError(t, err)
	assert.Empty(t, results, "zero qualifying companies is a normal pass")
	assert.Empty(t, prices.calls, "no price lookup for B-ranked companies")
}

func TestScreenTruncatesToLimit(t *testing.T) {
	dir := &fakeDirectory{codes: []string{"1111", "2222", "3333", "4444"}}
	store := &fakeStore{
		statements: map[string][]contracts.Disclosure{
			"1111": pair(100, 130, 1000),
			"2222": pair(100, 130, 1000),
			"3333": pair(100, 130, 1000),
			"4444": pair(100, 130, 1000),
		},
	}
	progress := &progressRecorder{}

	s := newTestScreener(dir, store, &fakePrices{})

	results, err := s.Screen(context.Background(), "医薬品", 2, fakeSession{valid: true}, progress)
	require.NoError(t, err)

	assert.Len(t, results, 2)
	assert.Equal(t, []string{"1111", "2222"}, progress.labels)
}

func TestScreenListingFailureYieldsEmptyPass(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("listing down")}

	s := newTestScreener(dir, &fakeStore{}, &fakePrices{})

	results, err := s.Screen(context.Background(), "サービス業", 10, fakeSession{valid: true}, nil)
	require.NoError(t, err, "listing failure degrades to an empty pass, not an error")
	assert.Empty(t, results)
}

func TestScreenPriceLookupFailureKeepsResult(t *testing.T) {
	dir := &fakeDirectory{codes: []string{"7203"}}
	store := &fakeStore{
		statements: map[string][]contracts.Disclosure{
			"7203": pair(100, 130, 1000),
		},
	}
	prices := &fakePrices{err: errors.New("scrape failed")}

	s := newTestScreener(dir, store, prices)

	results, err := s.Screen(context.Background(), "情報･通信業", 10, fakeSession{valid: true}, nil)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Nil(t, results[0].Price)
	assert.Nil(t, results[0].PER)
	assert.NotEmpty(t, results[0].Commentary)
}

func TestScreenCancellationBetweenCompanies(t *testing.T) {
	dir := &fakeDirectory{codes: []string{"1111", "2222", "3333"}}
	store := &fakeStore{
		statements: map[string][]contracts.Disclosure{
			"1111": pair(100, 130, 1000),
			"2222": pair(100, 130, 1000),
			"3333": pair(100, 130, 1000),
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancelled := false

	// Cancel from inside the first progress report: companies two and three
	// must never start.
	progress := contracts.ProgressFunc(func(fraction float64, code string) {
		if !cancelled {
			cancelled = true
			cancel()
		}
	})

	s := newTestScreener(dir, store, &fakePrices{})

	results, err := s.Screen(ctx, "情報･通信業", 10, fakeSession{valid: true}, progress)
	assert.ErrorIs(t, err, context.Canceled)
	assert.LessOrEqual(t, len(results), 1, "no company resolved after cancellation")
}
