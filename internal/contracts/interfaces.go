package contracts

import "context"

// Session is an authenticated credential against the financial-data provider.
// The screening core never constructs or refreshes one.
type Session interface {
	Valid() bool
}

// ListingDirectory enumerates the company codes listed in a sector,
// in the provider's listing order.
type ListingDirectory interface {
	CodesInSector(ctx context.Context, sector string) ([]string, error)
}

// DisclosureStore fetches the disclosure history for a company.
// The returned slice is unordered; callers sort by disclosure date.
type DisclosureStore interface {
	FetchStatements(ctx context.Context, code string, session Session) ([]Disclosure, error)
}

// PriceLookup returns the current price and PER for a company.
// Both are nil when unavailable.
type PriceLookup interface {
	Current(ctx context.Context, code string) (price *float64, per *float64, err error)
}

// ProgressSink receives one report per company processed during a screening
// pass. Fire-and-forget, no backpressure.
type ProgressSink interface {
	Report(fraction float64, code string)
}

// ProgressFunc adapts a plain function to ProgressSink.
type ProgressFunc func(fraction float64, code string)

// Report implements ProgressSink.
func (f ProgressFunc) Report(fraction float64, code string) {
	f(fraction, code)
}
