package jquants

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tkohno/guardian/internal/contracts"
)

// statementsResponse is the /fins/statements payload
type statementsResponse struct {
	Statements []statementRecord `json:"statements"`
}

// statementRecord is one raw filing. J-Quants serializes every amount as a
// string; empty or garbage values are common for companies that do not
// report a line item.
type statementRecord struct {
	DisclosedDate   string `json:"DisclosedDate"`
	TypeOfDocument  string `json:"TypeOfDocument"`
	OperatingProfit string `json:"OperatingProfit"`
	NetSales        string `json:"NetSales"`
	Profit          string `json:"ProfitLossAttributableToOwnersOfParent"`
	TotalAssets     string `json:"TotalAssets"`
	NetAssets       string `json:"NetAssets"`
}

// FetchStatements fetches the disclosure history for a company.
// The session is the one passed down by the orchestrator, not the client's
// own; a pass runs against a single read-only session.
// Implements contracts.DisclosureStore.
func (c *Client) FetchStatements(ctx context.Context, code string, session contracts.Session) ([]contracts.Disclosure, error) {
	s, ok := session.(Session)
	if !ok || !s.Valid() {
		return nil, contracts.ErrInvalidSession
	}

	query := url.Values{}
	query.Set("code", code)

	resp, err := c.get(ctx, "/fins/statements", query, s.IDToken)
	if err != nil {
		return nil, fmt.Errorf("fins/statements request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fins/statements failed with status %d", resp.StatusCode)
	}

	var result statementsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode fins/statements response: %w", err)
	}

	return parseStatements(code, result.Statements), nil
}

// parseStatements converts raw filing records into disclosures. Records
// without a parseable disclosure date are dropped; missing or non-numeric
// amounts become 0 and the deriver's guards keep them from turning into
// spurious ratios.
func parseStatements(code string, records []statementRecord) []contracts.Disclosure {
	disclosures := make([]contracts.Disclosure, 0, len(records))
	for _, r := range records {
		date, err := time.Parse("2006-01-02", r.DisclosedDate)
		if err != nil {
			continue
		}

		disclosures = append(disclosures, contracts.Disclosure{
			Code:            code,
			DisclosedDate:   date,
			OperatingProfit: parseAmount(r.OperatingProfit),
			NetSales:        parseAmount(r.NetSales),
			NetIncome:       parseAmount(r.Profit),
			TotalAssets:     parseAmount(r.TotalAssets),
			NetAssets:       parseAmount(r.NetAssets),
		})
	}
	return disclosures
}

// parseAmount parses a J-Quants string amount, treating anything unparseable
// as 0.
func parseAmount(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
