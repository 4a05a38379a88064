package jquants

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tkohno/guardian/internal/contracts"
)

// listedInfoResponse is the /listed/info payload
type listedInfoResponse struct {
	Info []ListedCompany `json:"info"`
}

// ListedCompany is one entry of the listing directory.
type ListedCompany struct {
	Code             string `json:"Code"`
	CompanyName      string `json:"CompanyName"`
	Sector33CodeName string `json:"Sector33CodeName"` // 33業種区分
	MarketCodeName   string `json:"MarketCodeName"`
}

// CodesInSector returns the codes of all companies listed in the given
// 33-sector classification, in the provider's listing order.
// Implements contracts.ListingDirectory.
func (c *Client) CodesInSector(ctx context.Context, sector string) ([]string, error) {
	session := c.Session()
	if !session.Valid() {
		return nil, contracts.ErrInvalidSession
	}

	resp, err := c.get(ctx, "/listed/info", nil, session.IDToken)
	if err != nil {
		return nil, fmt.Errorf("listed/info request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listed/info failed with status %d", resp.StatusCode)
	}

	var result listedInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode listed/info response: %w", err)
	}

	codes := filterSector(result.Info, sector)

	c.logger.WithFields(map[string]interface{}{
		"sector": sector,
		"count":  len(codes),
	}).Debug("Sector listing fetched")

	return codes, nil
}

// filterSector keeps the codes whose 33-sector name matches, preserving order.
func filterSector(info []ListedCompany, sector string) []string {
	codes := make([]string, 0)
	for _, company := range info {
		if company.Sector33CodeName == sector && company.Code != "" {
			codes = append(codes, company.Code)
		}
	}
	return codes
}
