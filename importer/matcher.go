// ABOUTME: Contract deduplication for imports
// ABOUTME: Matches on the exact (opportunity number, title) pair
package importer

import (
	"github.com/harperreed/bizdash/models"
)

type ContractMatcher struct {
	byKey map[string]*models.GovContractItem
}

// NewContractMatcher creates a matcher from existing contracts.
func NewContractMatcher(contracts []models.GovContractItem) *ContractMatcher {
	m := &ContractMatcher{
		byKey: make(map[string]*models.GovContractItem, len(contracts)),
	}
	for i := range contracts {
		m.byKey[contracts[i].DedupKey()] = &contracts[i]
	}
	return m
}

// FindMatch looks for an existing contract with the same identity.
func (m *ContractMatcher) FindMatch(c models.GovContractItem) (*models.GovContractItem, bool) {
	existing, found := m.byKey[c.DedupKey()]
	return existing, found
}

// Add registers a newly accepted contract so later duplicates in the same
// import are suppressed too.
func (m *ContractMatcher) Add(c *models.GovContractItem) {
	m.byKey[c.DedupKey()] = c
}
