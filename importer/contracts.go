// ABOUTME: Parses contract imports and merges them into the stored list
// ABOUTME: Accepts a bare array, a {"contracts": [...]} wrapper or a full export
package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/bizdash/models"
)

// MalformedInputError means the input could not be understood; nothing was written.
type MalformedInputError struct {
	Reason string
	Err    error
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed input: %s: %v", e.Reason, e.Err)
	}
	return "malformed input: " + e.Reason
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

func malformed(reason string, err error) error {
	return &MalformedInputError{Reason: reason, Err: err}
}

// ParseContracts decodes contracts from any of the supported shapes and fills
// in defaults for IDs, status, timestamps and empty lists.
func ParseContracts(data []byte, now time.Time) ([]models.GovContractItem, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, malformed("empty input", nil)
	}

	var raw json.RawMessage
	switch trimmed[0] {
	case '[':
		raw = trimmed
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil, malformed("invalid JSON object", err)
		}
		if list, ok := obj["contracts"]; ok {
			raw = list
		} else if list, ok := obj["govContracts"]; ok {
			raw = list
		} else {
			return nil, malformed(`expected a "contracts" or "govContracts" array`, nil)
		}
	default:
		return nil, malformed("expected a JSON array or object", nil)
	}

	var contracts []models.GovContractItem
	if err := json.Unmarshal(raw, &contracts); err != nil {
		return nil, malformed("contracts must be an array of objects", err)
	}

	for i := range contracts {
		c := &contracts[i]
		c.OpportunityNumber = strings.TrimSpace(c.OpportunityNumber)
		c.Title = strings.TrimSpace(c.Title)
		if c.OpportunityNumber == "" && c.Title == "" {
			return nil, malformed(fmt.Sprintf("contract %d has neither opportunityNumber nor title", i), nil)
		}
		normalizeContract(c, now)
	}
	return contracts, nil
}

func normalizeContract(c *models.GovContractItem, now time.Time) {
	if c.ID == 0 {
		c.ID = models.NewID()
	}
	if c.Status == "" {
		c.Status = models.ContractStatusIdentified
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.ActionItems == nil {
		c.ActionItems = []models.ActionItem{}
	}
	if c.Documents == nil {
		c.Documents = []models.Document{}
	}
	if c.Interactions == nil {
		c.Interactions = []models.Interaction{}
	}
}

// MergeResult reports what a merge did.
type MergeResult struct {
	Added   int
	Skipped int
}

// MergeContracts appends incoming contracts whose identity is not already
// present. Existing records are never modified and the input slices are not
// touched.
func MergeContracts(existing, incoming []models.GovContractItem) ([]models.GovContractItem, MergeResult) {
	merged := make([]models.GovContractItem, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	matcher := NewContractMatcher(existing)
	var res MergeResult
	for i := range incoming {
		if _, found := matcher.FindMatch(incoming[i]); found {
			res.Skipped++
			continue
		}
		merged = append(merged, incoming[i])
		matcher.Add(&incoming[i])
		res.Added++
	}
	return merged, res
}
