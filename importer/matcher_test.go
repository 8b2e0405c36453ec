package importer

import (
	"testing"

	"github.com/harperreed/bizdash/models"
)

func TestMatchContractByIdentity(t *testing.T) {
	existing := []models.GovContractItem{
		{ID: 1, OpportunityNumber: "W91-1", Title: "Cloud"},
		{ID: 2, OpportunityNumber: "W91-2", Title: "Cloud"},
	}

	matcher := NewContractMatcher(existing)

	match, found := matcher.FindMatch(models.GovContractItem{OpportunityNumber: "W91-1", Title: "Cloud"})
	if !found {
		t.Fatal("expected to find W91-1/Cloud")
	}
	if match.ID != 1 {
		t.Errorf("expected ID 1, got %d", match.ID)
	}

	// Same number with a different title is a different opportunity.
	if _, found := matcher.FindMatch(models.GovContractItem{OpportunityNumber: "W91-1", Title: "Cloud 2"}); found {
		t.Error("expected no match for a different title")
	}
}

func TestMatcherAddSuppressesLaterDuplicates(t *testing.T) {
	matcher := NewContractMatcher(nil)
	c := models.GovContractItem{ID: 9, OpportunityNumber: "N-1", Title: "Bridge"}

	if _, found := matcher.FindMatch(c); found {
		t.Fatal("empty matcher should not match")
	}
	matcher.Add(&c)
	if _, found := matcher.FindMatch(models.GovContractItem{OpportunityNumber: "N-1", Title: "Bridge"}); !found {
		t.Error("expected match after Add")
	}
}
