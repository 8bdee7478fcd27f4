package processor

import (
	"testing"
)

func findEntity(t *testing.T, text, wantText, wantType string) bool {
	t.Helper()
	e := NewEntityExtractor()
	ents, err := e.Extract(text)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	for _, ent := range ents {
		if ent.Text == wantText && ent.Type == wantType {
			if text[ent.Start:ent.End] != ent.Text {
				t.Errorf("offsets [%d:%d] do not cover %q", ent.Start, ent.End, ent.Text)
			}
			return true
		}
	}
	return false
}

func TestEntityExtractPerson(t *testing.T) {
	text := "Reporters met Angela Merkel yesterday to discuss the talks."
	if !findEntity(t, text, "Angela Merkel", "PERSON") {
		t.Error("PERSON Angela Merkel not found")
	}
}

func TestEntityExtractOrg(t *testing.T) {
	text := "Shares of Acme Corp rose after the announcement from the Securities Commission."
	if !findEntity(t, text, "Acme Corp", "ORG") {
		t.Error("ORG Acme Corp not found")
	}
}

func TestEntityExtractLoc(t *testing.T) {
	text := "Heavy flooding was reported in Jakarta over the weekend."
	if !findEntity(t, text, "Jakarta", "LOC") {
		t.Error("LOC Jakarta not found")
	}
}

func TestEntityStoplistFiltersSentenceStarts(t *testing.T) {
	e := NewEntityExtractor()
	ents, err := e.Extract("The Committee Members met on Monday Morning to discuss.")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	for _, ent := range ents {
		if ent.Type == "PERSON" && firstWordStoplisted(ent.Text) {
			t.Errorf("stoplisted candidate %q kept as PERSON", ent.Text)
		}
	}
}

func TestEntityOrderedByPosition(t *testing.T) {
	e := NewEntityExtractor()
	ents, err := e.Extract("John Smith of Acme Corp arrived in Berlin on Friday to meet Maria Lopez.")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	for i := 1; i < len(ents); i++ {
		if ents[i].Start < ents[i-1].Start {
			t.Error("entities not ordered by position")
		}
	}
}
