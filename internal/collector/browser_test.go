package collector

import (
	"io"
	"log/slog"
	"testing"

	"github.com/go-rod/rod"
)

func TestGetPageDrainsPoolFirst(t *testing.T) {
	bf := &BrowserFetcher{
		pagePool: make(chan *rod.Page, 2),
		maxPages: 2,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	parked := &rod.Page{}
	bf.pagePool <- parked

	page, err := bf.getPage()
	if err != nil {
		t.Fatalf("getPage: %v", err)
	}
	if page != parked {
		t.Error("getPage should return the pooled page before opening a new one")
	}
	if len(bf.pagePool) != 0 {
		t.Errorf("pool depth = %d after reuse, want 0", len(bf.pagePool))
	}
}
