//go:build integration

package rod_test

import (
	"testing"

	"github.com/fwojciec/sitestat/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserManager_Browser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		maxPages int64
		pages    int
		recycled bool
	}{
		{name: "recycles once the page budget is spent", maxPages: 3, pages: 3, recycled: true},
		{name: "keeps browser below the page budget", maxPages: 5, pages: 2, recycled: false},
		{name: "recycles after every page with budget one", maxPages: 1, pages: 1, recycled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			manager, err := rod.NewBrowserManager(rod.WithMaxPages(tt.maxPages))
			require.NoError(t, err)
			defer manager.Close()

			before := manager.Browser()
			require.NotNil(t, before)
			for range tt.pages {
				manager.IncrementPageCount()
			}
			after := manager.Browser()
			require.NotNil(t, after)

			if tt.recycled {
				assert.NotSame(t, before, after)
			} else {
				assert.Same(t, before, after)
			}
		})
	}
}

func TestBrowserManager_Close(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager(rod.WithHeadless(true))
	require.NoError(t, err)

	require.NoError(t, manager.Close())
	require.NoError(t, manager.Close())
}
