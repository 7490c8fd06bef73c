package pagination_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nmoratal-dev/bank-ledger-api/internal/utils/pagination"
)

func TestBuildLinks_MiddlePage(t *testing.T) {
	query := url.Values{"concept": []string{"FEE"}}

	links := pagination.BuildLinks("/api/v1/accounts/ES1/transactions", query, 10, 10, 35)

	assert.Equal(t, "/api/v1/accounts/ES1/transactions?concept=FEE&limit=10&offset=10", links.Self)
	assert.Equal(t, "/api/v1/accounts/ES1/transactions?concept=FEE&limit=10&offset=0", links.First)
	assert.Equal(t, "/api/v1/accounts/ES1/transactions?concept=FEE&limit=10&offset=20", links.Next)
	assert.Equal(t, "/api/v1/accounts/ES1/transactions?concept=FEE&limit=10&offset=0", links.Previous)
}

func TestBuildLinks_FirstPage(t *testing.T) {
	links := pagination.BuildLinks("/api/v1/accounts/ES1/transactions", url.Values{}, 10, 0, 35)

	assert.Empty(t, links.Previous)
	assert.Equal(t, "/api/v1/accounts/ES1/transactions?limit=10&offset=10", links.Next)
}

func TestBuildLinks_LastPage(t *testing.T) {
	links := pagination.BuildLinks("/api/v1/accounts/ES1/transactions", url.Values{}, 10, 30, 35)

	assert.Empty(t, links.Next)
	assert.Equal(t, "/api/v1/accounts/ES1/transactions?limit=10&offset=20", links.Previous)
}

func TestBuildLinks_PreviousClampsToZero(t *testing.T) {
	links := pagination.BuildLinks("/api/v1/accounts/ES1/transactions", url.Values{}, 10, 5, 35)

	assert.Equal(t, "/api/v1/accounts/ES1/transactions?limit=10&offset=0", links.Previous)
}

func TestBuildLinks_SinglePageHasNoNavigation(t *testing.T) {
	links := pagination.BuildLinks("/api/v1/accounts/ES1/transactions", url.Values{}, 10, 0, 3)

	assert.Empty(t, links.Next)
	assert.Empty(t, links.Previous)
}
