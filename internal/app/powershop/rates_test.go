package powershop

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tariffhawk/powershop-rates/internal/pkg/http"
	"github.com/tariffhawk/powershop-rates/internal/pkg/http/httpmock"
)

func TestRateData_NotAuthenticated(t *testing.T) {
	t.Parallel()

	c := newTestClient(&httpmock.ClientMock{})

	_, err := c.RateData(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestRateData_FetchesBalancePage(t *testing.T) {
	t.Parallel()

	balancePage := loadGoldenFile(t, "testdata/balance_page.html")

	mock := &httpmock.ClientMock{
		GetFunc: func(_ context.Context, url string) (*http.Page, error) {
			assert.Equal(t, "https://portal.test/customers/482931/balance", url)
			return &http.Page{Body: balancePage, StatusCode: 200, FinalURL: url}, nil
		},
	}

	c := newTestClient(mock)
	c.customerID = "482931"

	snapshot, err := c.RateData(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "482931", snapshot.CustomerID)
	assert.Len(t, snapshot.RatePeriods, 3)
	require.NotNil(t, snapshot.PrimaryRate)
	assert.Equal(t, 19.08, *snapshot.PrimaryRate)
}

func TestRateData_BalancePageError(t *testing.T) {
	t.Parallel()

	t.Run("transport error", func(t *testing.T) {
		t.Parallel()

		mock := &httpmock.ClientMock{
			GetFunc: func(_ context.Context, _ string) (*http.Page, error) {
				return nil, errors.New("connection reset")
			},
		}

		c := newTestClient(mock)
		c.customerID = "482931"

		_, err := c.RateData(context.Background())
		assert.ErrorContains(t, err, "connection reset")
	})

	t.Run("server error", func(t *testing.T) {
		t.Parallel()

		mock := &httpmock.ClientMock{
			GetFunc: func(_ context.Context, _ string) (*http.Page, error) {
				return &http.Page{Body: "oops", StatusCode: 500}, nil
			},
		}

		c := newTestClient(mock)
		c.customerID = "482931"

		_, err := c.RateData(context.Background())
		assert.ErrorContains(t, err, "status 500")
	})
}

func TestRateData_RediscoversCustomerID(t *testing.T) {
	t.Parallel()

	balancePage := loadGoldenFile(t, "testdata/balance_page.html")

	mock := &httpmock.ClientMock{
		GetFunc: func(_ context.Context, url string) (*http.Page, error) {
			switch url {
			case "https://portal.test":
				return &http.Page{
					Body:       `<html><body><a href="/customers/482931">My account</a></body></html>`,
					StatusCode: 200,
					FinalURL:   url,
				}, nil
			case "https://portal.test/customers/482931/balance":
				return &http.Page{Body: balancePage, StatusCode: 200, FinalURL: url}, nil
			default:
				t.Errorf("unexpected url %s", url)
				return nil, errors.New("unexpected url")
			}
		},
	}

	c := newTestClient(mock)
	c.customerID = UnknownCustomerID

	snapshot, err := c.RateData(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "482931", c.CustomerID())
	assert.Equal(t, "482931", snapshot.CustomerID)
	assert.Len(t, mock.GetCalls(), 2)
}

func TestRateData_UnknownIDFallsBackToRootPage(t *testing.T) {
	t.Parallel()

	mock := &httpmock.ClientMock{
		GetFunc: func(_ context.Context, url string) (*http.Page, error) {
			return &http.Page{
				Body:       `<html><body><p>Weekday Peak 5pm - 9pm 28.40 c/kWh</p></body></html>`,
				StatusCode: 200,
				FinalURL:   url,
			}, nil
		},
	}

	c := newTestClient(mock)
	c.customerID = UnknownCustomerID

	snapshot, err := c.RateData(context.Background())
	require.NoError(t, err)

	assert.Equal(t, UnknownCustomerID, c.CustomerID())
	assert.Len(t, snapshot.RatePeriods, 1)
	assert.Len(t, mock.GetCalls(), 1, "rates come straight off the root page")
}
