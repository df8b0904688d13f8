package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const chartJSON = `{
  "chart": {
    "result": [{
      "meta": {"currency": "INR", "symbol": "TCS.NS", "exchangeName": "NSI", "regularMarketPrice": 3542.3, "chartPreviousClose": 3500.0},
      "timestamp": [1747267200, 1747353600, 1747612800],
      "indicators": {"quote": [{
        "open":   [3500.0, null, 3550.0],
        "close":  [3520.5, null, 3542.3],
        "high":   [3530.0, null, 3560.0],
        "low":    [3490.0, null, 3530.0],
        "volume": [1000, null, 1200]
      }]}
    }],
    "error": null
  }
}`

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *string) {
	t.Helper()
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &gotPath
}

func TestFinanceClient_QueryChart(t *testing.T) {
	srv, gotPath := newTestServer(t, http.StatusOK, chartJSON)
	client := NewFinanceClient(srv.URL, time.Second)

	resp, err := client.QueryChart(context.Background(), "TCS.NS", "1mo")
	if err != nil {
		t.Fatalf("QueryChart() returned error: %v", err)
	}
	if *gotPath != "/TCS.NS?interval=1d&range=1mo" {
		t.Errorf("Expected request path /TCS.NS?interval=1d&range=1mo, got %s", *gotPath)
	}

	chart, err := client.ParseChart(resp)
	if err != nil {
		t.Fatalf("ParseChart() returned error: %v", err)
	}

	t.Run("skips null closes", func(t *testing.T) {
		if len(chart.Indicators) != 2 {
			t.Fatalf("Expected 2 indicators, got %d", len(chart.Indicators))
		}
		closes := chart.Closes()
		if closes[0] != 3520.5 || closes[1] != 3542.3 {
			t.Errorf("Expected closes [3520.5 3542.3], got %v", closes)
		}
	})

	t.Run("parses metadata", func(t *testing.T) {
		if chart.Symbol != "TCS.NS" {
			t.Errorf("Expected symbol TCS.NS, got %s", chart.Symbol)
		}
		if chart.RegularMarketPrice != 3542.3 {
			t.Errorf("Expected market price 3542.3, got %f", chart.RegularMarketPrice)
		}
		latest, ok := chart.Latest()
		if !ok || latest.Volume != 1200 {
			t.Errorf("Expected latest volume 1200, got %d", latest.Volume)
		}
		if !latest.Date.Equal(time.Unix(1747612800, 0).UTC()) {
			t.Errorf("Expected latest date %v, got %v", time.Unix(1747612800, 0).UTC(), latest.Date)
		}
	})
}

func TestFinanceClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{
			name:    "yahoo error object",
			status:  http.StatusNotFound,
			body:    `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`,
			wantErr: "delisted",
		},
		{
			name:    "empty result",
			status:  http.StatusOK,
			body:    `{"chart":{"result":[],"error":null}}`,
			wantErr: "no results",
		},
		{
			name:    "non-json error page",
			status:  http.StatusTooManyRequests,
			body:    "Too Many Requests",
			wantErr: "status 429",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, tt.body)
			client := NewFinanceClient(srv.URL, time.Second)

			_, err := client.QueryChart(context.Background(), "XYZ.NS", "5d")
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseChart_Validation(t *testing.T) {
	client := NewFinanceClient("", time.Second)
	one := 1.0

	tests := []struct {
		name string
		resp Response
	}{
		{"no result", Response{}},
		{"no timestamps", Response{Chart: Chart{Result: []Result{{}}}}},
		{"no closes", Response{Chart: Chart{Result: []Result{{Timestamp: []int64{1}}}}}},
		{"mismatched lengths", Response{Chart: Chart{Result: []Result{{
			Timestamp:  []int64{1, 2},
			Indicators: IndicatorsContainer{Quote: []Quote{{Close: []*float64{&one}}}},
		}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := client.ParseChart(tt.resp); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}
