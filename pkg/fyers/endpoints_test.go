package fyers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v3/profile", r.URL.Path)
		w.Write(fixture(t, "profile.json"))
	})

	p, err := c.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "JOHN DOE", p.Name)
	assert.Nil(t, p.DisplayName)
	assert.Equal(t, "XJ01234", p.ClientID)
	assert.Equal(t, "ABCDE1234F", p.PAN)
	require.NotNil(t, p.PinChangeDate)
	assert.Equal(t, "08-10-2024 10:02:11", *p.PinChangeDate)
	assert.True(t, p.TOTP)
	assert.Equal(t, 90, p.PwdToExpire)
	assert.True(t, p.MTFEnabled)
}

func TestPlaceOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v3/orders/sync", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body, 14)
		assert.Equal(t, "NSE:JIOFIN-EQ", body["symbol"])
		assert.Equal(t, float64(1), body["qty"])
		assert.Equal(t, float64(1), body["type"])
		assert.Equal(t, float64(1), body["side"])
		assert.Equal(t, "INTRADAY", body["productType"])
		assert.Equal(t, 300.0, body["limitPrice"])
		assert.Equal(t, 0.0, body["stopPrice"])
		assert.Equal(t, float64(0), body["disclosedQty"])
		assert.Equal(t, "DAY", body["validity"])
		assert.Equal(t, true, body["offlineOrder"])
		assert.Equal(t, 0.0, body["stopLoss"])
		assert.Equal(t, 0.0, body["takeProfit"])
		assert.Contains(t, body, "orderTag")
		assert.Nil(t, body["orderTag"])
		assert.Equal(t, false, body["isSliceOrder"])

		w.Write(fixture(t, "order_placed.json"))
	})

	order := NewOrderBuilder("NSE:JIOFIN-EQ", 1, OrderTypeLimit, SideBuy, ProductIntraday, ValidityDay).
		WithLimitPrice(300).
		WithOfflineOrder(true).
		Build()

	placed, err := c.PlaceOrder(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, "24100800123456", placed.ID)
}

func TestPlaceOrderRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"s":"error","code":-99,"message":"RED:Margin Shortfall"}`)
	})

	order := NewOrderBuilder("NSE:SBIN-EQ", 1, OrderTypeMarket, SideBuy, ProductCNC, ValidityDay).Build()
	_, err := c.PlaceOrder(context.Background(), order)
	fe := requireKind(t, err, KindOrderRejected)
	assert.EqualError(t, fe, "order rejected: RED:Margin Shortfall")
}

func TestPlaceOrderMissingID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"s":"ok","code":1101,"message":"submitted"}`)
	})

	order := NewOrderBuilder("NSE:SBIN-EQ", 1, OrderTypeMarket, SideBuy, ProductCNC, ValidityDay).Build()
	_, err := c.PlaceOrder(context.Background(), order)
	fe := requireKind(t, err, KindMissingField)
	assert.Equal(t, "id", fe.Field)
}

func TestCancelOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v3/orders/sync", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"24100800123456"}`, string(body))
		io.WriteString(w, `{"s":"ok","code":1103,"message":"Successfully cancelled order","id":"24100800123456"}`)
	})

	require.NoError(t, c.CancelOrder(context.Background(), "24100800123456"))
}

func TestCancelOrderInvalidID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"s":"error","code":-51,"message":"Invalid order id"}`)
	})

	err := c.CancelOrder(context.Background(), "bogus")
	requireKind(t, err, KindInvalidOrderID)
}

func TestHistory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/data/history", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "NSE:SBIN-EQ", q.Get("symbol"))
		assert.Equal(t, "5", q.Get("resolution"))
		assert.Equal(t, "0", q.Get("date_format"))
		assert.Equal(t, "1728359100", q.Get("range_from"))
		assert.Equal(t, "1728381600", q.Get("range_to"))
		assert.Equal(t, "1", q.Get("cont_flag"))
		assert.False(t, q.Has("oi_flag"))
		w.Write(fixture(t, "history.json"))
	})

	req := NewHistoryBuilder("NSE:SBIN-EQ",
		ISTDateTime(2024, time.October, 8, 9, 15),
		ISTDateTime(2024, time.October, 8, 15, 30),
	).Build()

	candles, err := c.History(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, candles, 4)

	for i, cd := range candles {
		assert.Nil(t, cd.OpenInterest)
		assert.GreaterOrEqual(t, cd.High, cd.Low)
		if i > 0 {
			assert.True(t, cd.Time.After(candles[i-1].Time), "candles must keep broker order")
		}
	}
	assert.True(t, candles[0].Time.Equal(ISTDateTime(2024, time.October, 8, 9, 15)))
	assert.Equal(t, 800.5, candles[0].Open)
	assert.Equal(t, uint64(152340), candles[0].Volume)
	assert.Equal(t, 802.15, candles[3].Close)
}

func TestHistoryWithOpenInterest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("oi_flag"))
		w.Write(fixture(t, "history_oi.json"))
	})

	req := NewHistoryBuilder("NSE:NIFTY24OCTFUT",
		ISTDateTime(2024, time.October, 8, 9, 15),
		ISTDateTime(2024, time.October, 8, 9, 16),
	).WithResolution(ResolutionMinute1).WithOpenInterest(true).Build()

	candles, err := c.History(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, candles, 2)
	require.NotNil(t, candles[1].OpenInterest)
	assert.Equal(t, 11262500.0, *candles[1].OpenInterest)
}

func TestHistoryBadCandle(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"s":"ok","code":200,"message":"","candles":[[1728359100,1,2,0.5,1.5,100],[1728359400,1,2,0.5]]}`)
	})

	req := NewHistoryBuilder("NSE:SBIN-EQ", time.Unix(0, 0), time.Unix(1, 0)).Build()
	_, err := c.History(context.Background(), req)
	requireKind(t, err, KindDecode)
}

func TestHistoryMissingCandles(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"s":"ok","code":200,"message":""}`)
	})

	req := NewHistoryBuilder("NSE:SBIN-EQ", time.Unix(0, 0), time.Unix(1, 0)).Build()
	_, err := c.History(context.Background(), req)
	fe := requireKind(t, err, KindMissingField)
	assert.Equal(t, "candles", fe.Field)
}

func TestHistoryEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"s":"no_data","code":200,"message":"","candles":[]}`)
	})

	req := NewHistoryBuilder("NSE:SBIN-EQ", time.Unix(0, 0), time.Unix(1, 0)).Build()
	candles, err := c.History(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, candles)
}
