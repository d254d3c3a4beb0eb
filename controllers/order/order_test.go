package orderControllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/junaidrashid-git/autoparts-api/checkout"
	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/junaidrashid-git/autoparts-api/store"
	"github.com/junaidrashid-git/autoparts-api/store/storetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func placeOrder(t *testing.T, st *store.Store, ledger models.Ledger, id string) models.OrderRef {
	t.Helper()
	order := &models.Order{
		ID:            id,
		Currency:      models.CurrencyKES,
		Subtotal:      decimal.NewFromInt(900),
		Total:         decimal.NewFromInt(900),
		Customer:      models.Customer{Name: "Amina", Email: "amina@example.com", Phone: "0700", Address: "Nairobi"},
		PaymentMethod: models.PaymentBankTransfer,
		Status:        models.StatusPendingPayment,
	}
	require.NoError(t, st.CreateOrder(context.Background(), ledger, order, nil))
	return models.OrderRef{LedgerPath: ledger.Path(), OrderID: id}
}

func get(r *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestListAndLookupOrders(t *testing.T) {
	st, _ := storetest.New(t)
	m, err := st.CreateMarketer(context.Background(), store.NewMarketer{Name: "Jane", Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)
	placeOrder(t, st, models.GeneralLedger(), "o1")
	saleRef := placeOrder(t, st, models.MarketerLedger(m.ID), "s1")

	r := gin.New()
	r.GET("/admin/orders", GetAllOrdersHandler(st))
	r.GET("/admin/orders/lookup", GetOrderHandler(st))

	w := get(r, "/admin/orders")
	require.Equal(t, http.StatusOK, w.Code)
	var all struct {
		Orders        []models.Order `json:"orders"`
		MarketerSales []models.Order `json:"marketer_sales"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all.Orders, 1)
	assert.Len(t, all.MarketerSales, 1)

	w = get(r, "/admin/orders?ledger=sales&status=Approved")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"orders":[],"marketer_sales":[]}`, w.Body.String())

	assert.Equal(t, http.StatusBadRequest, get(r, "/admin/orders?ledger=everything").Code)

	w = get(r, "/admin/orders/lookup?ledger_path="+saleRef.LedgerPath+"&order_id=s1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"marketer_id":"`+m.ID+`"`)

	assert.Equal(t, http.StatusNotFound, get(r, "/admin/orders/lookup?ledger_path=orders&order_id=s1").Code)
	assert.Equal(t, http.StatusBadRequest, get(r, "/admin/orders/lookup?ledger_path=carts&order_id=o1").Code)
}

func dialWatch(t *testing.T, watcher *checkout.Watcher, ref models.OrderRef) *websocket.Conn {
	t.Helper()
	r := gin.New()
	r.GET("/orders/watch", WatchOrderHandler(watcher))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/orders/watch?ledger_path=" + ref.LedgerPath + "&order_id=" + ref.OrderID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var f Frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestWatchStreamsApproval(t *testing.T) {
	st, hub := storetest.New(t)
	ref := placeOrder(t, st, models.GeneralLedger(), "o1")
	conn := dialWatch(t, checkout.NewWatcher(st, hub, time.Minute), ref)

	assert.Equal(t, "watching", readFrame(t, conn).Type)

	require.NoError(t, st.SettleOrder(context.Background(), models.GeneralLedger(), "o1", models.StatusApproved))

	f := readFrame(t, conn)
	assert.Equal(t, "approved", f.Type)
	assert.Equal(t, models.StatusApproved, f.Status)
	assert.Equal(t, ref, f.Ref)
}

func TestWatchTimeoutFrame(t *testing.T) {
	st, hub := storetest.New(t)
	ref := placeOrder(t, st, models.GeneralLedger(), "o1")
	conn := dialWatch(t, checkout.NewWatcher(st, hub, 50*time.Millisecond), ref)

	assert.Equal(t, "watching", readFrame(t, conn).Type)
	assert.Equal(t, "timeout", readFrame(t, conn).Type)
}

func TestWatchUnknownOrderFrame(t *testing.T) {
	st, hub := storetest.New(t)
	conn := dialWatch(t, checkout.NewWatcher(st, hub, time.Minute), models.OrderRef{LedgerPath: "orders", OrderID: "ghost"})

	f := readFrame(t, conn)
	assert.Equal(t, "error", f.Type)
	assert.Equal(t, "Order not found", f.Error)
}

func TestWatchRejectsBadRef(t *testing.T) {
	st, hub := storetest.New(t)
	r := gin.New()
	r.GET("/orders/watch", WatchOrderHandler(checkout.NewWatcher(st, hub, time.Minute)))
	assert.Equal(t, http.StatusBadRequest, get(r, "/orders/watch?ledger_path=nowhere&order_id=1").Code)
}
