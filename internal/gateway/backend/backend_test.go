package backend

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dinosandi/Mobile-Driver/internal/domain"
	"github.com/dinosandi/Mobile-Driver/internal/logx"
	"github.com/dinosandi/Mobile-Driver/internal/session"
	"github.com/dinosandi/Mobile-Driver/internal/transport"
)

func newGateway(t *testing.T, handler http.Handler) *Gateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sess := session.NewHandle(session.NewFileStore(filepath.Join(t.TempDir(), "s.json")))
	require.NoError(t, sess.Begin(domain.Session{Token: "tok", UserID: "7"}))

	return New(transport.New(srv.URL, srv.Client(), sess, nil, logx.Nop()))
}

func TestGateway_Login(t *testing.T) {
	t.Parallel()

	var gotBody string
	g := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Auth/login", r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte(`{"Token":"jwt-token","UserId":7,"Email":"d@mail.test","Message":"Welcome!"}`))
	}))

	res, err := g.Login(context.Background(), "d@mail.test", "secret")
	require.NoError(t, err)
	require.JSONEq(t, `{"Email":"d@mail.test","Password":"secret"}`, gotBody)
	require.Equal(t, "jwt-token", res.Session.Token)
	require.Equal(t, domain.UserID("7"), res.Session.UserID)
	require.Equal(t, "d@mail.test", res.Session.DisplayName)
	require.Equal(t, "Welcome!", res.Message)
}

func TestGateway_Transactions(t *testing.T) {
	t.Parallel()

	g := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Transactions", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"Id":1,"InvoiceNumber":"INV-1","DriverId":3,"Status":"Driver Assigned",
			 "RecipientName":"Budi","TotalAmount":125000.5,
			 "Store":{"Name":"Toko A"},
			 "Items":[{"ItemType":"Product","Quantity":2,"Product":{"Name":"Rice"}},
			          {"ItemType":"Bundle","Quantity":1,"Bundle":{"Name":"Family Pack"}}]},
			{"Id":"2","InvoiceNumber":"INV-2","DriverId":null,"Status":""}
		]`))
	}))

	txs, err := g.Transactions(context.Background())
	require.NoError(t, err)
	require.Len(t, txs, 2)

	require.Equal(t, domain.TransactionID("1"), txs[0].ID)
	require.Equal(t, domain.DriverID("3"), txs[0].DriverID)
	require.Equal(t, domain.StatusDriverAssigned, txs[0].Status)
	require.Equal(t, 125000.5, txs[0].TotalAmount)
	require.Equal(t, "Toko A", txs[0].Store.Name)
	require.Len(t, txs[0].Items, 2)
	require.Equal(t, "Rice", txs[0].Items[0].DisplayName())
	require.Equal(t, "Family Pack", txs[0].Items[1].DisplayName())

	require.Equal(t, domain.DriverID(""), txs[1].DriverID)
	require.Equal(t, domain.StatusUnassigned, txs[1].Status)
}

func TestGateway_Drivers_BothShapes(t *testing.T) {
	t.Parallel()

	bodies := []string{
		`[{"Id":3,"UserId":7,"Name":"Sandi"}]`,
		`{"Data":[{"Id":3,"UserId":"7","Name":"Sandi"}]}`,
	}
	for _, body := range bodies {
		g := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/Drivers", r.URL.Path)
			_, _ = w.Write([]byte(body))
		}))

		drivers, err := g.Drivers(context.Background())
		require.NoError(t, err, "body %s", body)
		require.Len(t, drivers, 1)
		require.Equal(t, domain.DriverID("3"), drivers[0].ID)
		require.Equal(t, domain.UserID("7"), drivers[0].UserID)
		require.Equal(t, "Sandi", drivers[0].Name)
	}
}

func TestGateway_UpdateStatus(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath, gotBody string
	g := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusNoContent)
	}))

	err := g.UpdateStatus(context.Background(), "5", domain.StatusShipped)
	require.NoError(t, err)
	require.Equal(t, http.MethodPut, gotMethod)
	require.Equal(t, "/Transactions/5/status", gotPath)
	require.Equal(t, `"Shipped"`, gotBody)
}

func TestGateway_AssignDriver(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath, gotBody string
	g := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
	}))

	err := g.AssignDriver(context.Background(), "5", "3")
	require.NoError(t, err)
	require.Equal(t, http.MethodPatch, gotMethod)
	require.Equal(t, "/Transactions/5", gotPath)
	require.JSONEq(t, `{"DriverId":"3","Status":"Driver Assigned"}`, gotBody)
}

func TestGateway_CustomerProfiles(t *testing.T) {
	t.Parallel()

	g := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Customer/profile", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"Id":10,"Name":"Citra","Role":0},
			{"Id":11,"Name":"Admin","Role":1}
		]`))
	}))

	customers, err := g.CustomerProfiles(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 2)
	require.True(t, customers[0].ChatEligible())
	require.False(t, customers[1].ChatEligible())
}

func TestGateway_ChatFeed(t *testing.T) {
	t.Parallel()

	g := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Chat/messages", r.URL.Path)
		require.Equal(t, "7", r.URL.Query().Get("userId"))
		_, _ = w.Write([]byte(`[
			{"Id":1,"SenderId":7,"ReceiverId":10,"Message":"on my way","Timestamp":"2025-03-01T10:00:00Z"},
			{"Id":2,"SenderId":10,"ReceiverId":7,"Message":"ok","Timestamp":"2025-03-01T10:01:30"},
			{"Id":3,"SenderId":10,"ReceiverId":7,"Message":"no clock","Timestamp":""}
		]`))
	}))

	msgs, err := g.ChatFeed(context.Background(), "7")
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	require.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), msgs[0].Timestamp)
	require.Equal(t, time.Date(2025, 3, 1, 10, 1, 30, 0, time.UTC), msgs[1].Timestamp)
	require.True(t, msgs[2].Timestamp.IsZero())
}

func TestGateway_SendChat(t *testing.T) {
	t.Parallel()

	var gotBody string
	g := newGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Chat", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_, _ = w.Write([]byte(`{"Id":42,"SenderId":7,"ReceiverId":10,"Message":"hi"}`))
	}))

	msg, err := g.SendChat(context.Background(), "7", "10", "hi")
	require.NoError(t, err)
	require.JSONEq(t, `{"SenderId":"7","ReceiverId":"10","Message":"hi"}`, gotBody)
	require.Equal(t, domain.MessageID("42"), msg.ID)
}
