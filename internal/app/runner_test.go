package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dinosandi/Mobile-Driver/internal/config"
	"github.com/dinosandi/Mobile-Driver/internal/domain"
	"github.com/dinosandi/Mobile-Driver/internal/gateway/backend"
	"github.com/dinosandi/Mobile-Driver/internal/logx"
	"github.com/dinosandi/Mobile-Driver/internal/service/chat"
	"github.com/dinosandi/Mobile-Driver/internal/service/tasks"
	"github.com/dinosandi/Mobile-Driver/internal/service/workflow"
	"github.com/dinosandi/Mobile-Driver/internal/session"
	"github.com/dinosandi/Mobile-Driver/internal/transport"
)

func newTestRunner(t *testing.T, handler http.Handler) (*Runner, *bytes.Buffer) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		BaseURL:     srv.URL,
		Timeout:     time.Second,
		SessionFile: filepath.Join(t.TempDir(), "session.json"),
	}
	sess := session.NewHandle(session.NewFileStore(cfg.SessionFile))
	client := transport.New(cfg.BaseURL, srv.Client(), sess, nil, logx.Nop())
	gw := backend.New(client)

	m, err := NewMetrics()
	require.NoError(t, err)

	var out bytes.Buffer
	r := NewRunner(
		cfg,
		sess,
		gw,
		tasks.NewService(gw, logx.Nop()),
		workflow.NewEngine(gw, workflow.ConfirmFunc(func(string) bool { return true }), logx.Nop()),
		chat.NewEngine(gw, logx.Nop()),
		m,
		logx.Nop(),
		&out,
	)
	return r, &out
}

func TestRunner_LoginPersistsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/Auth/login", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"Token":   "tok-1",
			"UserId":  7,
			"Email":   "driver@example.com",
			"Message": "Welcome back",
		})
	})

	r, out := newTestRunner(t, mux)
	err := r.Run(context.Background(), []string{"login", "driver@example.com", "secret"})
	require.NoError(t, err)
	require.Contains(t, out.String(), "Welcome back")
	require.Contains(t, out.String(), "logged in as driver@example.com")

	cur := r.sess.Current()
	require.Equal(t, "tok-1", cur.Token)
	require.Equal(t, "7", string(cur.UserID))
}

func TestRunner_TasksListsActionableDeliveries(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/Drivers", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"Id": 3, "UserId": 7, "Name": "Sandi"},
		})
	})
	mux.HandleFunc("/Transactions", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"Id": 1, "InvoiceNumber": "INV-1", "DriverId": 3, "Status": "Driver Assigned"},
			{"Id": 2, "InvoiceNumber": "INV-2", "DriverId": 3, "Status": "Completed"},
		})
	})

	r, out := newTestRunner(t, mux)
	require.NoError(t, r.sess.Begin(sessionFor("7")))

	err := r.Run(context.Background(), []string{"tasks"})
	require.NoError(t, err)
	require.Contains(t, out.String(), "new: 1  handover: 1  history: 2")
	require.Contains(t, out.String(), "INV-1")
	require.NotContains(t, out.String(), "INV-2", "completed deliveries are not actionable")
}

func TestRunner_ShipUpdatesStatus(t *testing.T) {
	var gotBody string
	mux := http.NewServeMux()
	mux.HandleFunc("/Transactions", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"Id": 5, "DriverId": 3, "Status": "Driver Assigned"},
		})
	})
	mux.HandleFunc("/Transactions/5/status", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r.Body)
		gotBody = buf.String()
	})

	r, out := newTestRunner(t, mux)
	require.NoError(t, r.sess.Begin(sessionFor("7")))

	err := r.Run(context.Background(), []string{"ship", "5"})
	require.NoError(t, err)
	require.JSONEq(t, `"Shipped"`, gotBody)
	require.Contains(t, out.String(), "transaction 5 is now Shipped")
}

func TestRunner_RequiresLogin(t *testing.T) {
	r, _ := newTestRunner(t, http.NewServeMux())

	err := r.Run(context.Background(), []string{"chat", "10"})
	require.Error(t, err)
}

func TestRunner_UnknownCommand(t *testing.T) {
	r, out := newTestRunner(t, http.NewServeMux())

	err := r.Run(context.Background(), []string{"frobnicate"})
	require.ErrorIs(t, err, errUsage)
	require.Contains(t, out.String(), `unknown command "frobnicate"`)
}

func sessionFor(userID string) domain.Session {
	return domain.Session{Token: "tok", UserID: domain.UserID(userID), DisplayName: "driver"}
}
