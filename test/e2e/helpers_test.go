package e2e

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/hyperengineering/selfhelp/internal/api"
	"github.com/hyperengineering/selfhelp/internal/identity"
	"github.com/hyperengineering/selfhelp/internal/store"
	"github.com/hyperengineering/selfhelp/internal/tracker"
	"github.com/hyperengineering/selfhelp/pkg/client"
)

// clock is a settable time source safe for concurrent handlers.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// server is a running API over a file-backed SQLite database.
type server struct {
	url   string
	ids   *identity.Service
	store *store.SQLiteStore
	clock *clock
}

func startServer(t *testing.T, loc *time.Location) *server {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "selfhelp.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	clk := &clock{now: time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)}
	ids := identity.NewService(st, nil)
	svc := tracker.NewService(st, tracker.Options{Location: loc, Now: clk.Now})
	ts := httptest.NewServer(api.NewRouter(api.NewHandler(svc, ids, st, "e2e"), ids))
	t.Cleanup(ts.Close)

	return &server{url: ts.URL, ids: ids, store: st, clock: clk}
}

// newClient registers email and returns a client holding its token.
func (s *server) newClient(t *testing.T, email string) *client.Client {
	t.Helper()
	_, token, err := s.ids.Register(context.Background(), email, "")
	if err != nil {
		t.Fatal(err)
	}
	return client.New(s.url, token)
}
