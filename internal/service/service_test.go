package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/api"
)

// planCounter records settlement plan sizes.
type planCounter struct {
	sizes []int
}

func (p *planCounter) ObserveSettlementPlan(n int) { p.sizes = append(p.sizes, n) }

type testServer struct {
	url    string
	broker *events.Broker
	plans  *planCounter
}

// setupTestServer serves both services over a temp SQLite database with the
// same interceptors the server uses.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	broker := events.NewBroker()
	ledgers := NewLedgerCache(time.Minute)
	notifying := storage.WithNotifications(store, events.Multi(ledgers, broker))
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	plans := &planCounter{}

	interceptors := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager, api.PublicProcedures...),
		middleware.LoggingInterceptor(),
	)

	mux := http.NewServeMux()
	mux.Handle(api.NewGroupServiceHandler(NewGroupService(notifying, jwtManager, broker), interceptors))
	mux.Handle(api.NewLedgerServiceHandler(NewLedgerService(notifying, plans, ledgers), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		broker.Close() // ends open WatchGroup streams
		server.Close()
		store.Close()
	})

	return &testServer{url: server.URL, broker: broker, plans: plans}
}

func (s *testServer) groupClient(token string) *api.GroupServiceClient {
	if token == "" {
		return api.NewGroupServiceClient(http.DefaultClient, s.url)
	}
	return api.NewGroupServiceClient(http.DefaultClient, s.url,
		connect.WithInterceptors(middleware.BearerToken(token)))
}

func (s *testServer) ledgerClient(token string) *api.LedgerServiceClient {
	if token == "" {
		return api.NewLedgerServiceClient(http.DefaultClient, s.url)
	}
	return api.NewLedgerServiceClient(http.DefaultClient, s.url,
		connect.WithInterceptors(middleware.BearerToken(token)))
}

// createGroup creates a group with the named participants and returns its
// id, token and participant ids (in the order given).
func (s *testServer) createGroup(t *testing.T, name string, participants ...string) (string, string, []string) {
	t.Helper()
	ctx := context.Background()

	resp, err := s.groupClient("").CreateGroup(ctx, connect.NewRequest(&api.CreateGroupRequest{Name: name}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	groupID, token := resp.Msg.Group.ID, resp.Msg.Token

	client := s.groupClient(token)
	ids := make([]string, len(participants))
	for i, p := range participants {
		added, err := client.AddParticipant(ctx, connect.NewRequest(&api.AddParticipantRequest{GroupID: groupID, Name: p}))
		if err != nil {
			t.Fatalf("AddParticipant(%s) failed: %v", p, err)
		}
		ids[i] = added.Msg.Participant.ID
	}
	return groupID, token, ids
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("code: expected %v, got %v (%v)", want, got, err)
	}
}
