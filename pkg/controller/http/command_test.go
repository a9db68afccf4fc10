package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	httpctrl "github.com/watchman-lab/argus/pkg/controller/http"
	"github.com/watchman-lab/argus/pkg/domain/model"
	"github.com/watchman-lab/argus/pkg/domain/types"
	"github.com/watchman-lab/argus/pkg/repository/memory"
	"github.com/watchman-lab/argus/pkg/service/roblox"
	"github.com/watchman-lab/argus/pkg/usecase"
)

type stubRoster struct {
	users map[string]types.UserID
}

func (s *stubRoster) FetchRoster(ctx context.Context, groupID types.GroupID) (model.Snapshot, error) {
	return model.Snapshot{}, nil
}

func (s *stubRoster) FetchUsername(ctx context.Context, userID types.UserID) string {
	return "User " + userID.String()
}

func (s *stubRoster) ResolveUsername(ctx context.Context, username string) (types.UserID, error) {
	id, ok := s.users[username]
	if !ok {
		return 0, roblox.ErrUserNotFound
	}
	return id, nil
}

type slashReply struct {
	ResponseType string `json:"response_type"`
	Text         string `json:"text"`
}

type commandFixture struct {
	uc      *usecase.UseCases
	handler *httpctrl.SlackCommandHandler
	replies chan slashReply
	respSrv *httptest.Server
}

func newCommandFixture(t *testing.T, users map[string]types.UserID) *commandFixture {
	t.Helper()

	replies := make(chan slashReply, 8)
	respSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload slashReply
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("failed to decode response payload: %v", err)
		}
		replies <- payload
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(respSrv.Close)

	uc := usecase.New(memory.New(), &stubRoster{users: users})
	handler := httpctrl.NewSlackCommandHandler(uc, httpctrl.WithResponseClient(respSrv.Client()))

	return &commandFixture{uc: uc, handler: handler, replies: replies, respSrv: respSrv}
}

// run posts a slash command and returns the delayed reply text
func (f *commandFixture) run(t *testing.T, text string) string {
	t.Helper()
	return f.runReply(t, text).Text
}

func (f *commandFixture) runReply(t *testing.T, text string) slashReply {
	t.Helper()

	form := url.Values{
		"command":      {"/argus"},
		"text":         {text},
		"team_id":      {"T001"},
		"channel_id":   {"C123"},
		"user_id":      {"U100"},
		"response_url": {f.respSrv.URL},
	}

	req := httptest.NewRequest(http.MethodPost, "/hooks/slack/command", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	f.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected ack status %d, got %d", http.StatusOK, rec.Code)
	}

	select {
	case reply := <-f.replies:
		return reply
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for delayed response")
		return slashReply{}
	}
}

func TestCommandSetGroup(t *testing.T) {
	f := newCommandFixture(t, nil)

	reply := f.run(t, "setgroup 12345")
	if !strings.Contains(reply, "12345") {
		t.Errorf("unexpected reply: %s", reply)
	}

	cfg, err := f.uc.Community.Status(context.Background(), "T001")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if cfg.GroupID != 12345 {
		t.Errorf("expected group 12345, got %d", cfg.GroupID)
	}
}

func TestCommandSetGroupInvalid(t *testing.T) {
	f := newCommandFixture(t, nil)

	reply := f.run(t, "setgroup banana")
	if !strings.Contains(reply, "not a valid group ID") {
		t.Errorf("unexpected reply: %s", reply)
	}
}

func TestCommandSetChannel(t *testing.T) {
	f := newCommandFixture(t, nil)

	reply := f.run(t, "setchannel")
	if !strings.Contains(reply, "C123") {
		t.Errorf("unexpected reply: %s", reply)
	}

	cfg, err := f.uc.Community.Status(context.Background(), "T001")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if cfg.ChannelID != "C123" {
		t.Errorf("expected channel C123, got %s", cfg.ChannelID)
	}
}

func TestCommandSniperLifecycle(t *testing.T) {
	f := newCommandFixture(t, map[string]types.UserID{"builderman": 156})

	reply := f.run(t, "sniper add builderman")
	if !strings.Contains(reply, "builderman") {
		t.Errorf("unexpected reply: %s", reply)
	}

	reply = f.run(t, "sniper list")
	if !strings.Contains(reply, "builderman") || !strings.Contains(reply, "U100") {
		t.Errorf("unexpected reply: %s", reply)
	}

	reply = f.run(t, "sniper remove")
	if !strings.Contains(reply, "removed") {
		t.Errorf("unexpected reply: %s", reply)
	}

	reply = f.run(t, "sniper list")
	if !strings.Contains(reply, "No tracked users") {
		t.Errorf("unexpected reply: %s", reply)
	}
}

func TestCommandSniperAddForMention(t *testing.T) {
	f := newCommandFixture(t, map[string]types.UserID{"shedletsky": 261})

	reply := f.run(t, "sniper add <@U900|john> shedletsky")
	if !strings.Contains(reply, "U900") {
		t.Errorf("unexpected reply: %s", reply)
	}

	cfg, err := f.uc.Community.Status(context.Background(), "T001")
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if cfg.Trackers["U900"].UserID != 261 {
		t.Errorf("expected tracker for U900, got %+v", cfg.Trackers)
	}
}

func TestCommandSniperAddUnknown(t *testing.T) {
	f := newCommandFixture(t, nil)

	reply := f.run(t, "sniper add ghost")
	if !strings.Contains(reply, "not found") {
		t.Errorf("unexpected reply: %s", reply)
	}
}

func TestCommandSay(t *testing.T) {
	f := newCommandFixture(t, nil)

	reply := f.runReply(t, "say hello there")
	if reply.Text != "hello there" {
		t.Errorf("unexpected reply text: %s", reply.Text)
	}
	if reply.ResponseType != "in_channel" {
		t.Errorf("expected in_channel response, got %s", reply.ResponseType)
	}

	reply = f.runReply(t, "say")
	if !strings.Contains(reply.Text, "Usage") {
		t.Errorf("unexpected reply text: %s", reply.Text)
	}
	if reply.ResponseType != "ephemeral" {
		t.Errorf("expected ephemeral response, got %s", reply.ResponseType)
	}
}

func TestCommandHelpAndUnknown(t *testing.T) {
	f := newCommandFixture(t, nil)

	reply := f.run(t, "help")
	if !strings.Contains(reply, "setgroup") {
		t.Errorf("unexpected reply: %s", reply)
	}

	reply = f.run(t, "frobnicate")
	if !strings.Contains(reply, "Unknown command") {
		t.Errorf("unexpected reply: %s", reply)
	}
}
