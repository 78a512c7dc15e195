package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/nathoo/templecore/config"
	"github.com/nathoo/templecore/engine/state"
	"github.com/nathoo/templecore/types"
)

func testDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{Title: "Test Temple", Start: "gate"},
		Rooms: map[string]types.RoomDef{
			"gate":      {ID: "gate", Name: "Temple Gate", Description: "Bronze.", Exits: map[string]string{"north": "courtyard", "east": "arena"}},
			"courtyard": {ID: "courtyard", Name: "Courtyard", Description: "Quiet.", Exits: map[string]string{"south": "gate"}},
			"arena":     {ID: "arena", Name: "Arena", Description: "Sand.", Exits: map[string]string{"west": "gate"}},
		},
		NPCs: map[string]types.NPCDef{},
		Creatures: []types.CreatureDef{
			{Type: "dummy", Name: "Straw Dummy", HP: 1, Damage: 1, XPReward: 150},
		},
		Encounters: []types.EncounterDef{
			{ID: "enc_arena", Room: "arena", Creatures: []string{"dummy"}, Frequency: 1, MinLevel: 1, MaxLevel: 1, Unique: true},
		},
	}
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.SaveDir = ""
	cfg.Server.IdleTimeout = 0
	return cfg
}

// frame is an Envelope as seen by a client.
type frame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	Session string          `json:"session"`
}

func (f frame) text() string {
	var t types.TextOutput
	json.Unmarshal(f.Payload, &t)
	return t.Text
}

func startServer(t *testing.T, s *Server) string {
	t.Helper()
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg ClientMessage) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// readUntil reads frames until match returns true and returns everything
// read, the matching frame last.
func readUntil(t *testing.T, conn *websocket.Conn, match func(frame) bool) []frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var got []frame
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("read after %d frames: %v", len(got), err)
		}
		got = append(got, f)
		if match(f) {
			return got
		}
	}
}

func ofType(kind types.NotificationKind) func(frame) bool {
	return func(f frame) bool { return f.Type == string(kind) }
}

// login joins as name and consumes the intro.
func login(t *testing.T, url, name string) (*websocket.Conn, Welcome) {
	t.Helper()
	conn := dial(t, url)
	send(t, conn, ClientMessage{Type: MsgLogin, Name: name})

	frames := readUntil(t, conn, ofType(KindWelcome))
	var w Welcome
	if err := json.Unmarshal(frames[len(frames)-1].Payload, &w); err != nil {
		t.Fatal(err)
	}
	readUntil(t, conn, ofType(types.KindCharacterUpdate))
	return conn, w
}

func containsText(frames []frame, substr string) bool {
	for _, f := range frames {
		if f.Type == string(types.KindText) && strings.Contains(f.text(), substr) {
			return true
		}
	}
	return false
}

func TestServer_LoginAndCommand(t *testing.T) {
	url := startServer(t, New(testDefs(), testConfig()))
	conn, w := login(t, url, "Eli")

	if w.Name != "Eli" || w.Game != "Test Temple" || w.Session == "" || w.Resumed {
		t.Errorf("welcome = %+v", w)
	}

	send(t, conn, ClientMessage{Type: MsgCommand, Text: "north"})
	frames := readUntil(t, conn, ofType(types.KindCharacterUpdate))
	if !containsText(frames, "Courtyard") {
		t.Errorf("expected the courtyard, got %+v", frames)
	}

	var sheet types.CharacterUpdate
	json.Unmarshal(frames[len(frames)-1].Payload, &sheet)
	if sheet.Location != "courtyard" {
		t.Errorf("location = %q", sheet.Location)
	}
}

func TestServer_CommandsRunInOrder(t *testing.T) {
	url := startServer(t, New(testDefs(), testConfig()))
	conn, _ := login(t, url, "Eli")

	for _, cmd := range []string{"north", "south", "north"} {
		send(t, conn, ClientMessage{Type: MsgCommand, Text: cmd})
	}
	var locations []string
	for i := 0; i < 3; i++ {
		frames := readUntil(t, conn, ofType(types.KindCharacterUpdate))
		var sheet types.CharacterUpdate
		json.Unmarshal(frames[len(frames)-1].Payload, &sheet)
		locations = append(locations, sheet.Location)
	}
	want := []string{"courtyard", "gate", "courtyard"}
	for i := range want {
		if locations[i] != want[i] {
			t.Fatalf("locations = %v, want %v", locations, want)
		}
	}
}

func TestServer_LoginErrors(t *testing.T) {
	s := New(testDefs(), testConfig())
	url := startServer(t, s)
	login(t, url, "Eli")

	tests := []struct {
		name string
		msg  ClientMessage
		want string
	}{
		{"command before login", ClientMessage{Type: MsgCommand, Text: "look"}, "must be a login"},
		{"bad name", ClientMessage{Type: MsgLogin, Name: "no spaces allowed"}, "names must be"},
		{"name in use", ClientMessage{Type: MsgLogin, Name: "Eli"}, ErrNameInUse.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := dial(t, url)
			send(t, conn, tt.msg)
			frames := readUntil(t, conn, ofType(KindError))
			var p ErrorPayload
			json.Unmarshal(frames[len(frames)-1].Payload, &p)
			if !strings.Contains(p.Message, tt.want) {
				t.Errorf("error = %q, want %q", p.Message, tt.want)
			}
		})
	}
}

func TestServer_AnnouncementsReachEveryone(t *testing.T) {
	s := New(testDefs(), testConfig())
	url := startServer(t, s)
	hero, _ := login(t, url, "Eli")
	watcher, _ := login(t, url, "Ruth")

	send(t, hero, ClientMessage{Type: MsgCommand, Text: "east"})
	readUntil(t, hero, ofType(types.KindCharacterUpdate))
	send(t, hero, ClientMessage{Type: MsgCommand, Text: "attack"})

	var texts []string
	for i := 0; i < 2; i++ {
		frames := readUntil(t, watcher, ofType(types.KindAnnouncement))
		var a types.Announcement
		json.Unmarshal(frames[len(frames)-1].Payload, &a)
		texts = append(texts, a.Text)
	}
	joined := strings.Join(texts, "|")
	if !strings.Contains(joined, "Eli has defeated Straw Dummy!") || !strings.Contains(joined, "Eli has reached level 2!") {
		t.Errorf("announcements = %v", texts)
	}

	if s.Encounters.Active("enc_arena") {
		t.Error("unique encounter should be retired for every player")
	}
}

func TestServer_IdleTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Server.IdleTimeout = 100 * time.Millisecond
	url := startServer(t, New(testDefs(), cfg))
	conn, _ := login(t, url, "Eli")

	frames := readUntil(t, conn, ofType(types.KindText))
	if !strings.Contains(frames[len(frames)-1].text(), "idle too long") {
		t.Errorf("expected idle farewell, got %+v", frames)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected the connection to close")
	}
}

func TestServer_SaveAndResume(t *testing.T) {
	cfg := testConfig()
	cfg.SaveDir = t.TempDir()
	s := New(testDefs(), cfg)
	url := startServer(t, s)

	conn, _ := login(t, url, "Eli")
	send(t, conn, ClientMessage{Type: MsgCommand, Text: "north"})
	readUntil(t, conn, ofType(types.KindCharacterUpdate))
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	conn.Close()

	saved := filepath.Join(cfg.SaveDir, "Eli.json")
	deadline := time.Now().Add(5 * time.Second)
	for s.Hub.Count() > 0 || !fileExists(saved) {
		if time.Now().After(deadline) {
			t.Fatal("player was not saved")
		}
		time.Sleep(10 * time.Millisecond)
	}

	conn, w := login(t, url, "Eli")
	if !w.Resumed {
		t.Error("expected a resumed session")
	}
	send(t, conn, ClientMessage{Type: MsgCommand, Text: "look"})
	frames := readUntil(t, conn, ofType(types.KindCharacterUpdate))
	if !containsText(frames, "Courtyard") {
		t.Errorf("expected to resume in the courtyard, got %+v", frames)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestServer_Health(t *testing.T) {
	s := New(testDefs(), testConfig())
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Status  string   `json:"status"`
		Game    string   `json:"game"`
		Players []string `json:"players"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Status != "ok" || body.Game != "Test Temple" || len(body.Players) != 0 {
		t.Errorf("body = %+v", body)
	}
}

func TestPlayerSeed_Stable(t *testing.T) {
	if playerSeed(1, "Eli") != playerSeed(1, "Eli") {
		t.Error("seed should be stable per name")
	}
	if playerSeed(1, "Eli") == playerSeed(1, "Ruth") {
		t.Error("different players should get different seeds")
	}
}
