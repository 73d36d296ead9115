package rpnow

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	c.ConfigDir = t.TempDir()
	c.Challenge.Secret, c.Challenge.Hash = "", ""
	return c
}

func TestEnsureChallengePersists(t *testing.T) {
	dir := t.TempDir()

	c := NewClient("")
	c.ConfigDir = dir
	c.Challenge.Secret, c.Challenge.Hash = "", ""
	if err := c.EnsureChallenge(); err != nil {
		t.Fatal(err)
	}
	if len(c.Challenge.Secret) != 64 || len(c.Challenge.Hash) != 128 {
		t.Fatalf("pair lengths = %d, %d", len(c.Challenge.Secret), len(c.Challenge.Hash))
	}

	fresh := NewClient("")
	fresh.ConfigDir = dir
	if err := fresh.LoadConfig(); err != nil {
		t.Fatal(err)
	}
	if fresh.Challenge != c.Challenge {
		t.Fatal("stored pair did not round-trip")
	}

	// A second call must keep the existing pair
	before := c.Challenge
	if err := c.EnsureChallenge(); err != nil {
		t.Fatal(err)
	}
	if c.Challenge != before {
		t.Fatal("EnsureChallenge replaced an existing pair")
	}
}

func TestSendMessageAppliesShortcutsAndChallenge(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Error(err)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"msg":{"id":0,"type":"ooc","content":"an aside","timestamp":1}}`))
	}))

	msg, err := c.SendMessage("abcd1234", "narrator", "(( an aside ))", nil)
	if err != nil {
		t.Fatal(err)
	}
	if msg.Type != "ooc" {
		t.Fatalf("msg type = %q", msg.Type)
	}

	if got["type"] != "ooc" || got["content"] != "an aside" {
		t.Fatalf("posted body = %v", got)
	}
	if got["challenge"] != c.Challenge.Hash {
		t.Fatal("challenge hash not attached")
	}
}

func TestCharaMessageKeepsCharaID(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"msg":{"id":0,"type":"chara","content":"hi","charaId":3,"timestamp":1}}`))
	}))

	id := int64(3)
	if _, err := c.SendMessage("abcd1234", "chara", "hi", &id); err != nil {
		t.Fatal(err)
	}
	if got["charaId"] != float64(3) {
		t.Fatalf("charaId = %v", got["charaId"])
	}
}

func TestErrorResponsesSurfaceCode(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"RP_NOT_FOUND","details":"no room with that code"}`))
	}))

	_, err := c.GetRoom("zzzzzzzz")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "RP_NOT_FOUND") {
		t.Fatalf("err = %v", err)
	}
}

func TestEditWithoutSecretFailsFast(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made without a stored secret")
	}))

	if _, err := c.EditMessage("abcd1234", 0, "new content"); err == nil {
		t.Fatal("expected error")
	}
}
