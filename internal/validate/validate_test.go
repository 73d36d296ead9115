package validate

import (
	"strings"
	"testing"

	"github.com/rpnow-go/rpnow/internal/apperr"
	"github.com/rpnow-go/rpnow/internal/config"
)

var limits = config.Limits{
	MaxTitleLength:          30,
	MaxDescLength:           255,
	MaxCharaNameLength:      30,
	MaxMessageContentLength: 10000,
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", code)
	}
	if got := apperr.CodeOf(err); got != code {
		t.Fatalf("expected %s, got %s (%v)", code, got, err)
	}
}

func TestRoomOptions(t *testing.T) {
	out, err := RoomOptions(RoomOptionsInput{Title: "  The Long Night  "}, limits)
	if err != nil {
		t.Fatal(err)
	}
	if out.Title != "The Long Night" {
		t.Fatalf("title not trimmed: %q", out.Title)
	}

	_, err = RoomOptions(RoomOptionsInput{Title: ""}, limits)
	wantCode(t, err, apperr.CodeBadRP)

	_, err = RoomOptions(RoomOptionsInput{Title: strings.Repeat("x", 31)}, limits)
	wantCode(t, err, apperr.CodeBadRP)

	_, err = RoomOptions(RoomOptionsInput{Title: "ok", Description: strings.Repeat("d", 256)}, limits)
	wantCode(t, err, apperr.CodeBadRP)

	// Description is optional
	if _, err := RoomOptions(RoomOptionsInput{Title: "ok"}, limits); err != nil {
		t.Fatalf("empty desc should be valid: %v", err)
	}
}

func TestChara(t *testing.T) {
	out, err := Chara(CharaInput{Name: "Mira", Color: "#80C9FF"}, limits)
	if err != nil {
		t.Fatal(err)
	}
	if out.Color != "#80c9ff" {
		t.Fatalf("color not normalized: %q", out.Color)
	}

	cases := []CharaInput{
		{Name: "", Color: "#80c9ff"},
		{Name: strings.Repeat("n", 31), Color: "#80c9ff"},
		{Name: "Mira", Color: "80c9ff"},
		{Name: "Mira", Color: "#80c9f"},
		{Name: "Mira", Color: "#80c9fg"},
		{Name: "Mira", Color: ""},
	}
	for _, in := range cases {
		_, err := Chara(in, limits)
		wantCode(t, err, apperr.CodeBadChara)
	}
}

func TestMessage(t *testing.T) {
	id := int64(0)
	neg := int64(-1)

	valid := []MessageInput{
		{Content: "Hello", Type: "narrator"},
		{Content: "Hello", Type: "ooc"},
		{Content: "Hello", Type: "chara", CharaID: &id},
		{Content: "Hello", Type: "narrator", Challenge: strings.Repeat("ab", 64)},
	}
	for i, in := range valid {
		if _, err := Message(in, limits); err != nil {
			t.Fatalf("case %d should be valid: %v", i, err)
		}
	}

	invalid := []MessageInput{
		{Content: "", Type: "narrator"},
		{Content: strings.Repeat("x", 10001), Type: "narrator"},
		{Content: "Hello", Type: "image"},
		{Content: "Hello", Type: "shout"},
		{Content: "Hello", Type: "chara"},                // missing charaId
		{Content: "Hello", Type: "chara", CharaID: &neg}, // negative charaId
		{Content: "Hello", Type: "narrator", CharaID: &id},
		{Content: "Hello", Type: "narrator", Challenge: "abc"},
		{Content: "Hello", Type: "narrator", Challenge: strings.Repeat("Z", 128)},
	}
	for _, in := range invalid {
		_, err := Message(in, limits)
		wantCode(t, err, apperr.CodeBadMsg)
	}
}

func TestEdit(t *testing.T) {
	if _, err := Edit(EditInput{ID: 3, Content: "fixed", Secret: "s3cret"}, limits); err != nil {
		t.Fatal(err)
	}

	invalid := []EditInput{
		{ID: -1, Content: "fixed", Secret: "s"},
		{ID: 0, Content: "", Secret: "s"},
		{ID: 0, Content: strings.Repeat("x", 10001), Secret: "s"},
		{ID: 0, Content: "fixed", Secret: ""},
		{ID: 0, Content: "fixed", Secret: strings.Repeat("s", 65)},
	}
	for _, in := range invalid {
		_, err := Edit(in, limits)
		wantCode(t, err, apperr.CodeBadEdit)
	}
}
