// Package validate normalizes and checks the raw inputs accepted by the room
// service. Each schema takes a decoded request body and returns either a
// normalized value or a structured validation error; nothing here has side
// effects.
package validate

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rpnow-go/rpnow/internal/apperr"
	"github.com/rpnow-go/rpnow/internal/challenge"
	"github.com/rpnow-go/rpnow/internal/config"
)

var (
	colorRegex     = regexp.MustCompile(`^#[0-9a-f]{6}$`)
	challengeRegex = regexp.MustCompile(`^[0-9a-f]{128}$`)
)

// RoomOptionsInput is the raw body of a create-room request.
type RoomOptionsInput struct {
	Title       string `json:"title"`
	Description string `json:"desc"`
}

// CharaInput is the raw body of an add-character request.
type CharaInput struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// MessageInput is the raw body of an add-message request. Challenge is the
// optional pre-generated sha-512 hash a client submits when it manages its
// own secret.
type MessageInput struct {
	Content   string `json:"content"`
	Type      string `json:"type"`
	CharaID   *int64 `json:"charaId"`
	Challenge string `json:"challenge"`
}

// EditInput is the raw body of an edit-message request.
type EditInput struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
	Secret  string `json:"secret"`
}

// RoomOptions checks a create-room request against the configured bounds.
func RoomOptions(in RoomOptionsInput, limits config.Limits) (RoomOptionsInput, error) {
	in.Title = sanitize(in.Title)
	in.Description = sanitize(in.Description)

	if err := boundedString("title", in.Title, 1, limits.MaxTitleLength); err != nil {
		return in, apperr.New(apperr.CodeBadRP, "%s", err)
	}
	if err := boundedString("desc", in.Description, 0, limits.MaxDescLength); err != nil {
		return in, apperr.New(apperr.CodeBadRP, "%s", err)
	}
	return in, nil
}

// Chara checks an add-character request.
func Chara(in CharaInput, limits config.Limits) (CharaInput, error) {
	in.Name = sanitize(in.Name)
	in.Color = strings.ToLower(strings.TrimSpace(in.Color))

	if err := boundedString("name", in.Name, 1, limits.MaxCharaNameLength); err != nil {
		return in, apperr.New(apperr.CodeBadChara, "%s", err)
	}
	if !colorRegex.MatchString(in.Color) {
		return in, apperr.New(apperr.CodeBadChara, "color must match #rrggbb")
	}
	return in, nil
}

// Message checks an add-message request. CharaID is required exactly when
// the type is chara; a supplied challenge must be a full sha-512 hex digest.
func Message(in MessageInput, limits config.Limits) (MessageInput, error) {
	if err := boundedString("content", in.Content, 1, limits.MaxMessageContentLength); err != nil {
		return in, apperr.New(apperr.CodeBadMsg, "%s", err)
	}

	switch in.Type {
	case "narrator", "ooc":
		if in.CharaID != nil {
			return in, apperr.New(apperr.CodeBadMsg, "charaId is only valid for chara messages")
		}
	case "chara":
		if in.CharaID == nil {
			return in, apperr.New(apperr.CodeBadMsg, "chara messages require charaId")
		}
		if *in.CharaID < 0 {
			return in, apperr.New(apperr.CodeBadMsg, "charaId must be a non-negative integer")
		}
	default:
		return in, apperr.New(apperr.CodeBadMsg, "type must be narrator, chara, or ooc")
	}

	if in.Challenge != "" && !challengeRegex.MatchString(in.Challenge) {
		return in, apperr.New(apperr.CodeBadMsg, "challenge must be %d hex characters", challenge.HashLen)
	}
	return in, nil
}

// Edit checks an edit-message request.
func Edit(in EditInput, limits config.Limits) (EditInput, error) {
	if in.ID < 0 {
		return in, apperr.New(apperr.CodeBadEdit, "id must be a non-negative integer")
	}
	if err := boundedString("content", in.Content, 1, limits.MaxMessageContentLength); err != nil {
		return in, apperr.New(apperr.CodeBadEdit, "%s", err)
	}
	if err := boundedString("secret", in.Secret, 1, challenge.SecretLen); err != nil {
		return in, apperr.New(apperr.CodeBadEdit, "%s", err)
	}
	return in, nil
}

// fieldError is a plain reason string; the schema wrappers above attach the
// wire code.
type fieldError string

func (e fieldError) Error() string { return string(e) }

func boundedString(field, value string, min, max int) error {
	n := utf8.RuneCountInString(value)
	if n < min {
		return fieldError(field + " is required")
	}
	if n > max {
		return fieldError(field + " is too long")
	}
	return nil
}

// sanitize trims surrounding whitespace and strips control characters.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, s)
}
