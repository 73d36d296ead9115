// Package rp implements the room service: validation, challenge issuance,
// room-code allocation, and the per-room message log and chara registry,
// orchestrated over a store.DataStore. Transport is someone else's job;
// callers get plain records and structured errors back.
package rp

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rpnow-go/rpnow/internal/apperr"
	"github.com/rpnow-go/rpnow/internal/challenge"
	"github.com/rpnow-go/rpnow/internal/config"
	"github.com/rpnow-go/rpnow/internal/models"
	"github.com/rpnow-go/rpnow/internal/rpcode"
	"github.com/rpnow-go/rpnow/internal/store"
	"github.com/rpnow-go/rpnow/internal/validate"
)

// Service coordinates all room operations.
type Service struct {
	limits config.Limits
	store  store.DataStore
	codes  *rpcode.Generator
	http   *http.Client
	locks  *roomLocks
	logger zerolog.Logger

	// allocMu serializes code allocation with the room insert, so two
	// concurrent creates cannot both claim a code between the existence
	// check and the write. It guards only the code index, never room logs.
	allocMu sync.Mutex
}

// NewService creates a Service over the given store.
func NewService(limits config.Limits, st store.DataStore, logger zerolog.Logger) *Service {
	return &Service{
		limits: limits,
		store:  st,
		codes:  rpcode.New(limits.RPCodeLength, limits.RPCodeChars),
		http:   &http.Client{Timeout: 10 * time.Second},
		locks:  newRoomLocks(),
		logger: logger,
	}
}

// CreateRoom validates options, allocates an unused code, and persists the
// new room.
func (s *Service) CreateRoom(ctx context.Context, in validate.RoomOptionsInput) (*models.Room, error) {
	in, err := validate.RoomOptions(in, s.limits)
	if err != nil {
		return nil, err
	}

	s.allocMu.Lock()
	defer s.allocMu.Unlock()

	code, err := s.codes.Generate(ctx, s.store.RoomCodeExists)
	if err != nil {
		s.logger.Error().Err(err).Msg("room code allocation failed")
		return nil, apperr.Internal(err)
	}

	room := &models.Room{
		Code:        code,
		Title:       in.Title,
		Description: in.Description,
		CreatedAt:   time.Now(),
	}
	if err := s.store.CreateRoom(ctx, room); err != nil {
		s.logger.Error().Err(err).Str("rp", code).Msg("room insert failed")
		return nil, apperr.Internal(err)
	}
	return room, nil
}

// GetRoom returns the full snapshot for a room.
func (s *Service) GetRoom(ctx context.Context, code string) (*models.RoomSnapshot, error) {
	if !s.wellFormedCode(code) {
		return nil, apperr.New(apperr.CodeBadRPCode, "malformed room code")
	}

	room, err := s.store.GetRoomByCode(ctx, code)
	if err != nil {
		s.logger.Error().Err(err).Str("rp", code).Msg("room lookup failed")
		return nil, apperr.Internal(err)
	}
	if room == nil {
		return nil, apperr.New(apperr.CodeRPNotFound, "no room with that code")
	}

	charas, err := s.store.ListCharas(ctx, code)
	if err != nil {
		s.logger.Error().Err(err).Str("rp", code).Msg("chara list failed")
		return nil, apperr.Internal(err)
	}
	msgs, err := s.store.ListMessages(ctx, code)
	if err != nil {
		s.logger.Error().Err(err).Str("rp", code).Msg("message list failed")
		return nil, apperr.Internal(err)
	}

	return &models.RoomSnapshot{
		Title:       room.Title,
		Description: room.Description,
		Charas:      charas,
		Msgs:        msgs,
	}, nil
}

// AddMessage validates and appends a narrator/chara/ooc message. When the
// client did not supply its own challenge hash, a fresh pair is issued and
// the plaintext secret is returned exactly once.
func (s *Service) AddMessage(ctx context.Context, code string, in validate.MessageInput, ipid string) (*models.Message, string, error) {
	in, err := validate.Message(in, s.limits)
	if err != nil {
		return nil, "", err
	}
	if err := s.resolveRoom(ctx, code); err != nil {
		return nil, "", err
	}

	// Chara references must point at a registered chara. Charas are never
	// deleted, so checking before the room lock is safe.
	if in.Type == models.MsgChara {
		exists, err := s.store.CharaExists(ctx, code, *in.CharaID)
		if err != nil {
			s.logger.Error().Err(err).Str("rp", code).Msg("chara lookup failed")
			return nil, "", apperr.Internal(err)
		}
		if !exists {
			return nil, "", apperr.New(apperr.CodeCharaNotFound, "no character with id %d", *in.CharaID)
		}
	}

	hash := in.Challenge
	var secret string
	if hash == "" {
		pair, err := challenge.Generate()
		if err != nil {
			s.logger.Error().Err(err).Msg("challenge generation failed")
			return nil, "", apperr.Internal(err)
		}
		hash, secret = pair.Hash, pair.Secret
	}

	msg := &models.Message{
		Type:      in.Type,
		Content:   in.Content,
		CharaID:   in.CharaID,
		IPID:      ipid,
		Challenge: hash,
	}
	if err := s.append(ctx, code, msg); err != nil {
		return nil, "", err
	}
	return msg, secret, nil
}

// AddImage probes the URL with a bounded HEAD request and, if it points at
// an image, appends an image message. The probe runs before the room lock
// is taken so a slow remote host never stalls the log.
func (s *Service) AddImage(ctx context.Context, code, rawURL, ipid string) (*models.Message, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, "", apperr.New(apperr.CodeBadURL, "url must be absolute http(s)")
	}
	if err := s.resolveRoom(ctx, code); err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u.String(), nil)
	if err != nil {
		return nil, "", apperr.New(apperr.CodeBadURL, "url must be absolute http(s)")
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, "", apperr.New(apperr.CodeURLFailed, "could not reach url")
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, "", apperr.New(apperr.CodeURLFailed, "url responded %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		return nil, "", apperr.New(apperr.CodeUnknownContent, "url reported no content type")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", apperr.New(apperr.CodeBadContent, "url is not an image")
	}

	pair, err := challenge.Generate()
	if err != nil {
		s.logger.Error().Err(err).Msg("challenge generation failed")
		return nil, "", apperr.Internal(err)
	}

	msg := &models.Message{
		Type:      models.MsgImage,
		URL:       u.String(),
		IPID:      ipid,
		Challenge: pair.Hash,
	}
	if err := s.append(ctx, code, msg); err != nil {
		return nil, "", err
	}
	return msg, pair.Secret, nil
}

// AddChara validates and registers a new chara in the room.
func (s *Service) AddChara(ctx context.Context, code string, in validate.CharaInput, ipid string) (*models.Chara, error) {
	in, err := validate.Chara(in, s.limits)
	if err != nil {
		return nil, err
	}
	if err := s.resolveRoom(ctx, code); err != nil {
		return nil, err
	}

	chara := &models.Chara{Name: in.Name, Color: in.Color, IPID: ipid}

	unlock := s.locks.lock(code)
	defer unlock()

	if err := s.store.AddChara(ctx, code, chara); err != nil {
		s.logger.Error().Err(err).Str("rp", code).Msg("chara insert failed")
		return nil, apperr.Internal(err)
	}
	return chara, nil
}

// EditMessage applies a point edit after verifying the secret against the
// stored challenge hash. Lookup, verification, and update run under the
// room lock so concurrent edits serialize.
func (s *Service) EditMessage(ctx context.Context, code string, in validate.EditInput) (*models.Message, error) {
	in, err := validate.Edit(in, s.limits)
	if err != nil {
		return nil, err
	}
	if err := s.resolveRoom(ctx, code); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(code)
	defer unlock()

	msg, err := s.store.GetMessage(ctx, code, in.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("rp", code).Msg("message lookup failed")
		return nil, apperr.Internal(err)
	}
	if msg == nil {
		return nil, apperr.New(apperr.CodeBadMsgID, "no message with id %d", in.ID)
	}

	if !challenge.Verify(in.Secret, msg.Challenge) {
		return nil, apperr.New(apperr.CodeBadSecret, "secret does not match")
	}

	now := time.Now().Unix()
	if err := s.store.UpdateMessageContent(ctx, code, in.ID, in.Content, now); err != nil {
		s.logger.Error().Err(err).Str("rp", code).Int64("id", in.ID).Msg("message update failed")
		return nil, apperr.Internal(err)
	}

	msg.Content = in.Content
	msg.Edited = &now
	return msg, nil
}

// CheckRoom reports whether the code addresses an existing room, with the
// same errors GetRoom would produce.
func (s *Service) CheckRoom(ctx context.Context, code string) error {
	return s.resolveRoom(ctx, code)
}

// IssueChallenge generates a fresh secret/hash pair for a client that wants
// to manage its own proof of authorship.
func (s *Service) IssueChallenge() (challenge.Pair, error) {
	pair, err := challenge.Generate()
	if err != nil {
		s.logger.Error().Err(err).Msg("challenge generation failed")
		return challenge.Pair{}, apperr.Internal(err)
	}
	return pair, nil
}

// Stats returns repository-wide totals.
func (s *Service) Stats(ctx context.Context) (rooms, msgs, charas int64, err error) {
	if rooms, err = s.store.CountRooms(ctx); err != nil {
		return 0, 0, 0, apperr.Internal(err)
	}
	if msgs, err = s.store.CountMessages(ctx); err != nil {
		return 0, 0, 0, apperr.Internal(err)
	}
	if charas, err = s.store.CountCharas(ctx); err != nil {
		return 0, 0, 0, apperr.Internal(err)
	}
	return rooms, msgs, charas, nil
}

// append serializes the id-assigning insert per room.
func (s *Service) append(ctx context.Context, code string, msg *models.Message) error {
	unlock := s.locks.lock(code)
	defer unlock()

	if err := s.store.AppendMessage(ctx, code, msg); err != nil {
		s.logger.Error().Err(err).Str("rp", code).Msg("message append failed")
		return apperr.Internal(err)
	}
	return nil
}

// resolveRoom rejects malformed codes and unknown rooms.
func (s *Service) resolveRoom(ctx context.Context, code string) error {
	if !s.wellFormedCode(code) {
		return apperr.New(apperr.CodeBadRPCode, "malformed room code")
	}
	exists, err := s.store.RoomCodeExists(ctx, code)
	if err != nil {
		s.logger.Error().Err(err).Str("rp", code).Msg("room lookup failed")
		return apperr.Internal(err)
	}
	if !exists {
		return apperr.New(apperr.CodeRPNotFound, "no room with that code")
	}
	return nil
}

func (s *Service) wellFormedCode(code string) bool {
	if len(code) != s.limits.RPCodeLength {
		return false
	}
	for _, c := range code {
		if !strings.ContainsRune(s.limits.RPCodeChars, c) {
			return false
		}
	}
	return true
}
