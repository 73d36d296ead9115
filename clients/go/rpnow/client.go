// Package rpnow provides a client for the rpnow room API. It keeps one
// challenge pair on disk and submits the hash with every message, so edits
// keep working across processes without any account.
package rpnow

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rpnow-go/rpnow/internal/challenge"
	"github.com/rpnow-go/rpnow/internal/models"
	"github.com/rpnow-go/rpnow/internal/rp"
)

// Client is an rpnow API client.
type Client struct {
	BaseURL    string
	ConfigDir  string
	Challenge  challenge.Pair
	HTTPClient *http.Client
}

// NewClient creates a new client. Stored credentials are loaded when present.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	configDir := os.Getenv("RPNOW_CONFIG")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".rpnow")
	}

	c := &Client{
		BaseURL:    baseURL,
		ConfigDir:  configDir,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}

	_ = c.LoadConfig()
	return c
}

// LoadConfig loads the stored challenge pair from disk.
func (c *Client) LoadConfig() error {
	data, err := os.ReadFile(filepath.Join(c.ConfigDir, "challenge.json"))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &c.Challenge)
}

// SaveConfig saves the challenge pair to disk.
func (c *Client) SaveConfig() error {
	if err := os.MkdirAll(c.ConfigDir, 0700); err != nil {
		return err
	}
	data, _ := json.MarshalIndent(c.Challenge, "", "  ")
	return os.WriteFile(filepath.Join(c.ConfigDir, "challenge.json"), data, 0600)
}

// EnsureChallenge generates and persists a challenge pair if none is stored.
// The pair is generated locally; the server only ever sees the hash.
func (c *Client) EnsureChallenge() error {
	if c.Challenge.Secret != "" {
		return nil
	}
	pair, err := challenge.Generate()
	if err != nil {
		return err
	}
	c.Challenge = pair
	return c.SaveConfig()
}

// doRequest performs an HTTP request.
func (c *Client) doRequest(method, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequest(method, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		json.Unmarshal(respBody, &errResp)
		return nil, fmt.Errorf("rpnow error %d: %s: %s", resp.StatusCode, errResp.Error, errResp.Details)
	}

	return respBody, nil
}

// CreateRoomResponse is the response from creating a room.
type CreateRoomResponse struct {
	RPCode string `json:"rpCode"`
	Title  string `json:"title"`
}

// CreateRoom creates a new room and returns its code.
func (c *Client) CreateRoom(title, desc string) (*CreateRoomResponse, error) {
	body, _ := json.Marshal(map[string]string{"title": title, "desc": desc})

	respBody, err := c.doRequest("POST", "/api/rp", body)
	if err != nil {
		return nil, err
	}

	var resp CreateRoomResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetRoom retrieves the full room snapshot.
func (c *Client) GetRoom(code string) (*models.RoomSnapshot, error) {
	respBody, err := c.doRequest("GET", "/api/rp/"+code, nil)
	if err != nil {
		return nil, err
	}

	var snap models.RoomSnapshot
	if err := json.Unmarshal(respBody, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// MessageResponse is the response from posting or editing a message.
type MessageResponse struct {
	Msg    *models.Message `json:"msg"`
	Secret string          `json:"secret,omitempty"`
}

// SendMessage posts a message in the given voice ("narrator", "ooc", or
// "chara" with charaID). Send shortcuts like (( aside )) are applied before
// posting, and the stored challenge hash is attached so the message stays
// editable by this client.
func (c *Client) SendMessage(code, voice, content string, charaID *int64) (*models.Message, error) {
	if err := c.EnsureChallenge(); err != nil {
		return nil, err
	}

	voice, content = rp.ClassifyShortcut(voice, content)
	if voice != models.MsgChara {
		charaID = nil
	}

	body, _ := json.Marshal(map[string]any{
		"content":   content,
		"type":      voice,
		"charaId":   charaID,
		"challenge": c.Challenge.Hash,
	})

	respBody, err := c.doRequest("POST", "/api/rp/"+code+"/message", body)
	if err != nil {
		return nil, err
	}

	var resp MessageResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// SendImage posts an image message by URL. Image posts cannot carry a client
// challenge, so the server-issued secret is returned for the caller to keep.
func (c *Client) SendImage(code, url string) (*models.Message, string, error) {
	body, _ := json.Marshal(map[string]string{"url": url})

	respBody, err := c.doRequest("POST", "/api/rp/"+code+"/image", body)
	if err != nil {
		return nil, "", err
	}

	var resp MessageResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, "", err
	}
	return resp.Msg, resp.Secret, nil
}

// CharaResponse is the response from creating a character.
type CharaResponse struct {
	Chara *models.Chara `json:"chara"`
}

// CreateChara registers a new character in the room.
func (c *Client) CreateChara(code, name, color string) (*models.Chara, error) {
	body, _ := json.Marshal(map[string]string{"name": name, "color": color})

	respBody, err := c.doRequest("POST", "/api/rp/"+code+"/chara", body)
	if err != nil {
		return nil, err
	}

	var resp CharaResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return resp.Chara, nil
}

// EditMessage rewrites the content of a message previously posted with this
// client's challenge.
func (c *Client) EditMessage(code string, id int64, content string) (*models.Message, error) {
	if c.Challenge.Secret == "" {
		return nil, fmt.Errorf("no stored challenge secret")
	}

	body, _ := json.Marshal(map[string]string{
		"content": content,
		"secret":  c.Challenge.Secret,
	})

	respBody, err := c.doRequest("PATCH", fmt.Sprintf("/api/rp/%s/message/%d", code, id), body)
	if err != nil {
		return nil, err
	}

	var resp MessageResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// StatsResponse is the response from the stats endpoint.
type StatsResponse struct {
	Rooms    int64 `json:"rooms"`
	Messages int64 `json:"messages"`
	Charas   int64 `json:"charas"`
}

// Stats retrieves service-wide totals.
func (c *Client) Stats() (*StatsResponse, error) {
	respBody, err := c.doRequest("GET", "/api/stats", nil)
	if err != nil {
		return nil, err
	}

	var resp StatsResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
