package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"campaignboard/models"
	"campaignboard/registry"
	"campaignboard/utils"
)

// APIError is a business failure reported by the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	Data    json.RawMessage `json:"data"`
}

// Client wraps the REST API. Every request carries the session's
// bearer token; a 401 from any endpoint expires the session and fires
// the logout callback. No request is ever retried.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Session *Session

	// OnLogout is called once per forced logout, after the session
	// has been cleared.
	OnLogout func()
}

func New(baseURL string, session *Session) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    http.DefaultClient,
		Session: session,
	}
}

// forceLogout clears the session after an explicit rejection and
// fires the logout callback once.
func (c *Client) forceLogout() error {
	if err := c.Session.Expire(); err != nil {
		return err
	}
	if c.OnLogout != nil {
		c.OnLogout()
	}
	return nil
}

// Verify checks the cached credentials against the server. An
// explicit rejection clears them; an unreachable server leaves the
// cached identity trusted.
func (c *Client) Verify(ctx context.Context) error {
	token, ok := c.Session.markVerifying()
	if !ok {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/auth/me", nil)
	if err != nil {
		c.Session.abortVerify()
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Session.trustCached()
		return nil
	}
	defer resp.Body.Close()

	// A 401 is a rejection no matter what the body looks like; a
	// proxy error page must not be mistaken for an unreachable server.
	if resp.StatusCode == http.StatusUnauthorized {
		return c.forceLogout()
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.Session.trustCached()
		return nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		c.Session.trustCached()
		return nil
	}

	if !env.Success {
		return c.forceLogout()
	}

	var user models.User
	if err := json.Unmarshal(env.Data, &user); err != nil {
		c.Session.trustCached()
		return nil
	}
	return c.Session.markVerified(user)
}

// Login authenticates and installs the returned credentials.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	payload, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/auth/login", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	var user models.User
	if err := json.Unmarshal(env.Data, &user); err != nil {
		return nil, err
	}
	if err := c.Session.SetCredentials(env.Token, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// do runs one authenticated request and decodes the response
// envelope. out may be nil when the caller only cares about success.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.Session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.forceLogout(); err != nil {
			return err
		}
		return &APIError{StatusCode: resp.StatusCode, Message: "session expired"}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return err
	}
	if !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out)
}

// Campaigns returns the campaigns visible to the logged-in user.
func (c *Client) Campaigns(ctx context.Context) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := c.doJSON(ctx, http.MethodGet, "/campaigns", nil, &campaigns)
	return campaigns, err
}

func (c *Client) Campaign(ctx context.Context, id uint) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/campaigns/%d", id), nil, &campaign); err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (c *Client) CreateCampaign(ctx context.Context, payload map[string]interface{}) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := c.doJSON(ctx, http.MethodPost, "/campaigns", payload, &campaign); err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (c *Client) UpdateCampaign(ctx context.Context, id uint, payload map[string]interface{}) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/campaigns/%d", id), payload, &campaign); err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (c *Client) ToggleCampaign(ctx context.Context, id uint) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := c.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/campaigns/%d/toggle", id), nil, &campaign); err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (c *Client) DuplicateCampaign(ctx context.Context, id uint) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/campaigns/%d/duplicate", id), nil, &campaign); err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (c *Client) DeleteCampaign(ctx context.Context, id uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/campaigns/%d", id), nil, nil)
}

func (c *Client) CustomFields(ctx context.Context) ([]models.CustomField, error) {
	var fields []models.CustomField
	err := c.doJSON(ctx, http.MethodGet, "/custom-fields", nil, &fields)
	return fields, err
}

func (c *Client) CreateCustomField(ctx context.Context, field models.CustomField) (*models.CustomField, error) {
	var created models.CustomField
	if err := c.doJSON(ctx, http.MethodPost, "/custom-fields", field, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeleteCustomField(ctx context.Context, id uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/custom-fields/%d", id), nil, nil)
}

// VisibleColumns resolves the current campaign schema and filters it
// down to what the logged-in user may see.
func (c *Client) VisibleColumns(ctx context.Context) ([]registry.Field, error) {
	fields, err := c.CustomFields(ctx)
	if err != nil {
		return nil, err
	}
	schema := registry.ResolveSchema(fields)
	user := c.Session.User()
	if user == nil {
		return schema, nil
	}
	return registry.VisibleColumns(user, schema), nil
}

// RenderRow formats one campaign into display cells, keyed by column,
// using the same rendering rules the dashboard applies.
func RenderRow(columns []registry.Field, campaign *models.Campaign) map[string]string {
	row := make(map[string]string, len(columns))
	for _, col := range columns {
		row[col.Key] = registry.RenderValue(col, campaign)
	}
	return row
}

func (c *Client) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := c.doJSON(ctx, http.MethodGet, "/users", nil, &users)
	return users, err
}

func (c *Client) DeleteUser(ctx context.Context, id uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil)
}

// CampaignAccess is the complete access scope for one viewer. All
// three parts are always sent together.
type CampaignAccess struct {
	CampaignIDs      []uint   `json:"campaignIds"`
	ViewAllCampaigns bool     `json:"viewAllCampaigns"`
	VisibleFields    []string `json:"visibleFields"`
}

func (c *Client) UpdateCampaignAccess(ctx context.Context, userID uint, access CampaignAccess) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/users/%d/campaigns", userID), access, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ShareableLink(ctx context.Context, userID uint) (string, error) {
	var data struct {
		ShareableLink string `json:"shareableLink"`
	}
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/users/%d/shareable-link", userID), nil, &data); err != nil {
		return "", err
	}
	return data.ShareableLink, nil
}

// Content is a campaign's attached creative material as the server
// returns it, embed URL included.
type Content struct {
	ID              uint                `json:"id"`
	CampaignID      uint                `json:"campaignId"`
	YoutubeURL      string              `json:"youtubeUrl"`
	YoutubeEmbedURL string              `json:"youtubeEmbedUrl"`
	FacebookURL     string              `json:"facebookUrl"`
	Description     string              `json:"description"`
	Media           []models.MediaAsset `json:"media"`
}

// EmbedURL derives the YouTube embed link locally, matching the
// server's derivation for offline use.
func (ct *Content) EmbedURL() string {
	return utils.YoutubeEmbedURL(ct.YoutubeURL)
}

// CampaignContent fetches the content for a campaign. A nil result
// with a nil error means no content has been attached yet.
func (c *Client) CampaignContent(ctx context.Context, campaignID uint) (*Content, error) {
	var content Content
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/campaign-content/%d", campaignID), nil, &content); err != nil {
		return nil, err
	}
	if content.ID == 0 && content.CampaignID == 0 {
		return nil, nil
	}
	return &content, nil
}

type ContentLinks struct {
	YoutubeURL  string `json:"youtubeUrl"`
	FacebookURL string `json:"facebookUrl"`
	Description string `json:"description"`
}

func (c *Client) SaveContentLinks(ctx context.Context, campaignID uint, links ContentLinks) (*Content, error) {
	var content Content
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/campaign-content/%d/links", campaignID), links, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// UploadMedia sends local files as one multipart batch along with the
// current link fields. The server treats the batch as all-or-nothing.
func (c *Client) UploadMedia(ctx context.Context, campaignID uint, links ContentLinks, paths []string) (*Content, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	_ = w.WriteField("youtubeUrl", links.YoutubeURL)
	_ = w.WriteField("facebookUrl", links.FacebookURL)
	_ = w.WriteField("description", links.Description)

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		part, err := w.CreateFormFile("media", filepath.Base(path))
		if err != nil {
			f.Close()
			return nil, err
		}
		if _, err := io.Copy(part, f); err != nil {
			f.Close()
			return nil, err
		}
		f.Close()
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var content Content
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/campaign-content/%d", campaignID), &buf, w.FormDataContentType(), &content); err != nil {
		return nil, err
	}
	return &content, nil
}

func (c *Client) DeleteMedia(ctx context.Context, campaignID, mediaID uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/campaign-content/%d/media/%d", campaignID, mediaID), nil, nil)
}
