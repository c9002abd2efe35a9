// ABOUTME: Endpoint methods for the Mythic Companions API
// ABOUTME: One method per route, all context-aware

package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
)

// Login calls POST /auth/login
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("invalid response from server: missing token")
	}
	return &resp, nil
}

// Register calls POST /auth/register
func (c *Client) Register(ctx context.Context, reg Registration) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/register", reg, nil)
}

// Profile calls GET /api/users/me
func (c *Client) Profile(ctx context.Context) (*UserProfile, error) {
	var profile UserProfile
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateEmail calls PUT /api/users/me
func (c *Client) UpdateEmail(ctx context.Context, email string) (*UserProfile, error) {
	var profile UserProfile
	body := map[string]string{"email": email}
	if err := c.doJSON(ctx, http.MethodPut, "/api/users/me", body, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UploadProfilePicture calls POST /api/users/me/upload-picture with a
// multipart body whose single part is the image
func (c *Client) UploadProfilePicture(ctx context.Context, filename string, r io.Reader) (*UserProfile, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("profileImage", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/users/me/upload-picture", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var profile UserProfile
	if err := c.do(ctx, req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// RemoveProfilePicture calls DELETE /api/users/me/profile-picture
func (c *Client) RemoveProfilePicture(ctx context.Context) (*UserProfile, error) {
	var profile UserProfile
	if err := c.doJSON(ctx, http.MethodDelete, "/api/users/me/profile-picture", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ChangePassword calls POST /api/users/change-password
func (c *Client) ChangePassword(ctx context.Context, change PasswordChange) error {
	return c.doJSON(ctx, http.MethodPost, "/api/users/change-password", change, nil)
}

// CompanionsByOwner calls GET /api/companions/owner/{userId}
func (c *Client) CompanionsByOwner(ctx context.Context, userID string) ([]Companion, error) {
	var companions []Companion
	path := "/api/companions/owner/" + url.PathEscape(userID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &companions); err != nil {
		return nil, err
	}
	return companions, nil
}

// Companion calls GET /api/companions/{id}
func (c *Client) Companion(ctx context.Context, id int64) (*Companion, error) {
	var companion Companion
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/companions/%d", id), nil, &companion); err != nil {
		return nil, err
	}
	return &companion, nil
}

// CreateCompanion calls POST /api/companions
func (c *Client) CreateCompanion(ctx context.Context, req NewCompanion) (*Companion, error) {
	var companion Companion
	if err := c.doJSON(ctx, http.MethodPost, "/api/companions", req, &companion); err != nil {
		return nil, err
	}
	return &companion, nil
}

// DeleteCompanion calls DELETE /api/companions/{id}
func (c *Client) DeleteCompanion(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/companions/%d", id), nil, nil)
}

// Interact calls PUT /api/companions/{id}/interact?action={action}
func (c *Client) Interact(ctx context.Context, id int64, action Interaction) (*Companion, error) {
	var companion Companion
	path := fmt.Sprintf("/api/companions/%d/interact?action=%s", id, url.QueryEscape(string(action)))
	if err := c.doJSON(ctx, http.MethodPut, path, nil, &companion); err != nil {
		return nil, err
	}
	return &companion, nil
}

// Equip calls POST /api/companions/{id}/equip/{inventoryItemId}. Equipping the
// item that is already equipped unequips it.
func (c *Client) Equip(ctx context.Context, companionID, inventoryItemID int64) (*Companion, error) {
	var companion Companion
	path := fmt.Sprintf("/api/companions/%d/equip/%d", companionID, inventoryItemID)
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &companion); err != nil {
		return nil, err
	}
	return &companion, nil
}

// Inventory calls GET /api/inventory
func (c *Client) Inventory(ctx context.Context) ([]InventoryItem, error) {
	var items []InventoryItem
	if err := c.doJSON(ctx, http.MethodGet, "/api/inventory", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// UseItem calls POST /api/inventory/use/{inventoryItemId}
func (c *Client) UseItem(ctx context.Context, inventoryItemID, companionID int64) (*Companion, error) {
	var companion Companion
	body := map[string]int64{"companionId": companionID}
	path := fmt.Sprintf("/api/inventory/use/%d", inventoryItemID)
	if err := c.doJSON(ctx, http.MethodPost, path, body, &companion); err != nil {
		return nil, err
	}
	return &companion, nil
}

// Species calls GET /api/species
func (c *Client) Species(ctx context.Context) ([]Species, error) {
	var species []Species
	if err := c.doJSON(ctx, http.MethodGet, "/api/species", nil, &species); err != nil {
		return nil, err
	}
	return species, nil
}

// QuizQuestions calls GET /api/game/quiz/questions/{companionId}
func (c *Client) QuizQuestions(ctx context.Context, companionID int64) ([]Question, error) {
	var questions []Question
	path := fmt.Sprintf("/api/game/quiz/questions/%d", companionID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// CompleteMinigame calls POST /api/game/complete-minigame
func (c *Client) CompleteMinigame(ctx context.Context, completion GameCompletion) (*GameResult, error) {
	var result GameResult
	if err := c.doJSON(ctx, http.MethodPost, "/api/game/complete-minigame", completion, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
