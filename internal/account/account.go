// ABOUTME: Profile, picture and password operations for the signed-in user
// ABOUTME: Shared by the profile screen and the profile CLI commands

package account

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/paumaneja/mythic-companions-cli/internal/client"
)

// User facing messages
const (
	MsgProfileLoadFailed = "Could not load your profile."
	MsgProfileUpdated    = "Profile updated successfully!"
	MsgProfileFailed     = "Failed to update profile."
	MsgPictureUploaded   = "Profile picture updated!"
	MsgPictureRemoved    = "Profile picture removed."
	MsgPictureFailed     = "Failed to update profile picture."
	MsgPasswordChanged   = "Password changed successfully!"
	MsgPasswordMismatch  = "The new passwords do not match."
	MsgPasswordFailed    = "Failed to change password."
	MsgUnexpected        = "An unexpected error occurred."
)

// MaxPictureSize is the largest picture the client will upload
const MaxPictureSize = 5 << 20

// PictureExtensions are the file types accepted as profile pictures
var PictureExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".webp"}

var (
	// ErrPasswordMismatch means the new password and its confirmation differ
	ErrPasswordMismatch = errors.New(MsgPasswordMismatch)
	// ErrNotPicture means the chosen file is not an accepted image type
	ErrNotPicture = errors.New("not an image file")
	// ErrPictureTooLarge means the chosen file exceeds MaxPictureSize
	ErrPictureTooLarge = errors.New("picture is too large")
	// ErrInvalidEmail means the email address is malformed
	ErrInvalidEmail = errors.New("enter a valid email address")
)

// API is the subset of the client the account operations need
type API interface {
	Profile(ctx context.Context) (*client.UserProfile, error)
	UpdateEmail(ctx context.Context, email string) (*client.UserProfile, error)
	UploadProfilePicture(ctx context.Context, filename string, r io.Reader) (*client.UserProfile, error)
	RemoveProfilePicture(ctx context.Context) (*client.UserProfile, error)
	ChangePassword(ctx context.Context, change client.PasswordChange) error
}

// Service runs account operations and reports profile changes to onProfile
type Service struct {
	api       API
	onProfile func(*client.UserProfile)
	logger    *slog.Logger
}

// NewService creates a Service. onProfile may be nil; when set it receives
// every profile the server returns, so the session can keep its copy fresh.
func NewService(api API, onProfile func(*client.UserProfile), logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{api: api, onProfile: onProfile, logger: logger.With("component", "account")}
}

func (s *Service) publish(p *client.UserProfile) {
	if s.onProfile != nil && p != nil {
		s.onProfile(p)
	}
}

// Profile fetches the signed-in user's profile
func (s *Service) Profile(ctx context.Context) (*client.UserProfile, error) {
	p, err := s.api.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}
	s.publish(p)
	return p, nil
}

// UpdateEmail changes the account's email address
func (s *Service) UpdateEmail(ctx context.Context, email string) (*client.UserProfile, error) {
	email = strings.TrimSpace(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	p, err := s.api.UpdateEmail(ctx, email)
	if err != nil {
		s.logger.Warn("failed to update email", "error", err)
		return nil, fmt.Errorf("updating email: %w", err)
	}
	s.publish(p)
	return p, nil
}

// UploadPicture sends the image at path as the new profile picture
func (s *Service) UploadPicture(ctx context.Context, path string) (*client.UserProfile, error) {
	if err := CheckPicture(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	p, err := s.api.UploadProfilePicture(ctx, filepath.Base(path), f)
	if err != nil {
		s.logger.Warn("failed to upload picture", "path", path, "error", err)
		return nil, fmt.Errorf("uploading picture: %w", err)
	}
	s.logger.Info("profile picture uploaded", "path", p.ProfileImagePath)
	s.publish(p)
	return p, nil
}

// RemovePicture clears the profile picture
func (s *Service) RemovePicture(ctx context.Context) (*client.UserProfile, error) {
	p, err := s.api.RemoveProfilePicture(ctx)
	if err != nil {
		return nil, fmt.Errorf("removing picture: %w", err)
	}
	s.publish(p)
	return p, nil
}

// ChangePassword checks that next matches confirm and sends the change
func (s *Service) ChangePassword(ctx context.Context, current, next, confirm string) error {
	if next != confirm {
		return ErrPasswordMismatch
	}
	if err := s.api.ChangePassword(ctx, client.PasswordChange{CurrentPassword: current, NewPassword: next}); err != nil {
		return fmt.Errorf("changing password: %w", err)
	}
	s.logger.Info("password changed")
	return nil
}

// CheckPicture validates that path names a readable image within the size limit
func CheckPicture(path string) error {
	if !IsPicture(path) {
		return fmt.Errorf("%w: %s", ErrNotPicture, filepath.Base(path))
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrNotPicture, filepath.Base(path))
	}
	if info.Size() > MaxPictureSize {
		return fmt.Errorf("%w: %s is %d bytes", ErrPictureTooLarge, filepath.Base(path), info.Size())
	}
	return nil
}

// IsPicture reports whether path has an accepted image extension
func IsPicture(path string) bool {
	return slices.Contains(PictureExtensions, strings.ToLower(filepath.Ext(path)))
}

// ValidateEmail does a light shape check on an email address
func ValidateEmail(email string) error {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return ErrInvalidEmail
	}
	return nil
}

// Failure turns an account error into display text, using fallback for
// server errors without a message
func Failure(err error, fallback string) string {
	switch {
	case errors.Is(err, ErrPasswordMismatch):
		return MsgPasswordMismatch
	case errors.Is(err, ErrNotPicture):
		return "Please choose an image file (" + strings.Join(PictureExtensions, ", ") + ")."
	case errors.Is(err, ErrPictureTooLarge):
		return fmt.Sprintf("Pictures must be %d MB or smaller.", MaxPictureSize>>20)
	case errors.Is(err, ErrInvalidEmail):
		return "Please enter a valid email address."
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) || errors.Is(err, client.ErrUnreachable) {
		return client.Describe(err, fallback)
	}
	return MsgUnexpected
}
