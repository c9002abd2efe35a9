// ABOUTME: Tests for account operations against the fake API
// ABOUTME: Covers email and password changes, picture upload checks and error text

package account

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paumaneja/mythic-companions-cli/internal/client"
	"github.com/paumaneja/mythic-companions-cli/internal/testserver"
)

func newService(t *testing.T) (*Service, *testserver.Server, *[]*client.UserProfile) {
	t.Helper()
	srv := testserver.New(t)
	token := srv.Token(testserver.Username)
	api := client.New(srv.URL, client.WithTokenSource(client.TokenFunc(func() string { return token })))
	var seen []*client.UserProfile
	svc := NewService(api, func(p *client.UserProfile) { seen = append(seen, p) }, nil)
	return svc, srv, &seen
}

func writeFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o600))
	return path
}

func TestProfile(t *testing.T) {
	svc, _, seen := newService(t)

	p, err := svc.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testserver.Username, p.Username)
	assert.Len(t, *seen, 1)
}

func TestUpdateEmail(t *testing.T) {
	svc, srv, seen := newService(t)

	p, err := svc.UpdateEmail(context.Background(), "  new@example.com ")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", p.Email)

	stored, _ := srv.UserProfile(testserver.Username)
	assert.Equal(t, "new@example.com", stored.Email)
	require.Len(t, *seen, 1)
	assert.Equal(t, "new@example.com", (*seen)[0].Email)
}

func TestUpdateEmail_InvalidMakesNoRequest(t *testing.T) {
	svc, srv, _ := newService(t)

	_, err := svc.UpdateEmail(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrInvalidEmail)
	assert.Zero(t, srv.Calls(http.MethodPut, "/api/users/me"))
}

func TestUploadPicture(t *testing.T) {
	svc, srv, seen := newService(t)
	path := writeFile(t, "avatar.png", 128)

	p, err := svc.UploadPicture(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/avatar.png", p.ProfileImagePath)
	assert.Equal(t, []string{"avatar.png"}, srv.Uploads())
	assert.Len(t, *seen, 1)
}

func TestUploadPicture_RejectsNonImage(t *testing.T) {
	svc, srv, _ := newService(t)
	path := writeFile(t, "notes.txt", 10)

	_, err := svc.UploadPicture(context.Background(), path)
	assert.ErrorIs(t, err, ErrNotPicture)
	assert.Empty(t, srv.Uploads())
}

func TestUploadPicture_RejectsLargeFile(t *testing.T) {
	svc, _, _ := newService(t)
	path := writeFile(t, "huge.jpg", MaxPictureSize+1)

	_, err := svc.UploadPicture(context.Background(), path)
	assert.ErrorIs(t, err, ErrPictureTooLarge)
}

func TestRemovePicture(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.UploadPicture(context.Background(), writeFile(t, "avatar.png", 16))
	require.NoError(t, err)

	p, err := svc.RemovePicture(context.Background())
	require.NoError(t, err)
	assert.Empty(t, p.ProfileImagePath)
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newService(t)

	err := svc.ChangePassword(context.Background(), testserver.Password, "raichu", "raichu")
	assert.NoError(t, err)
}

func TestChangePassword_Mismatch(t *testing.T) {
	svc, srv, _ := newService(t)

	err := svc.ChangePassword(context.Background(), testserver.Password, "raichu", "raichu2")
	assert.ErrorIs(t, err, ErrPasswordMismatch)
	assert.Zero(t, srv.Calls(http.MethodPost, "/api/users/change-password"))
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	svc, _, _ := newService(t)

	err := svc.ChangePassword(context.Background(), "wrong", "raichu", "raichu")
	require.ErrorIs(t, err, client.ErrRejected)
	assert.Equal(t, "Incorrect current password", Failure(err, MsgPasswordFailed))
}

func TestFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"mismatch", ErrPasswordMismatch, MsgPasswordMismatch},
		{"server fallback", &client.APIError{Status: 500}, MsgProfileFailed},
		{"unreachable", &client.NetworkError{BaseURL: "http://x", Err: errors.New("refused")}, "Cannot reach the server. Check your connection and try again."},
		{"unexpected", errors.New("boom"), MsgUnexpected},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Failure(tc.err, MsgProfileFailed))
		})
	}
}

func TestIsPicture(t *testing.T) {
	assert.True(t, IsPicture("a.PNG"))
	assert.True(t, IsPicture("/x/y.jpeg"))
	assert.False(t, IsPicture("a.json"))
	assert.False(t, IsPicture("png"))
}
