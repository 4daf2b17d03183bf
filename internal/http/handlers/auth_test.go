package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"preemmachine/internal/domain"
	"preemmachine/internal/middleware"
	"preemmachine/internal/sqlinline"
)

type fakeGoogleVerifier struct {
	claims map[string]any
	err    error
}

func (f *fakeGoogleVerifier) VerifyIDToken(context.Context, string) (map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

// userUpsertSQL answers the google-user upsert with a fixed row.
type userUpsertSQL struct {
	gotArgs []any
}

func (s *userUpsertSQL) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (s *userUpsertSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	if query != sqlinline.QUpsertGoogleUser {
		return simpleRow{scan: func(...any) error { return fmt.Errorf("unexpected query: %s", query) }}
	}
	s.gotArgs = args
	return simpleRow{scan: func(dest ...any) error {
		*(dest[0].(*string)) = "user-1"
		*(dest[1].(*string)) = "Jo Rider"
		*(dest[2].(*string)) = "https://img/jo.png"
		*(dest[3].(*string)) = "contributor"
		return nil
	}}
}

func (s *userUpsertSQL) Query(_ context.Context, query string, _ ...any) (pgx.Rows, error) {
	return nil, fmt.Errorf("unexpected query: %s", query)
}

func TestAuthGoogleVerifyIssuesToken(t *testing.T) {
	sql := &userUpsertSQL{}
	app := &App{
		SQL:       sql,
		Logger:    zerolog.Nop(),
		JWTSecret: "test-secret",
		GoogleVerifier: &fakeGoogleVerifier{claims: map[string]any{
			"sub":     "google-sub-1",
			"email":   "jo@example.com",
			"name":    "Jo Rider",
			"picture": "https://img/jo.png",
		}},
	}

	req := httptest.NewRequest("POST", "/v1/auth/google", strings.NewReader(`{"id_token":"tok"}`))
	rr := httptest.NewRecorder()
	app.AuthGoogleVerify(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body)
	}

	var resp googleVerifyResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.User.ID != "user-1" || resp.User.Email != "jo@example.com" || resp.User.Role != "contributor" {
		t.Fatalf("unexpected user: %+v", resp.User)
	}

	claims, err := middleware.VerifyJWT("test-secret", resp.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Sub != "user-1" || claims.Issuer != "preem-machine" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if len(sql.gotArgs) != 4 || sql.gotArgs[0] != "google-sub-1" || sql.gotArgs[1] != "jo@example.com" {
		t.Fatalf("unexpected upsert args: %#v", sql.gotArgs)
	}
}

func TestAuthGoogleVerifyRejections(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		app := &App{Logger: zerolog.Nop(), GoogleVerifier: &fakeGoogleVerifier{}}
		req := httptest.NewRequest("POST", "/v1/auth/google", strings.NewReader(`{}`))
		rr := httptest.NewRecorder()
		app.AuthGoogleVerify(rr, req)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("invalid google token", func(t *testing.T) {
		app := &App{Logger: zerolog.Nop(), GoogleVerifier: &fakeGoogleVerifier{err: errors.New("bad token")}}
		req := httptest.NewRequest("POST", "/v1/auth/google", strings.NewReader(`{"id_token":"tok"}`))
		rr := httptest.NewRecorder()
		app.AuthGoogleVerify(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rr.Code)
		}
	})
}

type fakeUsers struct {
	users map[string]*domain.User
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func TestMe(t *testing.T) {
	app := &App{
		Logger: zerolog.Nop(),
		Users: &fakeUsers{users: map[string]*domain.User{
			"user-1": {ID: "user-1", Email: "jo@example.com", Name: "Jo Rider", Role: domain.RoleOrganizer},
		}},
	}

	rr := httptest.NewRecorder()
	app.Me(rr, authedRequest("GET", "/v1/me", ""))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body)
	}
	var profile userProfileDTO
	if err := json.NewDecoder(rr.Body).Decode(&profile); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if profile.ID != "user-1" || profile.Role != "organizer" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestMeUnknownUser(t *testing.T) {
	app := &App{Logger: zerolog.Nop(), Users: &fakeUsers{users: map[string]*domain.User{}}}

	rr := httptest.NewRecorder()
	app.Me(rr, authedRequest("GET", "/v1/me", ""))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}

func TestMeRequiresUserContext(t *testing.T) {
	app := &App{Logger: zerolog.Nop()}
	req := httptest.NewRequest("GET", "/v1/me", nil)
	rr := httptest.NewRecorder()
	app.Me(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rr.Code)
	}
}
