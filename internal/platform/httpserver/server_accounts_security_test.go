package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestMeRequiresToken(t *testing.T) {
	server := newTestServer()

	if rr := doJSON(server, http.MethodGet, "/api/accounts/me", "", ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := doJSON(server, http.MethodGet, "/api/accounts/me", "bogus-token", ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown token, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	server := newTestServer()
	registerTestUser(t, server, "carol")

	rr := doJSON(server, http.MethodPost, "/api/accounts/login", "", `{"username":"carol","password":"wrong-password"}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRegisterLoginAndProfileRoundTrip(t *testing.T) {
	server := newTestServer()
	userID, token := registerTestUser(t, server, "dave")

	update := doJSON(server, http.MethodPatch, "/api/accounts/me", token, `{"display_name":"Dave","bio":"reader"}`)
	if update.Code != http.StatusOK {
		t.Fatalf("expected 200 update, got %d body=%s", update.Code, update.Body.String())
	}

	profile := doJSON(server, http.MethodGet, "/api/accounts/"+userID, token, "")
	if profile.Code != http.StatusOK {
		t.Fatalf("expected 200 profile, got %d body=%s", profile.Code, profile.Body.String())
	}
	var dto struct {
		DisplayName string `json:"display_name"`
		Bio         string `json:"bio"`
	}
	if err := json.Unmarshal(profile.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if dto.DisplayName != "Dave" || dto.Bio != "reader" {
		t.Fatalf("unexpected profile: %+v", dto)
	}

	login := doJSON(server, http.MethodPost, "/api/accounts/login", "", `{"username":"dave","password":"sw0rdfish-long"}`)
	if login.Code != http.StatusOK {
		t.Fatalf("expected 200 login, got %d body=%s", login.Code, login.Body.String())
	}
}

func TestSelfFollowRejected(t *testing.T) {
	server := newTestServer()
	userID, token := registerTestUser(t, server, "erin")

	rr := doJSON(server, http.MethodPost, "/api/accounts/"+userID+"/follow", token, "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestFollowAndUnfollowCounts(t *testing.T) {
	server := newTestServer()
	_, aliceToken := registerTestUser(t, server, "alice")
	bobID, _ := registerTestUser(t, server, "bob")

	follow := doJSON(server, http.MethodPost, "/api/accounts/"+bobID+"/follow", aliceToken, "")
	if follow.Code != http.StatusOK {
		t.Fatalf("expected 200 follow, got %d body=%s", follow.Code, follow.Body.String())
	}
	var counts struct {
		FollowingCount       int `json:"following_count"`
		TargetFollowersCount int `json:"target_followers_count"`
	}
	if err := json.Unmarshal(follow.Body.Bytes(), &counts); err != nil {
		t.Fatalf("decode follow response: %v", err)
	}
	if counts.FollowingCount != 1 || counts.TargetFollowersCount != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}

	unfollow := doJSON(server, http.MethodDelete, "/api/accounts/"+bobID+"/follow", aliceToken, "")
	if unfollow.Code != http.StatusOK {
		t.Fatalf("expected 200 unfollow, got %d body=%s", unfollow.Code, unfollow.Body.String())
	}
}
