package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"
)

func markStaff(server *Server, userID string) {
	server.accounts.Store.MarkStaff(userID)
}

func TestGroupAdminSurfaceRequiresStaff(t *testing.T) {
	server := newTestServer()
	_, token := registerTestUser(t, server, "civilian")

	rr := doJSON(server, http.MethodPost, "/api/authz/groups", token, `{"name":"Archivists","permissions":["can_view"]}`)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := doJSON(server, http.MethodGet, "/api/authz/groups", token, ""); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 list, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestStaffCanManageGroupsAndMembers(t *testing.T) {
	server := newTestServer()
	staffID, staffToken := registerTestUser(t, server, "operator")
	markStaff(server, staffID)
	memberID, memberToken := registerTestUser(t, server, "member")

	create := doJSON(server, http.MethodPost, "/api/authz/groups", staffToken, `{"name":"Archivists","permissions":["can_view"]}`)
	if create.Code != http.StatusCreated {
		t.Fatalf("expected 201 create group, got %d body=%s", create.Code, create.Body.String())
	}
	var group struct {
		GroupID string `json:"group_id"`
	}
	if err := json.Unmarshal(create.Body.Bytes(), &group); err != nil {
		t.Fatalf("decode group: %v", err)
	}

	add := doJSON(server, http.MethodPost, "/api/authz/groups/"+group.GroupID+"/members", staffToken, `{"user_id":"`+memberID+`"}`)
	if add.Code != http.StatusNoContent {
		t.Fatalf("expected 204 add member, got %d body=%s", add.Code, add.Body.String())
	}

	// Membership in a can_view group now authorizes book reads.
	if rr := doJSON(server, http.MethodGet, "/api/books", memberToken, ""); rr.Code != http.StatusOK {
		t.Fatalf("expected 200 books after grant, got %d body=%s", rr.Code, rr.Body.String())
	}

	remove := doJSON(server, http.MethodDelete, "/api/authz/groups/"+group.GroupID+"/members/"+memberID, staffToken, "")
	if remove.Code != http.StatusNoContent {
		t.Fatalf("expected 204 remove member, got %d body=%s", remove.Code, remove.Body.String())
	}
	if rr := doJSON(server, http.MethodGet, "/api/books", memberToken, ""); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 books after revoke, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestUnknownPermissionRejectedAsBadRequest(t *testing.T) {
	server := newTestServer()
	staffID, staffToken := registerTestUser(t, server, "operator2")
	markStaff(server, staffID)

	rr := doJSON(server, http.MethodPost, "/api/authz/groups", staffToken, `{"name":"Broken","permissions":["can_fly"]}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAuthorizeEndpointReportsDenyAsNormalOutcome(t *testing.T) {
	server := newTestServer()
	_, token := registerTestUser(t, server, "checker")

	rr := doJSON(server, http.MethodPost, "/api/authz/authorize", token, `{"operation":"view_books"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Allowed bool   `json:"allowed"`
		Reason  string `json:"reason"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode decision: %v", err)
	}
	if resp.Allowed {
		t.Fatalf("expected deny for groupless user, got %s", rr.Body.String())
	}
}

func TestAuthorizeEndpointRejectsUnknownOperation(t *testing.T) {
	server := newTestServer()
	_, token := registerTestUser(t, server, "checker2")

	rr := doJSON(server, http.MethodPost, "/api/authz/authorize", token, `{"operation":"publish_book"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown operation, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestUserMayInspectOwnPermissionsOnly(t *testing.T) {
	server := newTestServer()
	selfID, selfToken := registerTestUser(t, server, "selfish")
	otherID, _ := registerTestUser(t, server, "otherone")

	if rr := doJSON(server, http.MethodGet, "/api/authz/users/"+selfID+"/permissions", selfToken, ""); rr.Code != http.StatusOK {
		t.Fatalf("expected 200 own permissions, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := doJSON(server, http.MethodGet, "/api/authz/users/"+otherID+"/permissions", selfToken, ""); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 other's permissions, got %d body=%s", rr.Code, rr.Body.String())
	}
}
