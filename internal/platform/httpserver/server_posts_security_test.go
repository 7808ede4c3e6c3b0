package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestPostListRequiresAuthentication(t *testing.T) {
	server := newTestServer()

	if rr := doJSON(server, http.MethodGet, "/api/posts", "", ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestOnlyOwnerMayEditPostOverHTTP(t *testing.T) {
	server := newTestServer()
	_, authorToken := registerTestUser(t, server, "author")
	_, otherToken := registerTestUser(t, server, "other")

	create := doJSON(server, http.MethodPost, "/api/posts", authorToken, `{"title":"hello","content":"first post"}`)
	if create.Code != http.StatusCreated {
		t.Fatalf("expected 201 create, got %d body=%s", create.Code, create.Body.String())
	}
	var post struct {
		PostID string `json:"post_id"`
	}
	if err := json.Unmarshal(create.Body.Bytes(), &post); err != nil {
		t.Fatalf("decode post: %v", err)
	}

	// Any authenticated user may read it.
	if rr := doJSON(server, http.MethodGet, "/api/posts/"+post.PostID, otherToken, ""); rr.Code != http.StatusOK {
		t.Fatalf("expected 200 read, got %d body=%s", rr.Code, rr.Body.String())
	}

	if rr := doJSON(server, http.MethodPatch, "/api/posts/"+post.PostID, otherToken, `{"title":"hijacked"}`); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 edit by non-owner, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := doJSON(server, http.MethodDelete, "/api/posts/"+post.PostID, otherToken, ""); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 delete by non-owner, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := doJSON(server, http.MethodDelete, "/api/posts/"+post.PostID, authorToken, ""); rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 delete by owner, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestCommentRoundTripOverHTTP(t *testing.T) {
	server := newTestServer()
	_, authorToken := registerTestUser(t, server, "poster")
	_, commenterToken := registerTestUser(t, server, "commenter")

	create := doJSON(server, http.MethodPost, "/api/posts", authorToken, `{"title":"open thread","content":"discuss"}`)
	if create.Code != http.StatusCreated {
		t.Fatalf("expected 201 create, got %d body=%s", create.Code, create.Body.String())
	}
	var post struct {
		PostID string `json:"post_id"`
	}
	if err := json.Unmarshal(create.Body.Bytes(), &post); err != nil {
		t.Fatalf("decode post: %v", err)
	}

	comment := doJSON(server, http.MethodPost, "/api/posts/"+post.PostID+"/comments", commenterToken, `{"content":"nice"}`)
	if comment.Code != http.StatusCreated {
		t.Fatalf("expected 201 comment, got %d body=%s", comment.Code, comment.Body.String())
	}
	var commentDTO struct {
		CommentID string `json:"comment_id"`
	}
	if err := json.Unmarshal(comment.Body.Bytes(), &commentDTO); err != nil {
		t.Fatalf("decode comment: %v", err)
	}

	if rr := doJSON(server, http.MethodPatch, "/api/comments/"+commentDTO.CommentID, authorToken, `{"content":"edited"}`); rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 comment edit by non-owner, got %d body=%s", rr.Code, rr.Body.String())
	}

	list := doJSON(server, http.MethodGet, "/api/posts/"+post.PostID+"/comments", authorToken, "")
	if list.Code != http.StatusOK {
		t.Fatalf("expected 200 comments, got %d body=%s", list.Code, list.Body.String())
	}
}

func TestFeedShowsFollowedAuthorsOnly(t *testing.T) {
	server := newTestServer()
	writerID, writerToken := registerTestUser(t, server, "writer")
	_, strangerToken := registerTestUser(t, server, "stranger")
	_, readerToken := registerTestUser(t, server, "reader")

	if rr := doJSON(server, http.MethodPost, "/api/posts", writerToken, `{"title":"followed","content":"seen"}`); rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := doJSON(server, http.MethodPost, "/api/posts", strangerToken, `{"title":"unfollowed","content":"unseen"}`); rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr := doJSON(server, http.MethodPost, "/api/accounts/"+writerID+"/follow", readerToken, ""); rr.Code != http.StatusOK {
		t.Fatalf("expected 200 follow, got %d body=%s", rr.Code, rr.Body.String())
	}

	feed := doJSON(server, http.MethodGet, "/api/feed", readerToken, "")
	if feed.Code != http.StatusOK {
		t.Fatalf("expected 200 feed, got %d body=%s", feed.Code, feed.Body.String())
	}
	var resp struct {
		Posts []struct {
			AuthorID string `json:"author_id"`
		} `json:"posts"`
		TotalCount int `json:"total_count"`
	}
	if err := json.Unmarshal(feed.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode feed: %v", err)
	}
	if resp.TotalCount != 1 || len(resp.Posts) != 1 || resp.Posts[0].AuthorID != writerID {
		t.Fatalf("unexpected feed: %s", feed.Body.String())
	}
}
