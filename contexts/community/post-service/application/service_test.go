package application

import (
	"context"
	"errors"
	"testing"

	"libris/contexts/community/post-service/adapters/memory"
	"libris/contexts/community/post-service/domain/entities"
	domainerrors "libris/contexts/community/post-service/domain/errors"
	"libris/contexts/community/post-service/ports"
)

type staticFollowing map[string][]string

func (f staticFollowing) Following(_ context.Context, userID string) ([]string, error) {
	return f[userID], nil
}

func newTestService(following staticFollowing) Service {
	store := memory.NewStore()
	return Service{Repo: store, Following: following, Clock: store, IDGen: store}
}

func mustCreatePost(t *testing.T, service Service, authorID string, title string) entities.Post {
	t.Helper()
	post, err := service.CreatePost(context.Background(), authorID, ports.CreatePostInput{
		Title:   title,
		Content: "content of " + title,
	})
	if err != nil {
		t.Fatalf("create post %q failed: %v", title, err)
	}
	return post
}

func TestCreatePostValidatesInput(t *testing.T) {
	service := newTestService(nil)

	_, err := service.CreatePost(context.Background(), "alice", ports.CreatePostInput{Title: " ", Content: "body"})
	if !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestOnlyAuthorMayEditOrDeletePost(t *testing.T) {
	service := newTestService(nil)
	post := mustCreatePost(t, service, "alice", "hello")

	_, err := service.UpdatePost(context.Background(), "mallory", post.PostID, ports.UpdatePostInput{Title: "hijacked"})
	if !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner on update, got %v", err)
	}
	if err := service.DeletePost(context.Background(), "mallory", post.PostID); !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner on delete, got %v", err)
	}

	updated, err := service.UpdatePost(context.Background(), "alice", post.PostID, ports.UpdatePostInput{Title: "hello again"})
	if err != nil {
		t.Fatalf("author update failed: %v", err)
	}
	if updated.Title != "hello again" || updated.Content != post.Content {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if err := service.DeletePost(context.Background(), "alice", post.PostID); err != nil {
		t.Fatalf("author delete failed: %v", err)
	}
	if _, err := service.GetPost(context.Background(), post.PostID); !errors.Is(err, domainerrors.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestListPostsNewestFirstWithSearch(t *testing.T) {
	service := newTestService(nil)
	mustCreatePost(t, service, "alice", "gophers at dusk")
	mustCreatePost(t, service, "bob", "morning walk")
	mustCreatePost(t, service, "alice", "gophers at dawn")

	page, err := service.ListPosts(context.Background(), ports.PostFilter{Search: "gophers"})
	if err != nil {
		t.Fatalf("list posts failed: %v", err)
	}
	if page.TotalCount != 2 {
		t.Fatalf("expected 2 matches, got %d", page.TotalCount)
	}

	all, err := service.ListPosts(context.Background(), ports.PostFilter{})
	if err != nil {
		t.Fatalf("list posts failed: %v", err)
	}
	if all.PageSize != 5 {
		t.Fatalf("expected default page size 5, got %d", all.PageSize)
	}
	for i := 1; i < len(all.Items); i++ {
		if all.Items[i].CreatedAt.After(all.Items[i-1].CreatedAt) {
			t.Fatalf("posts not newest-first at index %d", i)
		}
	}
}

func TestListPostsClampsPageSize(t *testing.T) {
	service := newTestService(nil)
	mustCreatePost(t, service, "alice", "solo")

	page, err := service.ListPosts(context.Background(), ports.PostFilter{PageSize: 500})
	if err != nil {
		t.Fatalf("list posts failed: %v", err)
	}
	if page.PageSize != 50 {
		t.Fatalf("expected page size clamped to 50, got %d", page.PageSize)
	}
}

func TestFeedShowsOnlyFollowedAuthors(t *testing.T) {
	service := newTestService(staticFollowing{"carol": {"alice"}})
	mustCreatePost(t, service, "alice", "from alice")
	mustCreatePost(t, service, "bob", "from bob")

	page, err := service.Feed(context.Background(), "carol", ports.PostFilter{})
	if err != nil {
		t.Fatalf("feed failed: %v", err)
	}
	if page.TotalCount != 1 || page.Items[0].AuthorID != "alice" {
		t.Fatalf("unexpected feed contents: %+v", page.Items)
	}
	if page.PageSize != 10 {
		t.Fatalf("expected default feed page size 10, got %d", page.PageSize)
	}
}

func TestFeedEmptyWhenFollowingNobody(t *testing.T) {
	service := newTestService(staticFollowing{})
	mustCreatePost(t, service, "alice", "unseen")

	page, err := service.Feed(context.Background(), "carol", ports.PostFilter{})
	if err != nil {
		t.Fatalf("feed failed: %v", err)
	}
	if page.TotalCount != 0 || len(page.Items) != 0 {
		t.Fatalf("expected empty feed, got %+v", page)
	}
}

func TestCommentsOldestFirstAndOwnerChecked(t *testing.T) {
	service := newTestService(nil)
	post := mustCreatePost(t, service, "alice", "discussion")

	first, err := service.AddComment(context.Background(), "bob", post.PostID, "first")
	if err != nil {
		t.Fatalf("add comment failed: %v", err)
	}
	if _, err := service.AddComment(context.Background(), "carol", post.PostID, "second"); err != nil {
		t.Fatalf("add comment failed: %v", err)
	}

	comments, err := service.ListComments(context.Background(), post.PostID)
	if err != nil {
		t.Fatalf("list comments failed: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(comments))
	}
	if comments[0].Content != "first" {
		t.Fatalf("expected oldest-first ordering, got %q first", comments[0].Content)
	}

	if _, err := service.UpdateComment(context.Background(), "carol", first.CommentID, "edited"); !errors.Is(err, domainerrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	edited, err := service.UpdateComment(context.Background(), "bob", first.CommentID, "edited")
	if err != nil {
		t.Fatalf("owner edit failed: %v", err)
	}
	if edited.Content != "edited" {
		t.Fatalf("unexpected edit result: %+v", edited)
	}
	if err := service.DeleteComment(context.Background(), "bob", first.CommentID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
}

func TestAddCommentRequiresExistingPost(t *testing.T) {
	service := newTestService(nil)

	_, err := service.AddComment(context.Background(), "bob", "missing", "hello")
	if !errors.Is(err, domainerrors.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}
