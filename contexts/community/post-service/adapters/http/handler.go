package httpadapter

import (
	"context"
	"log/slog"

	"libris/contexts/community/post-service/application"
	"libris/contexts/community/post-service/domain/entities"
	"libris/contexts/community/post-service/ports"
	httptransport "libris/contexts/community/post-service/transport/http"
)

// Handler maps HTTP DTOs to the post application service. The caller id is
// the authenticated user resolved by the request layer.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) ListPostsHandler(ctx context.Context, request httptransport.ListPostsRequest) (httptransport.ListPostsResponse, error) {
	page, err := h.Service.ListPosts(ctx, ports.PostFilter{
		Search:   request.Search,
		Page:     request.Page,
		PageSize: request.PageSize,
	})
	if err != nil {
		return httptransport.ListPostsResponse{}, err
	}
	return listResponse(page), nil
}

func (h Handler) FeedHandler(ctx context.Context, callerID string, request httptransport.ListPostsRequest) (httptransport.ListPostsResponse, error) {
	page, err := h.Service.Feed(ctx, callerID, ports.PostFilter{
		Search:   request.Search,
		Page:     request.Page,
		PageSize: request.PageSize,
	})
	if err != nil {
		return httptransport.ListPostsResponse{}, err
	}
	return listResponse(page), nil
}

func (h Handler) GetPostHandler(ctx context.Context, postID string) (httptransport.PostDTO, error) {
	post, err := h.Service.GetPost(ctx, postID)
	if err != nil {
		return httptransport.PostDTO{}, err
	}
	return postDTO(post), nil
}

func (h Handler) CreatePostHandler(ctx context.Context, callerID string, request httptransport.CreatePostRequest) (httptransport.PostDTO, error) {
	post, err := h.Service.CreatePost(ctx, callerID, ports.CreatePostInput{
		Title:   request.Title,
		Content: request.Content,
	})
	if err != nil {
		return httptransport.PostDTO{}, err
	}
	return postDTO(post), nil
}

func (h Handler) UpdatePostHandler(ctx context.Context, callerID string, postID string, request httptransport.UpdatePostRequest) (httptransport.PostDTO, error) {
	post, err := h.Service.UpdatePost(ctx, callerID, postID, ports.UpdatePostInput{
		Title:   request.Title,
		Content: request.Content,
	})
	if err != nil {
		return httptransport.PostDTO{}, err
	}
	return postDTO(post), nil
}

func (h Handler) DeletePostHandler(ctx context.Context, callerID string, postID string) error {
	return h.Service.DeletePost(ctx, callerID, postID)
}

func (h Handler) ListCommentsHandler(ctx context.Context, postID string) (httptransport.ListCommentsResponse, error) {
	comments, err := h.Service.ListComments(ctx, postID)
	if err != nil {
		return httptransport.ListCommentsResponse{}, err
	}

	items := make([]httptransport.CommentDTO, 0, len(comments))
	for _, comment := range comments {
		items = append(items, commentDTO(comment))
	}
	return httptransport.ListCommentsResponse{Comments: items}, nil
}

func (h Handler) CreateCommentHandler(ctx context.Context, callerID string, postID string, request httptransport.CreateCommentRequest) (httptransport.CommentDTO, error) {
	comment, err := h.Service.AddComment(ctx, callerID, postID, request.Content)
	if err != nil {
		return httptransport.CommentDTO{}, err
	}
	return commentDTO(comment), nil
}

func (h Handler) UpdateCommentHandler(ctx context.Context, callerID string, commentID string, request httptransport.UpdateCommentRequest) (httptransport.CommentDTO, error) {
	comment, err := h.Service.UpdateComment(ctx, callerID, commentID, request.Content)
	if err != nil {
		return httptransport.CommentDTO{}, err
	}
	return commentDTO(comment), nil
}

func (h Handler) DeleteCommentHandler(ctx context.Context, callerID string, commentID string) error {
	return h.Service.DeleteComment(ctx, callerID, commentID)
}

func listResponse(page ports.PostPage) httptransport.ListPostsResponse {
	items := make([]httptransport.PostDTO, 0, len(page.Items))
	for _, post := range page.Items {
		items = append(items, postDTO(post))
	}
	return httptransport.ListPostsResponse{
		Posts:      items,
		TotalCount: page.TotalCount,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}

func postDTO(post entities.Post) httptransport.PostDTO {
	return httptransport.PostDTO{
		PostID:    post.PostID,
		AuthorID:  post.AuthorID,
		Title:     post.Title,
		Content:   post.Content,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

func commentDTO(comment entities.Comment) httptransport.CommentDTO {
	return httptransport.CommentDTO{
		CommentID: comment.CommentID,
		PostID:    comment.PostID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
	}
}
