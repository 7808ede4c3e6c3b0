package errors

import "errors"

var (
	ErrInvalidRequest  = errors.New("invalid request")
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotOwner        = errors.New("caller does not own this resource")
)
