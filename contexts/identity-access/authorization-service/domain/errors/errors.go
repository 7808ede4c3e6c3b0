package errors

import "errors"

var (
	ErrInvalidUserID      = errors.New("invalid user id")
	ErrUnknownOperation   = errors.New("unknown operation")
	ErrUnknownPermission  = errors.New("unknown permission")
	ErrInvalidGroupName   = errors.New("invalid group name")
	ErrGroupNotFound      = errors.New("group not found")
	ErrGroupAlreadyExists = errors.New("group already exists")
	ErrMemberNotFound     = errors.New("member not found")
	ErrForbidden          = errors.New("forbidden")
)
