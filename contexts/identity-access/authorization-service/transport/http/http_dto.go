package httptransport

import "time"

// AuthorizeRequest is the request body for one policy decision.
type AuthorizeRequest struct {
	Operation string `json:"operation"`
}

// AuthorizeResponse describes one policy decision.
type AuthorizeResponse struct {
	UserID     string    `json:"user_id"`
	Operation  string    `json:"operation"`
	Permission string    `json:"permission"`
	Allowed    bool      `json:"allowed"`
	Reason     string    `json:"reason"`
	CheckedAt  time.Time `json:"checked_at"`
}

type GroupDTO struct {
	GroupID     string   `json:"group_id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type ListGroupsResponse struct {
	Groups []GroupDTO `json:"groups"`
}

type CreateGroupRequest struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type SetGroupPermissionsRequest struct {
	Permissions []string `json:"permissions"`
}

type MembershipRequest struct {
	UserID string `json:"user_id"`
}

type ListUserGroupsResponse struct {
	UserID string     `json:"user_id"`
	Groups []GroupDTO `json:"groups"`
}

type ListEffectivePermissionsResponse struct {
	UserID      string   `json:"user_id"`
	Permissions []string `json:"permissions"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
