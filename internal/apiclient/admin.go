// Package apiclient provides HTTP communication with the Plume API.
package apiclient

import (
	"context"
	"net/url"
	"strconv"

	"github.com/plumehq/plume-go/internal/core/domain"
)

// UserPage is one page of the admin user listing.
type UserPage struct {
	Items    []domain.User `json:"items"`
	Total    int           `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// ListUsersOptions paginates the admin user listing.
type ListUsersOptions struct {
	Page     int
	PageSize int
	Search   string
}

// ListUsers fetches one page of accounts. Admin only; the server answers
// 403 for anyone else, which surfaces as a forbidden error.
func (c *Client) ListUsers(ctx context.Context, opts ListUsersOptions) (*UserPage, error) {
	params := url.Values{}
	if opts.Page > 0 {
		params.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(opts.PageSize))
	}
	if opts.Search != "" {
		params.Set("search", opts.Search)
	}

	var page UserPage
	if err := c.get(ctx, queryPath("/admin/users", params), "", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SetUserRole changes an account's role. Admin only.
func (c *Client) SetUserRole(ctx context.Context, userID, role string) (*domain.User, error) {
	var user domain.User
	body := struct {
		Role string `json:"role"`
	}{Role: role}
	if err := c.patch(ctx, "/admin/users/"+url.PathEscape(userID), body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account. Admin only.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return c.del(ctx, "/admin/users/"+url.PathEscape(userID))
}

// DeletePost removes a post on behalf of moderation. Admin only.
func (c *Client) DeletePost(ctx context.Context, postID string) error {
	return c.del(ctx, "/admin/posts/"+url.PathEscape(postID))
}
