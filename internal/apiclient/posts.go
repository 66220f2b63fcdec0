// Package apiclient provides HTTP communication with the Plume API.
package apiclient

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/plumehq/plume-go/internal/core/domain"
)

// Post is a published post as the list and detail views receive it.
type Post struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	AuthorID     string    `json:"author_id"`
	Author       string    `json:"author"`
	ImageURLs    []string  `json:"image_urls"`
	LikeCount    int       `json:"like_count"`
	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// PostPage is one page of a post listing.
type PostPage struct {
	Items    []Post `json:"items"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// ListPostsOptions filters and paginates a post listing.
type ListPostsOptions struct {
	Page     int
	PageSize int
	Search   string
	AuthorID string
}

// Profile is the public account view shown on profile pages.
type Profile struct {
	User      domain.User `json:"user"`
	PostCount int         `json:"post_count"`
	JoinedAt  time.Time   `json:"joined_at"`
}

// ListPosts fetches one page of posts.
func (c *Client) ListPosts(ctx context.Context, opts ListPostsOptions) (*PostPage, error) {
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
	if opts.AuthorID != "" {
		params.Set("author_id", opts.AuthorID)
	}

	var page PostPage
	if err := c.get(ctx, queryPath("/posts", params), "", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetPost fetches a single post by id.
func (c *Client) GetPost(ctx context.Context, id string) (*Post, error) {
	var post Post
	if err := c.get(ctx, "/posts/"+url.PathEscape(id), "", &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// GetProfile fetches the public profile of a user.
func (c *Client) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	var profile Profile
	if err := c.get(ctx, "/profiles/"+url.PathEscape(userID), "", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}
