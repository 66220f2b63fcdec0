// Package main provides the entry point for plume-cli.
//
// The CLI gives terminal access to a Plume server:
//
//   - Account access (login, register, logout, whoami)
//   - Reading the feed, posts and profiles
//   - Moderation (admin role required)
//   - Session inspection and cross-process credential watching
//
// Usage:
//
//	plume-cli [command] [flags]
//	plume-cli auth login --email you@example.com
//	plume-cli post list --output json
//	plume-cli browse
//
// The CLI supports both single-command mode and an interactive browse
// mode that navigates pages under the same access rules as the app.
package main
