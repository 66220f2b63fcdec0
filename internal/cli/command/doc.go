// Package command provides CLI command definitions for plume-cli.
//
// Commands are grouped by surface:
//
//   - auth.go: login, register, logout, whoami
//   - post.go: browse and inspect posts
//   - profile.go: author profiles
//   - admin.go: moderation commands, admin role required
//   - session.go: session status and the cross-process watch mode
//   - browse.go: interactive navigation
//
// Every command resolves the persisted session first and passes an
// authorization policy before touching the API.
package command
