// Package gate decides what a route may show for a given session:
// render, redirect, a loading placeholder, or not-found. Policies are
// declared per route; decisions are pure functions of the route policy
// and a session snapshot.
package gate
