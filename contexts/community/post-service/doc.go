// Package community hosts the post service: posts, comments, and the
// follower feed.
package community
