// Package store keeps the local view of a user's tasks in sync with the
// backend. Mutations are validated locally first, then committed
// remotely, then the cache is refreshed from the server so the local
// view never drifts. Deletion is the one exception: a confirmed remote
// delete removes the task from the cache directly.
package store
