// Package notifier announces published events.
//
// Announcing is strictly opt-in and only makes sense after the host has
// reviewed the draft and published it themselves; the automation never
// publishes. The Twitter implementation handles OAuth and message
// formatting, the dry-run implementation prints what would be posted.
package notifier
