// Package notifications delivers run milestones via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and degrades to a no-op when no topic is set. Pipeline code
// depends only on the small Service interface, so alternative transports slot
// in without touching callers.
package notifications
