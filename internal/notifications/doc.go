// Package notifications delivers operator push notifications about intake
// progress through ntfy. Components depend on the Service interface; when no
// topic is configured a noop implementation keeps call sites unconditional.
package notifications
