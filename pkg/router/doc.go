// Package router maps rule decisions onto the durable queues and the
// deletion schedule.
package router
