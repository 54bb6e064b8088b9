// Package watcher reacts to screenshot files appearing in a monitored
// directory. Events are delivered one at a time; processing of one screenshot
// finishes before the next event is read.
package watcher
