// Package report hands a resolved account off to the outside world: it
// composes the trials report URL and opens it in the default browser.
package report
