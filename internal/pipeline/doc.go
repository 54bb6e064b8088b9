// Package pipeline owns the per-screenshot control flow: normalize the
// image, run an extraction strategy, parse the identifier, resolve the
// canonical account, and launch the report. At most one fallback attempt is
// made, and the temporary image is removed on every exit path.
package pipeline
