// Package imageprep normalizes game screenshots before extraction: PNG to
// JPEG conversion into a temporary location, transparency flattening,
// optional downscaling, and grayscale conversion for OCR.
package imageprep
