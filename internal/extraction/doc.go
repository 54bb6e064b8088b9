// Package extraction turns screenshot images into raw player identifier
// guesses.
//
// Two interchangeable strategies implement the Strategy interface: a local
// Tesseract-backed OCR engine and a remote vision-model engine. The two trade
// accuracy for cost and availability; the pipeline selects one by
// configuration and can chain to the other without knowing which ran.
package extraction
