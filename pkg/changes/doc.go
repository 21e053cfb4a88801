// Package changes works out which image directories a GitHub Actions event
// touched, so CI only rebuilds those images.
package changes
