// Package builder builds, tags and pushes the platform images and keeps their
// conda lock files current.
//
// Images live in directories holding a Dockerfile plus conda-<name>.yml
// environment files. Builds run one at a time in a fixed order because later
// images are built FROM earlier ones already in the local image store.
package builder
