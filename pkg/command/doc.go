// Package command runs external programs for the image tooling.
//
// Commands are argv lists handed straight to the operating system; no shell
// ever re-interprets them. A Runner in dry-run mode only logs what it would
// execute.
package command
