package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-containerregistry/pkg/name"

	"github.com/nasa-fornax/fornax-images/pkg/command"
	"github.com/nasa-fornax/fornax-images/pkg/global"
	"github.com/nasa-fornax/fornax-images/pkg/util/console"
)

// Push pushes tag, which must be a full repo:tag reference. The check is
// stricter than "contains a colon": the colon must come after the last
// slash, so localhost:5000/img is rejected, and the reference must parse
// with go-containerregistry, so upper-case repositories are rejected too.
// Nothing runs when the tag is rejected.
func (b *Builder) Push(ctx context.Context, tag string) error {
	if err := validatePushTag(tag); err != nil {
		return err
	}
	console.Infof("Pushing %s ...", tag)
	_, err := b.exec.Run(ctx, command.New(b.engine, "push", tag), command.RunOptions{Timeout: global.PushTimeout, Level: console.InfoLevel})
	if err != nil {
		return fmt.Errorf("failed to push %s: %w", tag, err)
	}
	return nil
}

func validatePushTag(tag string) error {
	// The tag separator is a colon after the last slash; a colon before it
	// belongs to a registry port.
	if !strings.Contains(tag[strings.LastIndex(tag, "/")+1:], ":") {
		return &ValidationError{Field: "tag", Value: tag, Message: "must be of the form repo:tag"}
	}
	if _, err := name.NewTag(tag); err != nil {
		return &ValidationError{Field: "tag", Value: tag, Message: err.Error()}
	}
	return nil
}
