// Package share builds shareable links for saved sections.
package share

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/kikiluvv/favorepeat/internal/sections"
	"github.com/kikiluvv/favorepeat/pkg/util"
)

// Link returns a youtu.be URL that starts playback at the section's start.
func Link(videoID string, sec sections.Section) (string, error) {
	start, err := util.ParseTimecode(sec.StartTime)
	if err != nil {
		return "", fmt.Errorf("section start: %w", err)
	}
	if start == 0 {
		return "https://youtu.be/" + videoID, nil
	}
	return fmt.Sprintf("https://youtu.be/%s?t=%d", videoID, start), nil
}

// CopyLink writes the section's link to the system clipboard.
func CopyLink(videoID string, sec sections.Section) (string, error) {
	link, err := Link(videoID, sec)
	if err != nil {
		return "", err
	}
	if err := clipboard.WriteAll(link); err != nil {
		return "", fmt.Errorf("copy to clipboard: %w", err)
	}
	return link, nil
}
