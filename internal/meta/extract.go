// Package meta resolves video identity: extracting an id from pasted input
// and looking up a display title for it.
package meta

import "regexp"

var videoURLPattern = regexp.MustCompile(
	`(?:https?://)?(?:www\.)?(?:youtube\.com/(?:watch\?v=|watch/|live/)|youtu\.be/)([a-zA-Z0-9_-]{11})`)

// ExtractVideoID pulls the 11-character video id out of a recognized URL
// form. Input that matches no pattern is returned unchanged and treated as
// a literal id.
func ExtractVideoID(input string) string {
	if m := videoURLPattern.FindStringSubmatch(input); m != nil {
		return m[1]
	}
	return input
}
