// Package sections implements persistence for looped video sections and the
// catalog of videos that own them.
//
// The key layout mirrors a flat key-value space: one "videos" key holding
// the catalog, and one key per video id holding that video's section list.
// A video has a catalog entry exactly while its section list is non-empty.
package sections

// CatalogKey is the storage key holding the serialized video catalog.
const CatalogKey = "videos"

// Section is a named sub-interval of a video available for looped replay.
// Times are H:MM:SS timecodes as entered, converted to seconds only when a
// playback config is derived.
type Section struct {
	ID        int    `json:"id"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Note      string `json:"note"`
}

// Video is a catalog entry for a video with at least one saved section.
type Video struct {
	ID    string `json:"videoId"`
	Title string `json:"videoTitle"`
}
