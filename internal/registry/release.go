package registry

import "strings"

// Release is the registry metadata for one published release. It is
// immutable once fetched.
type Release struct {
	// TagName is the release tag, e.g. "v0.5.12".
	TagName string `json:"tag_name"`
	// Assets are the downloadable artifacts attached to the release,
	// in registry order.
	Assets []Asset `json:"assets"`
}

// Asset is one platform-specific downloadable artifact.
type Asset struct {
	// Name is the artifact filename, e.g. "mq-x86_64-unknown-linux-gnu".
	Name string `json:"name"`
	// BrowserDownloadURL is where the artifact bytes are served from.
	BrowserDownloadURL string `json:"browser_download_url"`
}

// Version returns the release version with the tag prefix stripped,
// the form used for comparison against an installed binary.
func (r *Release) Version() string {
	return strings.TrimPrefix(r.TagName, "v")
}

// NormalizeTag converts a requested version into canonical tag form by
// prefixing "v" when it is missing. An empty input stays empty (latest).
func NormalizeTag(requested string) string {
	if requested == "" || strings.HasPrefix(requested, "v") {
		return requested
	}

	return "v" + requested
}
