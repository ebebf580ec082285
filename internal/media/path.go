package media

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// objectMarker separates the bucket prefix from the encoded object name in
// download URLs such as https://host/v0/b/<bucket>/o/<object>?alt=media.
const objectMarker = "/o/"

// ErrMalformedURL is returned when a media reference cannot be turned into an object path.
var ErrMalformedURL = errors.New("malformed media url")

// ObjectPath derives the blob store object path from a media download URL.
// The path is the percent-decoded segment between the first "/o/" and the query string.
func ObjectPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q is not an absolute url", ErrMalformedURL, rawURL)
	}

	// EscapedPath keeps %2F intact so the marker is only matched on real separators.
	_, encoded, found := strings.Cut(u.EscapedPath(), objectMarker)
	if !found {
		return "", fmt.Errorf("%w: no %q segment in %q", ErrMalformedURL, objectMarker, u.EscapedPath())
	}
	if encoded == "" {
		return "", fmt.Errorf("%w: empty object name", ErrMalformedURL)
	}

	p, err := url.PathUnescape(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}
	return p, nil
}
