package redis

import "strings"

const (
	// KeyManifest holds the current manifest record (JSON)
	KeyManifest = "navmanifest:manifest:current"
	// KeyRevision holds the revision id of the current manifest
	KeyRevision = "navmanifest:manifest:revision"
	// KeySidebars is the list of sidebar names, in declaration order
	KeySidebars = "navmanifest:sidebars:all"
	// KeyPrefixRender is the prefix for rendered manifest cache entries
	KeyPrefixRender = "navmanifest:render:"
)

// RenderKey returns the cache key of a rendered manifest
func RenderKey(revision, format string) string {
	return KeyPrefixRender + revision + ":" + format
}

// ParseRenderKey splits a render cache key into revision and format
func ParseRenderKey(key string) (revision, format string, ok bool) {
	rest, found := strings.CutPrefix(key, KeyPrefixRender)
	if !found {
		return "", "", false
	}
	i := strings.LastIndexByte(rest, ':')
	if i <= 0 || i == len(rest)-1 {
		return "", "", false
	}
	return rest[:i], rest[i+1:], true
}
