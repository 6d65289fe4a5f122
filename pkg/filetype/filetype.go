// Package filetype classifies files by declared media type and name, and
// resolves media types for sources which declare none.
package filetype

import (
	"io"
	"mime"
	"path/filepath"
	"strings"

	// Packages
	mimetype "github.com/gabriel-vasile/mimetype"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

var (
	videoExt = []string{".mp4", ".mov", ".webm", ".avi", ".mkv"}
	imageExt = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}
)

// wellKnownMIME maps extensions which the system MIME database may not know
// about (especially on minimal container images) to their canonical type.
var wellKnownMIME = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".pdf":  "application/pdf",
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// IsVideo reports whether a file is a video: the declared media type has the
// "video" prefix, or the name ends in a known video extension.
func IsVideo(mediaType, name string) bool {
	return strings.HasPrefix(mediaType, "video") || hasExt(name, videoExt)
}

// IsImage reports whether a file is an image: the declared media type has
// the "image" prefix, or the name ends in a known image extension.
func IsImage(mediaType, name string) bool {
	return strings.HasPrefix(mediaType, "image") || hasExt(name, imageExt)
}

// MIMEByExt returns the media type for a file extension, consulting
// wellKnownMIME first and then the system MIME database. Returns an empty
// string when the extension is unknown.
func MIMEByExt(ext string) string {
	ext = strings.ToLower(ext)
	if ct, ok := wellKnownMIME[ext]; ok {
		return ct
	}
	return mime.TypeByExtension(ext)
}

// Detect sniffs the media type from the start of r.
func Detect(r io.Reader) (string, error) {
	m, err := mimetype.DetectReader(r)
	if err != nil {
		return "", err
	}
	return m.String(), nil
}

// Resolve returns declared when it is set, otherwise the type implied by the
// name, otherwise the sniffed type of the content returned by peek. It never
// returns an empty string: unknown content is application/octet-stream.
// A generic octet-stream declaration counts as no declaration, since object
// stores report it for anything stored without a type.
func Resolve(declared, name string, peek func() io.Reader) string {
	if declared != "" && !isGeneric(declared) {
		return declared
	}
	if ct := MIMEByExt(filepath.Ext(name)); ct != "" {
		return ct
	}
	if peek != nil {
		if ct, err := Detect(peek()); err == nil && ct != "" {
			return ct
		}
	}
	return types.ContentTypeBinary
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func isGeneric(mediaType string) bool {
	if mt, _, err := mime.ParseMediaType(mediaType); err == nil {
		mediaType = mt
	}
	switch strings.ToLower(mediaType) {
	case types.ContentTypeBinary, "binary/octet-stream":
		return true
	default:
		return false
	}
}

func hasExt(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
