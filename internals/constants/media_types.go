package constants

// Allow-list tipe media untuk lampiran event.
// Tipe di luar daftar ini ditolak saat validasi, sebelum ada mutasi apa pun.
var AllowedAttachmentMediaTypes = map[string]struct{}{
	"image/avif": {},
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"video/mp4":  {},
}

func IsAllowedAttachmentMediaType(mediaType string) bool {
	_, ok := AllowedAttachmentMediaTypes[mediaType]
	return ok
}

// Ekstensi file untuk object key berdasarkan tipe media.
func ExtensionForMediaType(mediaType string) string {
	switch mediaType {
	case "image/avif":
		return ".avif"
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	default:
		return ".bin"
	}
}
