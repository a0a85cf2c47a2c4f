package enums

// AttachmentUsage tags what an uploaded attachment may be used for.
type AttachmentUsage string

const (
	AttachmentUsageCheckIn AttachmentUsage = "checkin"
	AttachmentUsageAvatar  AttachmentUsage = "avatar"
	AttachmentUsageAlbum   AttachmentUsage = "album"
)

// IsValid reports whether the value is a known AttachmentUsage.
func (u AttachmentUsage) IsValid() bool {
	switch u {
	case AttachmentUsageCheckIn, AttachmentUsageAvatar, AttachmentUsageAlbum:
		return true
	default:
		return false
	}
}
