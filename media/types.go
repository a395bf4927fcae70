// media/types.go
package media

type AssetType string

const (
	AssetTypePortrait  AssetType = "portrait"
	AssetTypeThumbnail AssetType = "thumbnail"
	AssetTypeUnknown   AssetType = "unknown"
)
