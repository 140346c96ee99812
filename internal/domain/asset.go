package domain

// AssetKind enumerates binary asset categories.
type AssetKind string

const (
	AssetKindCover   AssetKind = "cover"
	AssetKindPDF     AssetKind = "pdf"
	AssetKindProfile AssetKind = "profile"
	AssetKindDraft   AssetKind = "draft"
)

// AssetRef points at a stored binary object. The bytes live in the storage
// backend; only the key and metadata are persisted alongside the owning row.
type AssetRef struct {
	Key       string
	MimeType  string
	SizeBytes int64
}
