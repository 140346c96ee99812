package repository

import "github.com/novelistan/novelistan-api/internal/domain"

// Asset references flatten into three nullable columns per kind. These
// helpers convert between the columns and the domain struct.

func assetFromColumns(key, mime *string, size *int64) *domain.AssetRef {
	if key == nil || *key == "" {
		return nil
	}
	ref := &domain.AssetRef{Key: *key}
	if mime != nil {
		ref.MimeType = *mime
	}
	if size != nil {
		ref.SizeBytes = *size
	}
	return ref
}

func assetToColumns(ref *domain.AssetRef) (key, mime *string, size *int64) {
	if ref == nil {
		return nil, nil, nil
	}
	return &ref.Key, &ref.MimeType, &ref.SizeBytes
}
