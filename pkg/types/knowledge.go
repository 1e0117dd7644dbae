// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// KnowledgeDocument is the local mirror of a reference file held by the
// external document store. Only FileName and FileType are always present.
type KnowledgeDocument struct {
	// ID is the store-assigned identifier, when the store reports one.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// FileName is the natural key used by delete operations.
	FileName string `json:"fileName" yaml:"file_name"`

	// FileType is the document type reported by the store (e.g. "pdf").
	FileType string `json:"fileType" yaml:"file_type"`

	// FileSize is the size in bytes, when known.
	FileSize *int64 `json:"fileSize,omitempty" yaml:"file_size,omitempty"`

	// Status is the remote ingestion status (e.g. "processing", "trained").
	Status string `json:"status,omitempty" yaml:"status,omitempty"`

	// UploadedAt is the upload timestamp as reported by the store.
	UploadedAt string `json:"uploadedAt,omitempty" yaml:"uploaded_at,omitempty"`
}
