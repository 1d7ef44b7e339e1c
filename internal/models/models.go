package models

// MaxFileSize is the largest file a pool accepts (10 MiB).
const MaxFileSize = 10 * 1024 * 1024

// PoolName identifies one of the file selection pools of the form
type PoolName string

const (
	PoolDefault    PoolName = "default"
	PoolPerson     PoolName = "person"
	PoolBackground PoolName = "background"
	PoolFrame      PoolName = "frame"
)

// PoolNames lists every pool in display order
var PoolNames = []PoolName{PoolDefault, PoolPerson, PoolBackground, PoolFrame}

// FileEntry represents a user-selected image held in memory
type FileEntry struct {
	Name      string `json:"name" yaml:"name"`
	SizeBytes int64  `json:"size_bytes" yaml:"size_bytes"`
	MimeType  string `json:"mime_type" yaml:"mime_type"`
	Contents  []byte `json:"-" yaml:"-"`
}

// ProgressState is the single visible progress indicator of a run
type ProgressState struct {
	Visible bool   `json:"visible"`
	Percent int    `json:"percent"`
	Message string `json:"message"`
}

// ArtifactMetadata annotates social media artifacts
type ArtifactMetadata struct {
	Dimensions string `json:"dimensions,omitempty" yaml:"dimensions,omitempty"`
	FileSize   string `json:"file_size,omitempty" yaml:"file_size,omitempty"`
}

// Artifact is one displayable/downloadable output image of a run
type Artifact struct {
	OutputPath string            `json:"output_path" yaml:"output_path"`
	Label      string            `json:"label" yaml:"label"`
	Metadata   *ArtifactMetadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	LocalPath  string            `json:"local_path,omitempty" yaml:"local_path,omitempty"`
}

// NoticeLevel mirrors the alert styles shown to the user
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeDanger  NoticeLevel = "danger"
)

// Notice is a transient, dismissable message for the user
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// RemoteImage is one entry of the authenticated user's processed images
type RemoteImage struct {
	ID        int    `json:"id" parquet:"id"`
	Filename  string `json:"filename" parquet:"filename"`
	Type      string `json:"type" parquet:"type"`
	CreatedAt string `json:"created_at" parquet:"created_at"`
}
