package models

import (
	"math"
	"strconv"
	"time"
)

type UploadStatus string

const (
	StatusPending   UploadStatus = "pending"
	StatusUploading UploadStatus = "uploading"
	StatusCompleted UploadStatus = "completed"
	StatusFinalized UploadStatus = "finalized"
	StatusFailed    UploadStatus = "failed"
)

// Terminal reports whether the upload has been finalized in either form.
func (s UploadStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFinalized
}

// Closed reports whether the upload no longer accepts chunks or a finalize.
func (s UploadStatus) Closed() bool {
	return s.Terminal() || s == StatusFailed
}

// Displayable is the set of statuses a post may reference and still appear in feeds.
func (s UploadStatus) Displayable() bool {
	return s == StatusCompleted || s == StatusPending || s == StatusUploading
}

type UploadType string

const (
	UploadPost      UploadType = "post"
	UploadReel      UploadType = "reel"
	UploadStory     UploadType = "story"
	UploadLongVideo UploadType = "long_video"
)

func (t UploadType) Valid() bool {
	switch t {
	case UploadPost, UploadReel, UploadStory, UploadLongVideo:
		return true
	}
	return false
}

const ProcessingQueued = "queued"

// Chunk records one uploaded part, keyed by ChunkNumber.
type Chunk struct {
	ChunkNumber int       `json:"chunkNumber" bson:"chunkNumber"`
	ETag        string    `json:"etag" bson:"etag"`
	UploadedAt  time.Time `json:"uploadedAt" bson:"uploadedAt"`
}

// Media is one upload unit.
type Media struct {
	ID               string                 `json:"id" bson:"_id"`
	OwnerID          string                 `json:"userId" bson:"userId"`
	Filename         string                 `json:"filename" bson:"filename"`
	MimeType         string                 `json:"mimeType" bson:"mimeType"`
	Size             int64                  `json:"size" bson:"size"`
	IsVideo          bool                   `json:"isVideo" bson:"isVideo"`
	Duration         *float64               `json:"duration,omitempty" bson:"duration,omitempty"`
	Width            *int                   `json:"width,omitempty" bson:"width,omitempty"`
	Height           *int                   `json:"height,omitempty" bson:"height,omitempty"`
	UploadType       UploadType             `json:"uploadType" bson:"uploadType"`
	TotalChunks      int                    `json:"totalChunks" bson:"totalChunks"`
	Chunks           []Chunk                `json:"chunks" bson:"chunks"`
	UploadStatus     UploadStatus           `json:"uploadStatus" bson:"uploadStatus"`
	ProcessingStatus string                 `json:"processingStatus,omitempty" bson:"processingStatus,omitempty"`
	URL              string                 `json:"url,omitempty" bson:"url,omitempty"`
	Caption          string                 `json:"caption,omitempty" bson:"caption,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt        time.Time              `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time              `json:"updatedAt" bson:"updatedAt"`
	UploadedAt       *time.Time             `json:"uploadedAt,omitempty" bson:"uploadedAt,omitempty"`
}

// Progress is the rounded percentage of chunks recorded.
func (m *Media) Progress() int {
	if m.TotalChunks <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(len(m.Chunks)) / float64(m.TotalChunks)))
}

// Summary is the media projection embedded in feed posts.
type Summary struct {
	ID           string       `json:"id" bson:"_id"`
	URL          string       `json:"url,omitempty" bson:"url,omitempty"`
	IsVideo      bool         `json:"isVideo" bson:"isVideo"`
	UploadType   UploadType   `json:"uploadType" bson:"uploadType"`
	Duration     *float64     `json:"duration,omitempty" bson:"duration,omitempty"`
	UploadStatus UploadStatus `json:"uploadStatus" bson:"uploadStatus"`
}

func (m *Media) Summary() Summary {
	return Summary{
		ID:           m.ID,
		URL:          m.URL,
		IsVideo:      m.IsVideo,
		UploadType:   m.UploadType,
		Duration:     m.Duration,
		UploadStatus: m.UploadStatus,
	}
}

// ChunkSize is the fixed size of every upload part except the last.
const ChunkSize int64 = 5 * 1024 * 1024

// TotalChunks is ceil(size/ChunkSize), never below one.
func TotalChunks(size int64) int {
	if size <= 0 {
		return 1
	}
	n := int((size + ChunkSize - 1) / ChunkSize)
	if n < 1 {
		return 1
	}
	return n
}

// AspectRatio is width/height rounded to two decimals, nil unless both are positive.
func AspectRatio(width, height *int) *float64 {
	if width == nil || height == nil || *width <= 0 || *height <= 0 {
		return nil
	}
	r := math.Round(float64(*width)/float64(*height)*100) / 100
	return &r
}

// ChunkKey is where the client PUTs chunk i.
func ChunkKey(mediaID string, i int) string {
	return "uploads/" + mediaID + "/chunk-" + strconv.Itoa(i)
}

// FinalKey is the object key of the assembled upload.
func FinalKey(ownerID, mediaID, filename string) string {
	return "media/" + ownerID + "/" + mediaID + "/" + filename
}

// InitializeUploadRequest opens an upload.
type InitializeUploadRequest struct {
	Filename    string     `json:"filename"`
	Size        int64      `json:"size"`
	MimeType    string     `json:"mimeType"`
	IsVideo     bool       `json:"isVideo"`
	UploadType  UploadType `json:"uploadType"`
	Duration    *float64   `json:"duration,omitempty"`
	Width       *int       `json:"width,omitempty"`
	Height      *int       `json:"height,omitempty"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	Categories  []string   `json:"categories,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

type PresignedURL struct {
	ChunkNumber int    `json:"chunkNumber"`
	URL         string `json:"url"`
}

type InitializeUploadResponse struct {
	MediaID       string         `json:"mediaId"`
	PresignedURLs []PresignedURL `json:"presignedUrls"`
	TotalChunks   int            `json:"totalChunks"`
	ChunkSize     int64          `json:"chunkSize"`
}

type UploadChunkRequest struct {
	MediaID     string `json:"mediaId"`
	ChunkNumber *int   `json:"chunkNumber"`
	ETag        string `json:"etag"`
}

type UploadChunkResponse struct {
	Message        string `json:"message"`
	UploadedChunks int    `json:"uploadedChunks"`
	TotalChunks    int    `json:"totalChunks"`
}

// FinalizeUploadRequest carries the finalize body. Fields other than mediaId, caption and
// uploadType are merged into the media metadata.
type FinalizeUploadRequest struct {
	MediaID    string                 `json:"mediaId"`
	Caption    string                 `json:"caption"`
	UploadType UploadType             `json:"uploadType"`
	Metadata   map[string]interface{} `json:"-"`
}

type FinalizedMedia struct {
	ID     string       `json:"id"`
	URL    string       `json:"url"`
	Type   UploadType   `json:"type"`
	Status UploadStatus `json:"status"`
}

type FinalizeUploadResponse struct {
	Message string         `json:"message"`
	Media   FinalizedMedia `json:"media"`
}

type UploadStatusResponse struct {
	ID               string       `json:"id"`
	UploadStatus     UploadStatus `json:"uploadStatus"`
	ProcessingStatus string       `json:"processingStatus,omitempty"`
	UploadedChunks   int          `json:"uploadedChunks"`
	TotalChunks      int          `json:"totalChunks"`
	Progress         int          `json:"progress"`
}

// FinalizeUpdate is the single conditional write applied at finalize.
type FinalizeUpdate struct {
	URL              string
	Caption          string
	UploadType       UploadType
	Metadata         map[string]interface{}
	ProcessingStatus string
	UploadedAt       time.Time
}
