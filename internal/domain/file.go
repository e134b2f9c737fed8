package domain

import "time"

type FileStatus string

const (
	FileReady     FileStatus = "ready"
	FileUploading FileStatus = "uploading"
	FileCompleted FileStatus = "completed"
	FileFailed    FileStatus = "failed"
)

// StagedFile is a PDF the user queued for analysis. Status only moves
// forward (ready → uploading → completed/failed); Progress is meaningful
// while uploading only.
type StagedFile struct {
	ID             string
	Name           string
	MimeType       string
	Size           int64
	TelegramFileID string
	Status         FileStatus
	Progress       int
	StagedAt       time.Time
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "fácil"
	DifficultyMedium Difficulty = "médio"
	DifficultyHard   Difficulty = "difícil"
)

// AnalysisResult is produced exactly once per completed StagedFile and
// removed together with it.
type AnalysisResult struct {
	FileID        string
	Topics        []string
	Difficulty    Difficulty
	ExerciseCount int
	Summary       string
	Suggestions   []string
}
