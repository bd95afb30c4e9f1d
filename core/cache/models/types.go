package models

import (
	"time"
)

// EventType classifies a file system change seen by the watcher.
type EventType int

const (
	EventWrite EventType = iota
	EventCreate
	EventDelete
)

func (et EventType) String() string {
	switch et {
	case EventWrite:
		return "write"
	case EventCreate:
		return "create"
	case EventDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// ContentEntry tracks file content state
type ContentEntry struct {
	FilePath    string    `json:"file_path"`
	ContentHash string    `json:"content_hash"`
	ModTime     time.Time `json:"mod_time"`
	Size        int64     `json:"size"`
	Exists      bool      `json:"exists"`
}

// GenerationInfo tracks which source state a companion file was produced from
type GenerationInfo struct {
	SourcePath  string    `json:"source_path"`
	OutputPath  string    `json:"output_path"`
	SourceHash  string    `json:"source_hash"` // hash when last generated
	ConfigHash  string    `json:"config_hash"` // generate settings when last generated
	GeneratedAt time.Time `json:"generated_at"`
}

// RegenerationPlan lists the source files whose companions must be rewritten
type RegenerationPlan struct {
	ChangedFiles  []string          `json:"changed_files"`  // files whose content actually changed
	AffectedFiles []string          `json:"affected_files"` // files to regenerate
	Reasons       map[string]string `json:"reasons"`        // why each file needs regeneration
}

func NewRegenerationPlan() *RegenerationPlan {
	return &RegenerationPlan{
		ChangedFiles:  []string{},
		AffectedFiles: []string{},
		Reasons:       make(map[string]string),
	}
}

func (p *RegenerationPlan) Add(filePath, reason string) {
	if _, ok := p.Reasons[filePath]; !ok {
		p.AffectedFiles = append(p.AffectedFiles, filePath)
	}
	p.Reasons[filePath] = reason
}

func (p *RegenerationPlan) IsEmpty() bool {
	return len(p.AffectedFiles) == 0
}

// CacheStats provides metrics about cache performance
type CacheStats struct {
	TotalFiles        int       `json:"total_files"`
	CacheHits         int64     `json:"cache_hits"`
	CacheMisses       int64     `json:"cache_misses"`
	HitRate           float64   `json:"hit_rate"`
	GenerationEntries int       `json:"generation_entries"`
	LastUpdate        time.Time `json:"last_update"`
}

// ChangeEvent represents a file system change
type ChangeEvent struct {
	FilePath  string    `json:"file_path"`
	EventType EventType `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}
