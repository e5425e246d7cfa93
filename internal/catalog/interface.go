package catalog

import (
	"context"
	"time"
)

// Recorder is what the chart driver writes rendered artifacts to.
type Recorder interface {
	Record(ctx context.Context, entry *Entry) error
	Close() error
}

// Repository is the storage behind a Recorder.
type Repository interface {
	Insert(ctx context.Context, entry *Entry) (int64, error)
	List(ctx context.Context) ([]Entry, error)
	Close() error
}

// Entry is one rendered chart and the profiles it was built from.
type Entry struct {
	ID        int64
	CreatedAt time.Time
	Path      string
	Kind      string
	Title     string
	Series    int
	Points    int
	Inputs    []Input
}

type Input struct {
	Path        string
	Samples     int
	TotalFaults int64
	CPUTotal    int64
}
