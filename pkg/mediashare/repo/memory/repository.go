package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/skypixel/mediashare/pkg/mediashare"
)

// Repository implements mediashare.Repository using in-memory storage
type Repository struct {
	mu     sync.RWMutex
	videos map[uuid.UUID]*mediashare.Video
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		videos: make(map[uuid.UUID]*mediashare.Video),
	}
}

func (r *Repository) CreateVideo(ctx context.Context, video *mediashare.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to avoid external modifications
	videoCopy := *video
	r.videos[video.ID] = &videoCopy

	return nil
}

func (r *Repository) GetVideo(ctx context.Context, id uuid.UUID) (*mediashare.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	video, exists := r.videos[id]
	if !exists {
		return nil, mediashare.ErrVideoNotFound
	}

	videoCopy := *video
	return &videoCopy, nil
}

func (r *Repository) ListVideos(ctx context.Context) ([]*mediashare.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*mediashare.Video, 0, len(r.videos))
	for _, video := range r.videos {
		videoCopy := *video
		out = append(out, &videoCopy)
	}

	// Newest first, matching the postgres repository ordering
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

// Count reports the number of stored records. Test helper.
func (r *Repository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.videos)
}
