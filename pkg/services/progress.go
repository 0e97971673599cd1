package services

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ofistakip/ofistakip-engine/pkg/models"
	"github.com/ofistakip/ofistakip-engine/pkg/repositories"
)

// ProjectProgress is the derived progress/status pair for a project.
type ProjectProgress struct {
	Progress int
	Status   string
}

// ComputeProgress derives a project's progress and status from its tasks'
// progress values. Empty task set means progress 0 and status Aktif.
// Otherwise progress is the rounded mean, and status is Tamamlandı at exactly
// 100, Aktif everywhere else. Beklemede is reserved for explicit manager
// action and is never produced here, and any recomputation replaces it: even
// an all-zero task set moves an overridden project back to Aktif.
func ComputeProgress(values []int) ProjectProgress {
	if len(values) == 0 {
		return ProjectProgress{Progress: 0, Status: models.ProjectStatusActive}
	}

	total := 0
	for _, v := range values {
		total += v
	}
	progress := int(math.Round(float64(total) / float64(len(values))))

	status := models.ProjectStatusActive
	if progress == 100 {
		status = models.ProjectStatusCompleted
	}

	return ProjectProgress{Progress: progress, Status: status}
}

// ProgressService recomputes a project's derived progress whenever its task
// set changes. Recomputation for a given project is serialized: the read of
// the task set and the write of the aggregate happen under a per-project
// lock, so concurrent task updates cannot overwrite each other's aggregates
// with stale reads.
type ProgressService interface {
	Recompute(ctx context.Context, projectID uuid.UUID) (ProjectProgress, error)
}

// progressService implements ProgressService.
type progressService struct {
	tasks    repositories.TaskRepository
	projects repositories.ProjectRepository
	logger   *zap.Logger

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewProgressService creates a new progress service.
func NewProgressService(tasks repositories.TaskRepository, projects repositories.ProjectRepository, logger *zap.Logger) ProgressService {
	return &progressService{
		tasks:    tasks,
		projects: projects,
		logger:   logger,
		locks:    make(map[uuid.UUID]*sync.Mutex),
	}
}

// lockFor returns the mutex serializing recomputation for a project.
func (s *progressService) lockFor(projectID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[projectID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[projectID] = lock
	}
	return lock
}

// Recompute reads the project's task set, derives the aggregate, and writes
// it back. Idempotent for an unchanged task set.
func (s *progressService) Recompute(ctx context.Context, projectID uuid.UUID) (ProjectProgress, error) {
	lock := s.lockFor(projectID)
	lock.Lock()
	defer lock.Unlock()

	values, err := s.tasks.GetProgressByProject(ctx, projectID)
	if err != nil {
		return ProjectProgress{}, fmt.Errorf("failed to read task progress: %w", err)
	}

	result := ComputeProgress(values)

	if err := s.projects.UpdateProgress(ctx, projectID, result.Progress, result.Status); err != nil {
		return ProjectProgress{}, fmt.Errorf("failed to write project progress: %w", err)
	}

	s.logger.Debug("Recomputed project progress",
		zap.String("project_id", projectID.String()),
		zap.Int("tasks", len(values)),
		zap.Int("progress", result.Progress),
		zap.String("status", result.Status))

	return result, nil
}
