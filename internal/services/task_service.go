package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/mtakagi/discussion-board-api/internal/authz"
	"github.com/mtakagi/discussion-board-api/internal/models"
	"github.com/mtakagi/discussion-board-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTaskForbidden   = errors.New("not authorized for this task")
	ErrTaskTitleEmpty  = errors.New("title cannot be empty")
	ErrWorkerNotMember = errors.New("worker must be a topic member")
)

// TaskService handles the task ledger and the assignment fan-out.
type TaskService struct {
	taskRepo  repository.TaskRepository
	topicRepo repository.TopicRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, topicRepo repository.TopicRepository) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		topicRepo: topicRepo,
	}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	TopicID     uint64
	Title       string
	Description string
	WorkerID    *uint64
	StartTime   *time.Time
	EndTime     *time.Time
}

// CreateTask creates a task in a topic. Requires owner/admin membership or
// superuser; a given worker must currently be a member of the topic.
func (s *TaskService) CreateTask(actor models.User, input CreateTaskInput) (*models.Task, error) {
	if input.Title == "" {
		return nil, ErrTaskTitleEmpty
	}

	if _, err := s.topicRepo.FindByID(input.TopicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("failed to find topic: %w", err)
	}

	role, err := s.roleOf(input.TopicID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !authz.Allows(actor.IsSuperuser(), role, authz.OpTaskManage) {
		return nil, ErrTaskForbidden
	}

	if input.WorkerID != nil {
		if err := s.ensureTopicMember(input.TopicID, *input.WorkerID); err != nil {
			return nil, err
		}
	}

	task := &models.Task{
		TopicID:     input.TopicID,
		Title:       input.Title,
		Description: input.Description,
		WorkerID:    input.WorkerID,
		CreatedByID: actor.ID,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Status:      models.TaskStatusPending,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Worker", "Topic")
}

// ListMyTasks returns the tasks assigned to the actor.
func (s *TaskService) ListMyTasks(actor models.User) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByWorker(actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListTopicTasks returns all tasks of a topic.
func (s *TaskService) ListTopicTasks(topicID uint64) ([]models.Task, error) {
	if _, err := s.topicRepo.FindByID(topicID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("failed to find topic: %w", err)
	}

	tasks, err := s.taskRepo.ListByTopic(topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list topic tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task with worker and topic loaded.
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Worker", "Topic")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// UpdateTaskInput carries optional task changes. Nil fields are left
// untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	WorkerID    *uint64
	StartTime   *time.Time
	EndTime     *time.Time
	Status      *string
}

// UpdateTask applies changes within the actor's permitted scope: owner/admin
// members and superusers update any field; the task's current worker may
// update too, but only the status field, other fields in the same request
// are silently dropped.
func (s *TaskService) UpdateTask(actor models.User, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	role, err := s.roleOf(task.TopicID, actor.ID)
	if err != nil {
		return nil, err
	}

	isWorker := task.WorkerID != nil && *task.WorkerID == actor.ID
	allowed, statusOnly := authz.TaskUpdateScope(actor.IsSuperuser(), role, isWorker)
	if !allowed {
		return nil, ErrTaskForbidden
	}

	if !statusOnly {
		if input.Title != nil {
			if *input.Title == "" {
				return nil, ErrTaskTitleEmpty
			}
			task.Title = *input.Title
		}
		if input.Description != nil {
			task.Description = *input.Description
		}
		if input.WorkerID != nil {
			task.WorkerID = input.WorkerID
		}
		if input.StartTime != nil {
			task.StartTime = input.StartTime
		}
		if input.EndTime != nil {
			task.EndTime = input.EndTime
		}
	}
	if input.Status != nil {
		// Status is a free string; no transition graph is enforced.
		task.Status = *input.Status
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.taskRepo.FindByID(task.ID, "Worker", "Topic")
}

// DeleteTask removes a task. Requires owner/admin membership or superuser on
// the task's topic.
func (s *TaskService) DeleteTask(actor models.User, taskID uint64) error {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	role, err := s.roleOf(task.TopicID, actor.ID)
	if err != nil {
		return err
	}
	if !authz.Allows(actor.IsSuperuser(), role, authz.OpTaskManage) {
		return ErrTaskForbidden
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// AssignToUsers clones the source task once per worker id, in input order.
// Worker ids without a membership in the task's topic are skipped silently;
// the batch never aborts. Each clone is an independent pending task credited
// to the acting admin, with the source task left untouched.
func (s *TaskService) AssignToUsers(actor models.User, taskID uint64, workerIDs []uint64) ([]models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	role, err := s.roleOf(task.TopicID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !authz.Allows(actor.IsSuperuser(), role, authz.OpTaskManage) {
		return nil, ErrTaskForbidden
	}

	created := make([]models.Task, 0, len(workerIDs))
	for _, workerID := range workerIDs {
		if _, err := s.topicRepo.FindMember(task.TopicID, workerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to verify worker membership: %w", err)
		}

		workerID := workerID
		clone := &models.Task{
			TopicID:     task.TopicID,
			Title:       task.Title,
			Description: task.Description,
			WorkerID:    &workerID,
			CreatedByID: actor.ID,
			StartTime:   task.StartTime,
			EndTime:     task.EndTime,
			Status:      models.TaskStatusPending,
		}

		if err := s.taskRepo.Create(clone); err != nil {
			return nil, fmt.Errorf("failed to create task copy: %w", err)
		}

		withRelations, err := s.taskRepo.FindByID(clone.ID, "Worker", "Topic")
		if err != nil {
			return nil, fmt.Errorf("failed to reload task copy: %w", err)
		}
		created = append(created, *withRelations)
	}

	return created, nil
}

func (s *TaskService) roleOf(topicID, userID uint64) (models.TopicRole, error) {
	member, err := s.topicRepo.FindMember(topicID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RoleNone, nil
		}
		return models.RoleNone, fmt.Errorf("failed to resolve membership: %w", err)
	}
	return member.Role, nil
}

func (s *TaskService) ensureTopicMember(topicID, userID uint64) error {
	if _, err := s.topicRepo.FindMember(topicID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWorkerNotMember
		}
		return fmt.Errorf("failed to verify worker membership: %w", err)
	}
	return nil
}
