package dto

import (
	"time"

	"github.com/mtakagi/discussion-board-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID          uint64     `json:"id"`
	TopicID     uint64     `json:"topic_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	WorkerID    *uint64    `json:"worker_id"`
	CreatedByID uint64     `json:"created_by_id"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	Worker      *UserDTO   `json:"worker,omitempty"`
	TopicName   string     `json:"topic_name,omitempty"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          task.ID,
		TopicID:     task.TopicID,
		Title:       task.Title,
		Description: task.Description,
		WorkerID:    task.WorkerID,
		CreatedByID: task.CreatedByID,
		StartTime:   task.StartTime,
		EndTime:     task.EndTime,
		Status:      task.Status,
		CreatedAt:   task.CreatedAt,
	}

	// Include worker if preloaded
	if task.Worker != nil && task.Worker.ID != 0 {
		worker := ToUserDTO(*task.Worker)
		dto.Worker = &worker
	}

	// Include topic name if preloaded
	if task.Topic.ID != 0 {
		dto.TopicName = task.Topic.Name
	}

	return dto
}

// ToTaskDTOs converts a slice of tasks
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}
