package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-task-manager/internal/auth"
	"go-task-manager/internal/event"
	"go-task-manager/internal/model"
	"go-task-manager/pkg/apierror"
)

type TaskService struct {
	tasks  TaskStore
	events event.Publisher
}

func NewTaskService(tasks TaskStore, events event.Publisher) *TaskService {
	return &TaskService{tasks: tasks, events: events}
}

// List returns the tasks matching filter that scope lets the caller see.
func (s *TaskService) List(ctx context.Context, id auth.Identity, scope auth.Scope, filter model.TaskFilter) ([]model.Task, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apierror.Validation("Invalid status", string(*filter.Status))
	}
	if filter.Priority != nil && !filter.Priority.Valid() {
		return nil, apierror.Validation("Invalid priority", string(*filter.Priority))
	}
	if filter.AssignedTo != nil {
		assignee, err := parseID(*filter.AssignedTo)
		if err != nil {
			return nil, err
		}
		filter.AssignedTo = &assignee
	}

	filter.OwnerID = ""
	switch scope {
	case auth.ScopeAll:
	case auth.ScopeOwn:
		filter.OwnerID = id.UserID
	default:
		return nil, apierror.Forbidden("Access denied")
	}

	return s.tasks.List(ctx, filter)
}

func (s *TaskService) Get(ctx context.Context, taskID string) (model.Task, error) {
	taskID, err := parseID(taskID)
	if err != nil {
		return model.Task{}, err
	}
	return s.tasks.FindByID(ctx, taskID)
}

func (s *TaskService) Create(ctx context.Context, actorID string, req model.CreateTaskRequest) (model.Task, error) {
	req.Title = cleanLine(req.Title)
	req.Description = cleanText(req.Description)
	req.Tags = cleanTags(req.Tags)
	if req.AssignedTo != nil && strings.TrimSpace(*req.AssignedTo) == "" {
		req.AssignedTo = nil
	}
	if err := validateStruct(req); err != nil {
		return model.Task{}, err
	}

	now := time.Now().UTC()
	task := model.Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		AssignedTo:  req.AssignedTo,
		CreatedBy:   actorID,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if task.Status == "" {
		task.Status = model.StatusTodo
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		return model.Task{}, err
	}

	s.events.Publish(event.New(event.TypeTaskCreated, actorID, created))
	return created, nil
}

func (s *TaskService) Update(ctx context.Context, actorID string, taskID string, req model.UpdateTaskRequest) (model.Task, error) {
	taskID, err := parseID(taskID)
	if err != nil {
		return model.Task{}, err
	}

	req.Title = cleanLine(req.Title)
	req.Tags = cleanTags(req.Tags)
	if err := validateStruct(req); err != nil {
		return model.Task{}, err
	}

	patch := req.Patch()
	if patch.Description != nil {
		description := cleanText(*patch.Description)
		patch.Description = &description
	}
	if patch.AssignedTo != nil {
		if strings.TrimSpace(*patch.AssignedTo) == "" {
			patch.AssignedTo = nil
		} else {
			assignee, err := parseID(*patch.AssignedTo)
			if err != nil {
				return model.Task{}, err
			}
			patch.AssignedTo = &assignee
		}
	}

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return model.Task{}, err
	}

	patch.Apply(&task)
	task.UpdatedAt = time.Now().UTC()

	updated, err := s.tasks.Update(ctx, task)
	if err != nil {
		return model.Task{}, err
	}

	s.events.Publish(event.New(event.TypeTaskUpdated, actorID, updated))
	return updated, nil
}

// Delete soft-deletes the task; the row stays with deleted set.
func (s *TaskService) Delete(ctx context.Context, actorID string, taskID string) (model.Task, error) {
	taskID, err := parseID(taskID)
	if err != nil {
		return model.Task{}, err
	}

	task, err := s.tasks.SoftDelete(ctx, taskID)
	if err != nil {
		return model.Task{}, err
	}

	s.events.Publish(event.New(event.TypeTaskDeleted, actorID, task))
	return task, nil
}
