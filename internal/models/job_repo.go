package models

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type JobsRepo interface {
	CreateJob(ctx context.Context, job *Job, accessToken string) (*Job, error)
	GetJobByID(ctx context.Context, id uuid.UUID) (*Job, error)
	ListOpenJobs(ctx context.Context, specialty, state string, offset, limit int) ([]*Job, int, error)
	CloseJob(ctx context.Context, id uuid.UUID, accessToken string) error
	CreateApplication(ctx context.Context, app *Application, accessToken string) (*Application, error)
	ListApplicationsByJob(ctx context.Context, jobID uuid.UUID, accessToken string) ([]*Application, error)
	UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status string, accessToken string) (*Application, error)
}

func (su *SupabaseRepo) CreateJob(ctx context.Context, job *Job, accessToken string) (*Job, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	raw, count, err := client.From(JobsTable).
		Insert(job, false, "", "", "exact").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %v", err)
	}

	var created []Job
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("failed to unmarshal created job: %v", err)
	}
	if count == 0 || len(created) == 0 {
		return nil, fmt.Errorf("no job data returned after insert")
	}

	return &created[0], nil
}

func (su *SupabaseRepo) GetJobByID(ctx context.Context, id uuid.UUID) (*Job, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid UUID")
	}

	raw, _, err := su.supabaseClient.From(JobsTable).
		Select("*", "", false).
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get job: %v", err)
	}

	var jobs []Job
	if err := json.Unmarshal(raw, &jobs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job rows: %v", err)
	}
	if len(jobs) == 0 {
		return nil, nil
	}

	return &jobs[0], nil
}

func (su *SupabaseRepo) ListOpenJobs(ctx context.Context, specialty, state string, offset, limit int) ([]*Job, int, error) {
	q := su.supabaseClient.From(JobsTable).
		Select("*", "exact", false).
		Eq("status", JobOpen)

	if specialty != "" {
		q = q.Contains("specialties", []string{strings.ToLower(specialty)})
	}
	if state != "" {
		q = q.Eq("location_state", strings.ToUpper(state))
	}

	raw, count, err := q.Range(offset, offset+limit-1, "").Execute()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %v", err)
	}

	var jobs []*Job
	if err := json.Unmarshal(raw, &jobs); err != nil {
		return nil, 0, fmt.Errorf("failed to unmarshal jobs: %v", err)
	}

	return jobs, int(count), nil
}

func (su *SupabaseRepo) CloseJob(ctx context.Context, id uuid.UUID, accessToken string) error {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return fmt.Errorf("failed to create authenticated client: %v", err)
	}

	_, count, err := client.From(JobsTable).
		Update(map[string]interface{}{
			"status":     JobClosed,
			"updated_at": time.Now(),
		}, "", "exact").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to close job: %v", err)
	}
	if count == 0 {
		return fmt.Errorf("no job found to close")
	}

	return nil
}

func (su *SupabaseRepo) CreateApplication(ctx context.Context, app *Application, accessToken string) (*Application, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	raw, count, err := client.From(ApplicationsTable).
		Insert(app, false, "", "", "exact").
		Execute()
	if err != nil {
		if strings.Contains(err.Error(), "unique constraint") {
			return nil, fmt.Errorf("already applied to this job")
		}
		return nil, fmt.Errorf("failed to create application: %v", err)
	}

	var created []Application
	if err := json.Unmarshal(raw, &created); err != nil {
		return nil, fmt.Errorf("failed to unmarshal created application: %v", err)
	}
	if count == 0 || len(created) == 0 {
		return nil, fmt.Errorf("no application data returned after insert")
	}

	return &created[0], nil
}

func (su *SupabaseRepo) ListApplicationsByJob(ctx context.Context, jobID uuid.UUID, accessToken string) ([]*Application, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	raw, _, err := client.From(ApplicationsTable).
		Select("*", "", false).
		Eq("job_id", jobID.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %v", err)
	}

	var apps []*Application
	if err := json.Unmarshal(raw, &apps); err != nil {
		return nil, fmt.Errorf("failed to unmarshal applications: %v", err)
	}

	return apps, nil
}

func (su *SupabaseRepo) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status string, accessToken string) (*Application, error) {
	if !ValidApplicationStatus(status) {
		return nil, fmt.Errorf("invalid application status: %s", status)
	}

	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create authenticated client: %v", err)
	}

	raw, count, err := client.From(ApplicationsTable).
		Update(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}, "", "exact").
		Eq("id", id.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to update application: %v", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("no application found to update")
	}

	var apps []Application
	if err := json.Unmarshal(raw, &apps); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated application: %v", err)
	}
	if len(apps) == 0 {
		return nil, fmt.Errorf("no application data returned after update")
	}

	return &apps[0], nil
}
