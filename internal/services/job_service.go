package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taxdir/api/internal/models"
)

type JobService struct {
	jobsRepo models.JobsRepo
}

func NewJobService(jobsRepo models.JobsRepo) *JobService {
	return &JobService{
		jobsRepo: jobsRepo,
	}
}

func (js *JobService) CreateJob(ctx context.Context, job *models.Job, postedBy uuid.UUID, accessToken string) (*models.Job, error) {
	if err := models.Validate.Struct(job); err != nil {
		return nil, fmt.Errorf("invalid job data provided: %v", err)
	}
	if job.CompMin < 0 || (job.CompMax > 0 && job.CompMax < job.CompMin) {
		return nil, fmt.Errorf("invalid compensation range")
	}

	for i, s := range job.Specialties {
		job.Specialties[i] = strings.ToLower(strings.TrimSpace(s))
	}

	now := time.Now()
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	job.PostedBy = postedBy
	job.Status = models.JobOpen
	job.CreatedAt = now
	job.UpdatedAt = now

	return js.jobsRepo.CreateJob(ctx, job, accessToken)
}

func (js *JobService) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid job ID")
	}
	return js.jobsRepo.GetJobByID(ctx, id)
}

func (js *JobService) ListOpenJobs(ctx context.Context, specialty, state string, offset, limit int) ([]*models.Job, int, error) {
	if offset < 0 || limit <= 0 {
		return nil, 0, fmt.Errorf("invalid offset or limit")
	}
	return js.jobsRepo.ListOpenJobs(ctx, specialty, state, offset, limit)
}

func (js *JobService) CloseJob(ctx context.Context, id uuid.UUID, accessToken string) error {
	if id == uuid.Nil {
		return fmt.Errorf("invalid job ID")
	}
	return js.jobsRepo.CloseJob(ctx, id, accessToken)
}

// Apply submits a professional's application to an open job.
func (js *JobService) Apply(ctx context.Context, jobID, professionalID uuid.UUID, coverNote string, accessToken string) (*models.Application, error) {
	if jobID == uuid.Nil || professionalID == uuid.Nil {
		return nil, fmt.Errorf("invalid job or professional ID")
	}

	job, err := js.jobsRepo.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("job not found")
	}
	if job.Status != models.JobOpen {
		return nil, fmt.Errorf("job is no longer open")
	}

	now := time.Now()
	app := &models.Application{
		ID:             uuid.New(),
		JobID:          jobID,
		ProfessionalID: professionalID,
		CoverNote:      coverNote,
		Status:         models.ApplicationSubmitted,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := models.Validate.Struct(app); err != nil {
		return nil, fmt.Errorf("invalid application data: %v", err)
	}

	return js.jobsRepo.CreateApplication(ctx, app, accessToken)
}

func (js *JobService) ListApplications(ctx context.Context, jobID uuid.UUID, accessToken string) ([]*models.Application, error) {
	if jobID == uuid.Nil {
		return nil, fmt.Errorf("invalid job ID")
	}
	return js.jobsRepo.ListApplicationsByJob(ctx, jobID, accessToken)
}

func (js *JobService) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status string, accessToken string) (*models.Application, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("invalid application ID")
	}
	if !models.ValidApplicationStatus(status) {
		return nil, fmt.Errorf("invalid application status: %s", status)
	}
	return js.jobsRepo.UpdateApplicationStatus(ctx, id, status, accessToken)
}
