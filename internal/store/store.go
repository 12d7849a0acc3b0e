package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/julioantloga/transcricao-backend/internal/jobs"
)

// ErrNotFound is returned when a record id does not exist. Handlers map it
// to 404, never to a server error.
var ErrNotFound = errors.New("record not found")

// Store wraps the gorm connection pool. Every operation is a single
// statement; no multi-statement transactions are needed here.
type Store struct {
	db *gorm.DB
}

// Open connects to Postgres and migrates the schema.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return New(db)
}

// New builds a Store on an existing gorm handle. Tests use this with an
// in-memory sqlite database.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Vacancy{}, &InterviewType{}, &Competency{}, &InterviewReview{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &Store{db: db}, nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// --- vacancies ---

func (s *Store) CreateVacancy(ctx context.Context, v *Vacancy) error {
	return s.db.WithContext(ctx).Create(v).Error
}

func (s *Store) GetVacancy(ctx context.Context, id uint) (*Vacancy, error) {
	var v Vacancy
	if err := s.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

func (s *Store) ListVacancies(ctx context.Context) ([]Vacancy, error) {
	var out []Vacancy
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *Store) UpdateVacancy(ctx context.Context, v *Vacancy) error {
	res := s.db.WithContext(ctx).Model(&Vacancy{}).Where("id = ?", v.ID).Updates(map[string]any{
		"name":              v.Name,
		"description":       v.Description,
		"responsibilities":  v.Responsibilities,
		"company_values":    v.CompanyValues,
		"interview_roadmap": v.InterviewRoadmap,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteVacancy(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&Vacancy{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- interview types and competencies ---

func (s *Store) CreateInterviewType(ctx context.Context, it *InterviewType) error {
	return s.db.WithContext(ctx).Create(it).Error
}

// GetInterviewType loads a type with its competency rubric.
func (s *Store) GetInterviewType(ctx context.Context, id uint) (*InterviewType, error) {
	var it InterviewType
	err := s.db.WithContext(ctx).Preload("Competencies").First(&it, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &it, nil
}

func (s *Store) ListInterviewTypes(ctx context.Context) ([]InterviewType, error) {
	var out []InterviewType
	err := s.db.WithContext(ctx).Preload("Competencies").Order("id").Find(&out).Error
	return out, err
}

func (s *Store) UpdateInterviewType(ctx context.Context, id uint, name string) error {
	res := s.db.WithContext(ctx).Model(&InterviewType{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteInterviewType(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&InterviewType{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateCompetency(ctx context.Context, c *Competency) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *Store) UpdateCompetency(ctx context.Context, c *Competency) error {
	res := s.db.WithContext(ctx).Model(&Competency{}).Where("id = ?", c.ID).Updates(map[string]any{
		"name":           c.Name,
		"description":    c.Description,
		"unsatisfactory": c.Unsatisfactory,
		"developing":     c.Developing,
		"proficient":     c.Proficient,
		"exemplary":      c.Exemplary,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteCompetency(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&Competency{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- interview reviews ---

func (s *Store) CreateReview(ctx context.Context, r *InterviewReview) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(r).Error
}

func (s *Store) GetReview(ctx context.Context, id string) (*InterviewReview, error) {
	var r InterviewReview
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

// ListReviewsByVacancy returns the most recent reviews for one vacancy,
// newest first, capped by limit.
func (s *Store) ListReviewsByVacancy(ctx context.Context, vacancyID uint, limit int) ([]InterviewReview, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []InterviewReview
	err := s.db.WithContext(ctx).
		Where("job_id = ?", vacancyID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (s *Store) UpdateReview(ctx context.Context, r *InterviewReview) error {
	res := s.db.WithContext(ctx).Model(&InterviewReview{}).Where("id = ?", r.ID).Updates(map[string]any{
		"candidate_name":    r.CandidateName,
		"manual_review":     r.ManualReview,
		"notes":             r.Notes,
		"interview_type_id": r.InterviewTypeID,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteReview(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&InterviewReview{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveTranscript persists a finished job's transcript and metrics against
// its correlation key. The pipeline treats failures here as best-effort.
func (s *Store) SaveTranscript(ctx context.Context, reviewID, transcript string, metrics *jobs.Metrics) error {
	// Struct-based update so the json serializer applies to Metrics.
	res := s.db.WithContext(ctx).Model(&InterviewReview{}).Where("id = ?", reviewID).
		Select("transcript", "metrics").
		Updates(&InterviewReview{Transcript: transcript, Metrics: metrics})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveGeneratedReview updates the stored report when the id matches an
// existing review, and inserts a new record otherwise.
func (s *Store) SaveGeneratedReview(ctx context.Context, r *InterviewReview) error {
	if r.ID != "" {
		res := s.db.WithContext(ctx).Model(&InterviewReview{}).Where("id = ?", r.ID).
			Select("final_review", "transcript", "notes", "interview_type_id").
			Updates(r)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return s.db.WithContext(ctx).Create(r).Error
}
