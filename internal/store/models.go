// Package store is the relational persistence layer: vacancies, interview
// types with their competency rubrics, and interview reviews.
package store

import (
	"time"

	"github.com/julioantloga/transcricao-backend/internal/jobs"
)

// Vacancy is an open position interviews are conducted for. The table keeps
// the original "jobs" name used by the front-end.
type Vacancy struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	UserID           string `gorm:"index" json:"user_id"`
	Name             string `gorm:"not null" json:"name"`
	Description      string `json:"job_description"`
	Responsibilities string `json:"job_responsibilities"`
	CompanyValues    string `json:"company_values"`
	InterviewRoadmap string `json:"interview_roadmap"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Vacancy) TableName() string { return "jobs" }

// InterviewType groups the competency rubric evaluated in one interview
// stage (e.g. technical screen, culture fit).
type InterviewType struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"not null" json:"name"`
	Competencies []Competency `gorm:"constraint:OnDelete:CASCADE" json:"competencies,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Competency is one rubric entry: a name, a description, and one
// descriptive text per ordinal category.
type Competency struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	InterviewTypeID uint   `gorm:"index;not null" json:"interview_type_id"`
	Name            string `gorm:"not null" json:"name"`
	Description     string `json:"description"`

	// Category-specific rubric descriptions, lowest to highest.
	Unsatisfactory string `json:"unsatisfactory"`
	Developing     string `json:"developing"`
	Proficient     string `json:"proficient"`
	Exemplary      string `json:"exemplary"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// InterviewReview is one interview's persisted outcome: the transcript, the
// generated report and an optional manually edited one.
type InterviewReview struct {
	ID              string `gorm:"primaryKey" json:"id"`
	VacancyID       *uint  `gorm:"column:job_id;index" json:"job_id,omitempty"`
	InterviewTypeID *uint  `gorm:"index" json:"interview_type_id,omitempty"`
	CandidateName   string `json:"candidate_name"`

	Transcript string        `json:"transcript"`
	Metrics    *jobs.Metrics `gorm:"serializer:json" json:"metrics,omitempty"`

	FinalReview  string `json:"final_review"`
	ManualReview string `json:"manual_review"`
	Notes        string `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (InterviewReview) TableName() string { return "interview_reviews" }
