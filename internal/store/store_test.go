package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/julioantloga/transcricao-backend/internal/jobs"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "store.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	st, err := New(db)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return st
}

func TestVacancyCRUD(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	v := &Vacancy{Name: "Engenheira de Dados", Description: "Pipelines em Go", CompanyValues: "Colaboração"}
	if err := st.CreateVacancy(ctx, v); err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.ID == 0 {
		t.Fatal("create must assign an id")
	}

	got, err := st.GetVacancy(ctx, v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != v.Name || got.CompanyValues != "Colaboração" {
		t.Fatalf("got = %+v", got)
	}

	got.Name = "Engenheira de Dados Sênior"
	got.InterviewRoadmap = "1. Técnica\n2. Cultura"
	if err := st.UpdateVacancy(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	updated, _ := st.GetVacancy(ctx, v.ID)
	if updated.Name != "Engenheira de Dados Sênior" || updated.InterviewRoadmap == "" {
		t.Fatalf("updated = %+v", updated)
	}

	list, err := st.ListVacancies(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list = %v, err = %v", list, err)
	}

	if err := st.DeleteVacancy(ctx, v.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.GetVacancy(ctx, v.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete: %v", err)
	}
}

func TestVacancyNotFound(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if _, err := st.GetVacancy(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get: %v", err)
	}
	if err := st.UpdateVacancy(ctx, &Vacancy{ID: 42, Name: "x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update: %v", err)
	}
	if err := st.DeleteVacancy(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete: %v", err)
	}
}

func TestInterviewTypeWithCompetencies(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	it := &InterviewType{
		Name: "Entrevista técnica",
		Competencies: []Competency{
			{Name: "Comunicação", Proficient: "Explica com autonomia"},
			{Name: "Arquitetura"},
		},
	}
	if err := st.CreateInterviewType(ctx, it); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := st.GetInterviewType(ctx, it.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Competencies) != 2 {
		t.Fatalf("competencies = %d, want 2 preloaded", len(got.Competencies))
	}

	comp := got.Competencies[0]
	comp.Exemplary = "Adapta o discurso ao público"
	if err := st.UpdateCompetency(ctx, &comp); err != nil {
		t.Fatalf("update competency: %v", err)
	}

	extra := &Competency{InterviewTypeID: it.ID, Name: "Liderança"}
	if err := st.CreateCompetency(ctx, extra); err != nil {
		t.Fatalf("create competency: %v", err)
	}
	if err := st.DeleteCompetency(ctx, extra.ID); err != nil {
		t.Fatalf("delete competency: %v", err)
	}
	if err := st.DeleteCompetency(ctx, extra.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}

	if err := st.UpdateInterviewType(ctx, it.ID, "Painel técnico"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	renamed, _ := st.GetInterviewType(ctx, it.ID)
	if renamed.Name != "Painel técnico" {
		t.Fatalf("name = %q", renamed.Name)
	}
}

func TestSaveTranscriptMetricsRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	r := &InterviewReview{CandidateName: "Ana"}
	if err := st.CreateReview(ctx, r); err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.ID == "" {
		t.Fatal("create must assign a uuid")
	}

	metrics := jobs.NewMetrics(120, 3, 40, 50)
	if err := st.SaveTranscript(ctx, r.ID, "fala da candidata", &metrics); err != nil {
		t.Fatalf("save transcript: %v", err)
	}

	got, err := st.GetReview(ctx, r.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Transcript != "fala da candidata" {
		t.Fatalf("transcript = %q", got.Transcript)
	}
	if got.Metrics == nil || got.Metrics.AudioSeconds != 120 || got.Metrics.Efficiency != 2.4 {
		t.Fatalf("metrics = %+v", got.Metrics)
	}
	if got.CandidateName != "Ana" {
		t.Fatal("save transcript must not touch unrelated columns")
	}

	if err := st.SaveTranscript(ctx, "unknown-id", "x", nil); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id: %v", err)
	}
}

func TestSaveGeneratedReviewUpsert(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	// Unknown id inserts.
	fresh := &InterviewReview{ID: "review-abc", FinalReview: "primeiro parecer", Transcript: "fala"}
	if err := st.SaveGeneratedReview(ctx, fresh); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Matching id updates in place.
	again := &InterviewReview{ID: "review-abc", FinalReview: "parecer revisado", Transcript: "fala completa"}
	if err := st.SaveGeneratedReview(ctx, again); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := st.GetReview(ctx, "review-abc")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.FinalReview != "parecer revisado" || got.Transcript != "fala completa" {
		t.Fatalf("got = %+v", got)
	}

	var count int64
	if err := st.db.Model(&InterviewReview{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("rows = %d, want 1", count)
	}

	// Empty id always inserts with a generated uuid.
	anon := &InterviewReview{FinalReview: "parecer"}
	if err := st.SaveGeneratedReview(ctx, anon); err != nil {
		t.Fatalf("insert anon: %v", err)
	}
	if anon.ID == "" {
		t.Fatal("generated id expected")
	}
}

func TestListReviewsByVacancyOrderAndLimit(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	v := &Vacancy{Name: "Backend"}
	if err := st.CreateVacancy(ctx, v); err != nil {
		t.Fatalf("create vacancy: %v", err)
	}

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		r := &InterviewReview{
			ID:            fmt.Sprintf("review-%d", i),
			VacancyID:     &v.ID,
			CandidateName: fmt.Sprintf("candidato %d", i),
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}
		if err := st.CreateReview(ctx, r); err != nil {
			t.Fatalf("create review %d: %v", i, err)
		}
	}
	other := uint(999)
	if err := st.CreateReview(ctx, &InterviewReview{ID: "other", VacancyID: &other}); err != nil {
		t.Fatalf("create unrelated review: %v", err)
	}

	got, err := st.ListReviewsByVacancy(ctx, v.ID, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want limit applied", len(got))
	}
	// Newest first.
	if got[0].ID != "review-2" || got[1].ID != "review-1" {
		t.Fatalf("order = %s, %s", got[0].ID, got[1].ID)
	}

	all, err := st.ListReviewsByVacancy(ctx, v.ID, 0)
	if err != nil || len(all) != 3 {
		t.Fatalf("all = %d, err = %v", len(all), err)
	}
}

func TestDeleteReview(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	r := &InterviewReview{CandidateName: "Bruno"}
	if err := st.CreateReview(ctx, r); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.DeleteReview(ctx, r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := st.DeleteReview(ctx, r.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}
