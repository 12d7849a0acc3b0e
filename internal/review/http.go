package review

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/julioantloga/transcricao-backend/internal/store"
)

// ReviewStore is the persistence slice of the report endpoint.
type ReviewStore interface {
	GetInterviewType(ctx context.Context, id uint) (*store.InterviewType, error)
	SaveGeneratedReview(ctx context.Context, r *store.InterviewReview) error
}

type reviewRequest struct {
	ID              string `json:"id"`
	VacancyID       *uint  `json:"job_id"`
	InterviewTypeID *uint  `json:"interview_type_id"`
	CandidateName   string `json:"candidate_name"`

	VacancyName      string `json:"vacancy_name"`
	Transcript       string `json:"transcript"`
	InterviewRoadmap string `json:"interview_roadmap"`
	JobDescription   string `json:"job_description"`
	Responsibilities string `json:"job_responsibilities"`
	CompanyValues    string `json:"company_values"`
	Notes            string `json:"notes"`
}

// Handler generates one evaluation report and upserts the persisted review
// record: update when an id is present and matched, insert otherwise.
func Handler(gen *Generator, st ReviewStore, logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		var req reviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
			return
		}

		in := Input{
			VacancyName:      req.VacancyName,
			Transcript:       req.Transcript,
			InterviewRoadmap: req.InterviewRoadmap,
			JobDescription:   req.JobDescription,
			Responsibilities: req.Responsibilities,
			CompanyValues:    req.CompanyValues,
			Notes:            req.Notes,
		}

		if req.InterviewTypeID != nil {
			it, err := st.GetInterviewType(c.Request.Context(), *req.InterviewTypeID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					c.JSON(http.StatusNotFound, gin.H{"error": "Tipo de entrevista não encontrado"})
					return
				}
				logger.Error("load interview type failed", "id", *req.InterviewTypeID, "err", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao gerar review"})
				return
			}
			for _, comp := range it.Competencies {
				in.Competencies = append(in.Competencies, CompetencyRubric{
					Name:           comp.Name,
					Description:    comp.Description,
					Unsatisfactory: comp.Unsatisfactory,
					Developing:     comp.Developing,
					Proficient:     comp.Proficient,
					Exemplary:      comp.Exemplary,
				})
			}
		}

		text, err := gen.Generate(c.Request.Context(), in)
		if err != nil {
			logger.Error("review generation failed", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao gerar review"})
			return
		}

		record := &store.InterviewReview{
			ID:              req.ID,
			VacancyID:       req.VacancyID,
			InterviewTypeID: req.InterviewTypeID,
			CandidateName:   req.CandidateName,
			Transcript:      req.Transcript,
			Notes:           req.Notes,
			FinalReview:     text,
		}
		if err := st.SaveGeneratedReview(c.Request.Context(), record); err != nil {
			logger.Error("persist review failed", "review_id", record.ID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao gerar review"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"review": text, "id": record.ID})
	}
}

// ChatHandler exposes the per-vacancy interview chat.
func ChatHandler(svc *ChatService, logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		vacancyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
			return
		}

		var body struct {
			Question string `json:"question"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Question) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pergunta é obrigatória"})
			return
		}

		answer, err := svc.Answer(c.Request.Context(), uint(vacancyID), body.Question)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Vaga não encontrada"})
				return
			}
			logger.Error("job chat failed", "vacancy_id", vacancyID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao responder a pergunta"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"answer": answer})
	}
}
