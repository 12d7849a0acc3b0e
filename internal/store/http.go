package store

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the conventional CRUD surface for vacancies,
// interview types, competencies and reviews.
func RegisterRoutes(r gin.IRouter, s *Store) {
	r.POST("/jobs", createVacancyHandler(s))
	r.GET("/jobs", listVacanciesHandler(s))
	r.GET("/jobs/:id", getVacancyHandler(s))
	r.PUT("/jobs/:id", updateVacancyHandler(s))
	r.DELETE("/jobs/:id", deleteVacancyHandler(s))

	r.POST("/interview-types", createInterviewTypeHandler(s))
	r.GET("/interview-types", listInterviewTypesHandler(s))
	r.GET("/interview-types/:id", getInterviewTypeHandler(s))
	r.PUT("/interview-types/:id", updateInterviewTypeHandler(s))
	r.DELETE("/interview-types/:id", deleteInterviewTypeHandler(s))
	r.POST("/interview-types/:id/competencies", createCompetencyHandler(s))
	r.PUT("/competencies/:id", updateCompetencyHandler(s))
	r.DELETE("/competencies/:id", deleteCompetencyHandler(s))

	r.GET("/reviews/:id", getReviewHandler(s))
	r.GET("/reviews", listReviewsHandler(s))
	r.PUT("/reviews/:id", updateReviewHandler(s))
	r.DELETE("/reviews/:id", deleteReviewHandler(s))
}

func respondStoreError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Registro não encontrado"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao acessar o banco de dados"})
}

func paramUint(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id inválido"})
		return 0, false
	}
	return uint(id), true
}

func createVacancyHandler(s *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var v Vacancy
		if err := c.ShouldBindJSON(&v); err != nil || v.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "nome da vaga é obrigatório"})
			return
		}
		if err := s.CreateVacancy(c.Request.Context(), &v); err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusCreated, v)
	}
}

func listVacanciesHandler(s *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := s.ListVacancies(c.Request.Context())
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func getVacancyHandler(s *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramUint(c)
		if !ok {
			return
		}
		v, err := s.GetVacancy(c.Request.Context(), id)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

func updateVacancyHandler(s *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramUint(c)
		if !ok {
			return
		}
		var v Vacancy
		if err := c.ShouldBindJSON(&v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
			return
		}
		v.ID = id
		if err := s.UpdateVacancy(c.Request.Context(), &v); err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

func deleteVacancyHandler(s *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramUint(c)
		if !ok {
			return
		}
		if err := s.DeleteVacancy(c.Request.Context(), id); err != nil {
			respondStoreError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func createInterviewTypeHandler(s *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var it InterviewType
		if err := c.ShouldBindJSON(&it); err != nil || it.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "nome do tipo de entrevista é obrigatório"})
			return
		}
		if err := s.CreateInterviewType(c.Request.Context(), &it); err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusCreated, it)
	}
}

func listInterviewTypesHandler(s *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := s.ListInterviewTypes(c.Request.Context())
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func getInterviewTypeHandler(s *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramUint(c)
		if !ok {
			return
		}
		it, err := s.GetInterviewType(c.Request.Context(), id)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, it)
	}
}

func updateInterviewTypeHandler(s *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramUint(c)
		if !ok {
			return
		}
		var body struct {
			Name string `json:"name"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "nome do tipo de entrevista é obrigatório"})
			return
		}
		if err := s.UpdateInterviewType(c.Request.Context(), id, body.Name); err != nil {
			respondStoreError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func deleteInterviewTypeHandler(s *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramUint(c)
		if !ok {
			return
		}
		if err := s.DeleteInterviewType(c.Request.Context(), id); err != nil {
			respondStoreError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func createCompetencyHandler(s *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		typeID, ok := paramUint(c)
		if !ok {
			return
		}
		// The parent type must exist; a dangling rubric row is useless.
		if _, err := s.GetInterviewType(c.Request.Context(), typeID); err != nil {
			respondStoreError(c, err)
			return
		}
		var comp Competency
		if err := c.ShouldBindJSON(&comp); err != nil || comp.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "nome da competência é obrigatório"})
			return
		}
		comp.InterviewTypeID = typeID
		if err := s.CreateCompetency(c.Request.Context(), &comp); err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusCreated, comp)
	}
}

func updateCompetencyHandler(s *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramUint(c)
		if !ok {
			return
		}
		var comp Competency
		if err := c.ShouldBindJSON(&comp); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
			return
		}
		comp.ID = id
		if err := s.UpdateCompetency(c.Request.Context(), &comp); err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, comp)
	}
}

func deleteCompetencyHandler(s *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramUint(c)
		if !ok {
			return
		}
		if err := s.DeleteCompetency(c.Request.Context(), id); err != nil {
			respondStoreError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func getReviewHandler(s *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := s.GetReview(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func listReviewsHandler(s *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.Query("job_id")
		vacancyID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "job_id é obrigatório"})
			return
		}
		out, err := s.ListReviewsByVacancy(c.Request.Context(), uint(vacancyID), 50)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func updateReviewHandler(s *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var r InterviewReview
		if err := c.ShouldBindJSON(&r); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "corpo da requisição inválido"})
			return
		}
		r.ID = c.Param("id")
		if err := s.UpdateReview(c.Request.Context(), &r); err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, r)
	}
}

func deleteReviewHandler(s *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.DeleteReview(c.Request.Context(), c.Param("id")); err != nil {
			respondStoreError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
