package review

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/julioantloga/transcricao-backend/internal/openai"
	"github.com/julioantloga/transcricao-backend/internal/store"
)

const (
	// Transcripts longer than this are summarized before entering the
	// chat context, and only their head is sent to the summarizer.
	summarizeAboveRunes = 500
	summarizeHeadRunes  = 8000

	// NoInterviewsAnswer is returned verbatim when the vacancy has no
	// reviews to reason about.
	NoInterviewsAnswer = "Não há entrevistas suficientes para análise nesta vaga."
)

// ChatStore is the slice of the relational store the chat needs.
type ChatStore interface {
	GetVacancy(ctx context.Context, id uint) (*store.Vacancy, error)
	ListReviewsByVacancy(ctx context.Context, vacancyID uint, limit int) ([]store.InterviewReview, error)
	GetInterviewType(ctx context.Context, id uint) (*store.InterviewType, error)
}

// ChatService answers recruiter questions about one vacancy using only its
// stored interviews.
type ChatService struct {
	store     ChatStore
	completer Completer
	model     string
	logger    *slog.Logger
}

func NewChatService(st ChatStore, completer Completer, model string, logger *slog.Logger) *ChatService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatService{store: st, completer: completer, model: model, logger: logger}
}

// Answer builds a lightweight context from up to 50 of the vacancy's most
// recent interviews and asks the model the recruiter's question.
func (s *ChatService) Answer(ctx context.Context, vacancyID uint, question string) (string, error) {
	vacancy, err := s.store.GetVacancy(ctx, vacancyID)
	if err != nil {
		return "", err
	}

	reviews, err := s.store.ListReviewsByVacancy(ctx, vacancyID, 50)
	if err != nil {
		return "", err
	}
	if len(reviews) == 0 {
		return NoInterviewsAnswer, nil
	}

	jobContext := fmt.Sprintf(`DADOS DA VAGA
Nome da vaga:
%s

Descrição da vaga:
%s

Atividades da vaga:
%s`, vacancy.Name, orDefault(vacancy.Description), orDefault(vacancy.Responsibilities))

	typeNames := map[uint]string{}
	blocks := make([]string, 0, len(reviews))
	for i, r := range reviews {
		summary, err := s.transcriptSummary(ctx, r.Transcript)
		if err != nil {
			return "", err
		}

		reviewText := r.ManualReview
		if strings.TrimSpace(reviewText) == "" {
			reviewText = r.FinalReview
		}
		if strings.TrimSpace(reviewText) == "" {
			reviewText = "Parecer não disponível."
		}

		typeName := "não definido"
		if r.InterviewTypeID != nil {
			name, ok := typeNames[*r.InterviewTypeID]
			if !ok {
				if it, err := s.store.GetInterviewType(ctx, *r.InterviewTypeID); err == nil {
					name = it.Name
				}
				typeNames[*r.InterviewTypeID] = name
			}
			if name != "" {
				typeName = name
			}
		}

		metricsJSON := "null"
		if r.Metrics != nil {
			if raw, err := json.Marshal(r.Metrics); err == nil {
				metricsJSON = string(raw)
			}
		}

		blocks = append(blocks, fmt.Sprintf(`ENTREVISTA %d
Candidato: %s
Tipo: %s
Métricas: %s
Parecer:
%s
Resumo da transcrição:
%s`, i+1, orDefault(r.CandidateName), typeName, metricsJSON, reviewText, summary))
	}

	answer, err := s.completer.ChatCompletion(ctx, openai.ChatRequest{
		Model: s.model,
		Messages: []openai.Message{
			{
				Role: "system",
				Content: `Você é um analista sênior de recrutamento e seleção.
Use exclusivamente os dados fornecidos.
Não invente informações.
Para qualquer pergunta que não se refira às entrevistas da vaga responda "Desculpe, não consigo te ajudar com essa pergunta."
Seja técnico, claro e direto.`,
			},
			{
				Role: "user",
				Content: fmt.Sprintf(`%s

ENTREVISTAS ANALISADAS
Total: %d

%s

Pergunta do recrutador:
%s`, jobContext, len(blocks), strings.Join(blocks, "\n\n"), question),
			},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	return answer, nil
}

// transcriptSummary condenses long transcripts so that up to 50 interviews
// fit into one context window.
func (s *ChatService) transcriptSummary(ctx context.Context, transcript string) (string, error) {
	runes := []rune(transcript)
	if len(runes) == 0 {
		return "Transcrição não disponível.", nil
	}
	if len(runes) <= summarizeAboveRunes {
		return transcript, nil
	}

	head := runes
	if len(head) > summarizeHeadRunes {
		head = head[:summarizeHeadRunes]
	}
	summary, err := s.completer.ChatCompletion(ctx, openai.ChatRequest{
		Model: s.model,
		Messages: []openai.Message{
			{
				Role:    "system",
				Content: "Resuma a transcrição abaixo focando apenas em comunicação, clareza, comportamento e sinais relevantes para recrutamento.",
			},
			{Role: "user", Content: string(head)},
		},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("summarize transcript: %w", err)
	}
	return summary, nil
}
