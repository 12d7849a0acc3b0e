// Package review turns an interview's context into a structured candidate
// evaluation report, and answers recruiter questions across a vacancy's
// interviews.
package review

import (
	"fmt"
	"strings"
)

// Mode selects how the evaluation prompt is assembled.
type Mode int

const (
	// ModeValues falls back to organizational values as evaluation context.
	ModeValues Mode = iota
	// ModeCompetencies evaluates every rubric competency individually.
	ModeCompetencies
)

// The four ordinal categories a competency can be classified into. Order
// matters: lowest to highest.
var CategoryLabels = [4]string{
	"Insatisfatório",
	"Em desenvolvimento",
	"Proficiente",
	"Exemplar",
}

// InsufficientEvidence is the literal used when the transcript carries no
// evidence for a competency. It is the only alternative to the four labels.
const InsufficientEvidence = "Evidência insuficiente"

// CompetencyRubric is one competency with its per-category descriptions.
type CompetencyRubric struct {
	Name           string
	Description    string
	Unsatisfactory string
	Developing     string
	Proficient     string
	Exemplary      string
}

// Input is everything the report is built from.
type Input struct {
	VacancyName      string
	Transcript       string
	InterviewRoadmap string
	JobDescription   string
	Responsibilities string
	CompanyValues    string
	Notes            string
	Competencies     []CompetencyRubric
}

// Mode is derived, not chosen: a populated rubric switches the prompt to
// per-competency evaluation.
func (in Input) Mode() Mode {
	if len(in.Competencies) > 0 {
		return ModeCompetencies
	}
	return ModeValues
}

func orDefault(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Não informado"
	}
	return value
}

// BuildPrompt assembles the evaluation prompt. The branching is exhaustive
// over Mode and testable without any network call.
func BuildPrompt(in Input) string {
	var b strings.Builder

	b.WriteString(`Você é um especialista de recrutamento e seleção com o objetivo de gerar pareceres estruturados e assertivos dos candidatos com base nas entrevistas.
Sua análise deve ser objetiva, evidencial e diretamente conectada aos critérios de avaliação.
Importante: você não pode inventar dados, tudo deve estar no texto da transcrição da entrevista.

`)

	b.WriteString("---\n\n#DADOS DE ENTRADA:\n")
	fmt.Fprintf(&b, "**Nome da vaga**\n%s\n\n", orDefault(in.VacancyName))
	fmt.Fprintf(&b, "**Transcrição da entrevista**:\n%s\n\n", orDefault(in.Transcript))
	fmt.Fprintf(&b, "**Roteiro da entrevista**:\n%s\n\n", orDefault(in.InterviewRoadmap))
	fmt.Fprintf(&b, "**Descrição da vaga**:\n%s\n\n", orDefault(in.JobDescription))
	fmt.Fprintf(&b, "**Escopo da função**:\n%s\n\n", orDefault(in.Responsibilities))
	fmt.Fprintf(&b, "**Anotações do entrevistador**:\n%s\n\n", orDefault(in.Notes))

	switch in.Mode() {
	case ModeCompetencies:
		writeCompetencySection(&b, in.Competencies)
	case ModeValues:
		fmt.Fprintf(&b, "**Valores organizacionais**:\n%s\n\n", orDefault(in.CompanyValues))
	}

	b.WriteString(`---

**INSTRUÇÕES DO PARECER**:
IMPORTANTE:
- Entenda "ponto" como: competências, comportamentos, habilidades, experiências, comunicação, postura, requisitos e expectativas da vaga e do candidato.
- Considere citar termos técnicos e trechos da entrevista para dar mais credibilidade ao parecer.
- Em caso de desalinhamento de expectativas salariais, benefícios, modelo de trabalho e ambiente de trabalho, deixe explícito o que está desalinhado.

ANÁLISE:
`)

	step := 1
	if in.Mode() == ModeCompetencies {
		fmt.Fprintf(&b, "%d. Avalie TODAS as competências listadas acima, uma a uma, sem exceção. Classifique cada competência em exatamente uma das quatro categorias (%s). A classificação exige justificativa com evidência citada da transcrição; quando a entrevista não fornecer evidência sobre a competência, use literalmente \"%s\" no lugar da categoria, sem inventar avaliação.\n",
			step, strings.Join(CategoryLabels[:], ", "), InsufficientEvidence)
		step++
	} else {
		fmt.Fprintf(&b, "%d. Identifique os pontos de maior e menor aderência do candidato aos valores da organização.\n", step)
		step++
	}
	fmt.Fprintf(&b, "%d. Destaque os pontos fortes do candidato (no máximo 3).\n", step)
	step++
	fmt.Fprintf(&b, "%d. Destaque pontos de atenção: o que está desalinhado com a descrição e função da vaga (no máximo 3).\n", step)
	step++
	fmt.Fprintf(&b, "%d. Identifique qual a motivação do candidato para assumir a vaga em questão.\n", step)
	step++
	fmt.Fprintf(&b, "%d. Identifique se teve algum gap na entrevista: algo que faltou ser consultado, avaliado ou aprofundado pelo recrutador de acordo com o roteiro da entrevista.\n", step)
	step++

	fmt.Fprintf(&b, `
REFINAMENTO DA ANÁLISE:
%d. Depois de executar os passos anteriores, faça uma revisão final para garantir alinhamento entre todos os passos e filtre informações irrelevantes para o recrutador. Esta revisão é interna: não a inclua como seção do output.

---

#Template do Output

**Parecer:**
[Resumo breve do perfil do candidato com base na fala]

`, step)

	if in.Mode() == ModeCompetencies {
		b.WriteString(`**Avaliação por competência:**
`)
		for _, comp := range in.Competencies {
			fmt.Fprintf(&b, "- %s: [categoria] — [justificativa com evidência citada]\n", comp.Name)
		}
		b.WriteString("\n")
	}

	b.WriteString(`**Pontos Fortes:**
- [item]

**Pontos de Atenção:**
- [item]

**Motivação:**
[Resumo das motivações do candidato]

**Insights para outras entrevistas:**
- [item]
`)

	return b.String()
}

func writeCompetencySection(b *strings.Builder, competencies []CompetencyRubric) {
	b.WriteString("**Competências avaliadas nesta entrevista**:\n")
	for _, comp := range competencies {
		fmt.Fprintf(b, "\nCompetência: %s\n", comp.Name)
		if strings.TrimSpace(comp.Description) != "" {
			fmt.Fprintf(b, "Descrição: %s\n", comp.Description)
		}
		fmt.Fprintf(b, "- %s: %s\n", CategoryLabels[0], orDefault(comp.Unsatisfactory))
		fmt.Fprintf(b, "- %s: %s\n", CategoryLabels[1], orDefault(comp.Developing))
		fmt.Fprintf(b, "- %s: %s\n", CategoryLabels[2], orDefault(comp.Proficient))
		fmt.Fprintf(b, "- %s: %s\n", CategoryLabels[3], orDefault(comp.Exemplary))
	}
	b.WriteString("\n")
}
