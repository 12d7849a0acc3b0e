package review

import (
	"strings"
	"testing"
)

func TestInputModeDerivation(t *testing.T) {
	if (Input{}).Mode() != ModeValues {
		t.Fatal("no competencies must select the values mode")
	}
	withRubric := Input{Competencies: []CompetencyRubric{{Name: "Comunicação"}}}
	if withRubric.Mode() != ModeCompetencies {
		t.Fatal("a populated rubric must select the competencies mode")
	}
}

func TestBuildPromptValuesMode(t *testing.T) {
	prompt := BuildPrompt(Input{
		VacancyName:   "Engenheiro de Dados",
		Transcript:    "fala do candidato",
		CompanyValues: "Colaboração acima de tudo",
	})

	if !strings.Contains(prompt, "**Valores organizacionais**:\nColaboração acima de tudo") {
		t.Fatal("values mode must carry the organizational values")
	}
	if strings.Contains(prompt, "Competência:") {
		t.Fatal("values mode must not emit a competency section")
	}
	if !strings.Contains(prompt, "aderência do candidato aos valores") {
		t.Fatal("values mode must ask for value adherence")
	}
	if !strings.Contains(prompt, "no máximo 3") {
		t.Fatal("strengths and attention points are capped at three")
	}
}

func TestBuildPromptCompetenciesMode(t *testing.T) {
	in := Input{
		VacancyName: "Engenheiro de Dados",
		Transcript:  "fala do candidato",
		Competencies: []CompetencyRubric{
			{
				Name:           "Comunicação",
				Description:    "Clareza ao expor ideias",
				Unsatisfactory: "Não se faz entender",
				Developing:     "Explica com apoio",
				Proficient:     "Explica com autonomia",
				Exemplary:      "Adapta o discurso ao público",
			},
			{Name: "Liderança"},
		},
	}
	prompt := BuildPrompt(in)

	for _, label := range CategoryLabels {
		if !strings.Contains(prompt, label) {
			t.Fatalf("prompt missing category label %q", label)
		}
	}
	if !strings.Contains(prompt, InsufficientEvidence) {
		t.Fatal("prompt must name the insufficient-evidence literal")
	}
	if !strings.Contains(prompt, "Competência: Comunicação") || !strings.Contains(prompt, "Competência: Liderança") {
		t.Fatal("every rubric competency must appear in the context section")
	}
	// Empty rubric cells fall back to the placeholder instead of vanishing.
	if !strings.Contains(prompt, "- Insatisfatório: Não informado") {
		t.Fatal("missing rubric cells must render the placeholder")
	}

	// Exactly one output-template line per competency.
	for _, name := range []string{"Comunicação", "Liderança"} {
		line := "- " + name + ": [categoria]"
		if strings.Count(prompt, line) != 1 {
			t.Fatalf("want exactly one template line for %q", name)
		}
	}
	if strings.Contains(prompt, "Valores organizacionais") {
		t.Fatal("competencies mode must not fall back to organizational values")
	}
}

func TestBuildPromptDefaultsMissingFields(t *testing.T) {
	prompt := BuildPrompt(Input{})
	if strings.Count(prompt, "Não informado") < 5 {
		t.Fatal("every missing input field must render the placeholder")
	}
	if !strings.Contains(prompt, "não a inclua como seção do output") {
		t.Fatal("the refinement step must be marked internal")
	}
}
