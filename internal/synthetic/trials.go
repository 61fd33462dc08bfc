package synthetic

import (
	"fmt"

	"github.com/sells-group/pharma-intel/internal/model"
)

var trialPhases = []string{"Phase 1", "Phase 2", "Phase 3", "Phase 4"}

var trialStatuses = []string{
	"Recruiting", "Active, not recruiting", "Completed", "Not yet recruiting",
}

var trialSponsors = []string{
	"National Institutes of Health",
	"Mayo Clinic",
	"Johns Hopkins University",
	"Pfizer Inc.",
	"Novartis Pharmaceuticals",
	"Merck Sharp & Dohme",
	"University of California",
	"Massachusetts General Hospital",
	"Cleveland Clinic",
	"Stanford University",
}

var trialTitleTemplates = []string{
	"A Study of Novel Treatment Approaches for %s",
	"Efficacy and Safety Study in Patients With %s",
	"Randomized Controlled Trial for %s Management",
	"Long-term Outcomes Study in %s",
	"Comparative Effectiveness Research in %s Treatment",
	"Biomarker-Guided Therapy for %s",
}

const maxTrials = 15

// Trials generates clinical trial records for a condition, at most 15 per
// call. Filter values are carried into every record verbatim when set.
func (g *Generator) Trials(term string, count int, f Filters) []model.ClinicalTrial {
	term = g.plausibleTerm(term)
	if count > maxTrials {
		count = maxTrials
	}

	trials := make([]model.ClinicalTrial, 0, count)
	for i := 0; i < count; i++ {
		phase := pick(g, trialPhases)
		if f.Phase != "" {
			phase = f.Phase
		}
		status := pick(g, trialStatuses)
		if f.Status != "" {
			status = f.Status
		}
		trials = append(trials, model.ClinicalTrial{
			NCTID:     fmt.Sprintf("NCT%08d", g.intBetween(10_000_000, 99_999_999)),
			Title:     fmt.Sprintf(pick(g, trialTitleTemplates), titleCase(term)),
			Condition: titleCase(term),
			Phase:     phase,
			Status:    status,
			Sponsor:   pick(g, trialSponsors),
		})
	}
	return trials
}
