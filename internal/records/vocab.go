// ABOUTME: Fixed vocabularies for randomized record fields.
// ABOUTME: Industries, lead and task statuses, call/task subjects, opportunity presets.

package records

// BillingCountry is the same for every generated account.
const BillingCountry = "United States"

// TaskStatusCompleted is the only status a logged call can have.
const TaskStatusCompleted = "Completed"

var Industries = []string{"Technology", "Finance", "Healthcare", "Food & Beverage"}

var LeadStatuses = []string{"New", "Working", "Closed - Not Converted"}

var TaskStatuses = []string{"Not Started", "In Progress", TaskStatusCompleted}

var CallSubjects = []string{
	"Call with client",
	"Follow-up call",
	"Discussion about project",
	"Client feedback call",
	"Call to negotiate terms",
	"Introduction call",
	"Call to discuss quote",
	"Check-in call",
	"Call to update on progress",
	"Call to resolve issues",
}

var TaskSubjects = []string{
	"Send quote",
	"Prepare contract",
	"Schedule meeting",
	"Conduct research",
	"Draft email to client",
	"Update project plan",
	"Review contract terms",
	"Create presentation",
	"Send reminder for meeting",
	"Follow up on action items",
}

// OpportunityPreset holds the stage vocabulary and amount bounds (inclusive)
// used for generated opportunities.
type OpportunityPreset struct {
	Stages    []string
	MinAmount int
	MaxAmount int
}

var FullPreset = OpportunityPreset{
	Stages: []string{
		"Qualifying",
		"Active",
		"Proposal/Price Quote",
		"Ready to Close",
		"Closed Won",
		"Closed Lost",
	},
	MinAmount: 1000,
	MaxAmount: 200000,
}

var BasicPreset = OpportunityPreset{
	Stages: []string{
		"Prospecting",
		"Qualification",
		"Proposal/Price Quote",
		"Closed Won",
		"Closed Lost",
	},
	MinAmount: 1000,
	MaxAmount: 100000,
}
