// ABOUTME: Run summary for the generation driver.
// ABOUTME: Counts created, rejected, and skipped records per SObject.

package seed

import (
	"fmt"
	"sort"
	"strings"
)

type Summary struct {
	Created map[string]int
	Failed  map[string]int
	// Skipped counts children never attempted because their parent failed.
	Skipped map[string]int
	// OwnerCursor is the number of owner assignments made (accounts + leads).
	OwnerCursor int
}

func newSummary() Summary {
	return Summary{
		Created: map[string]int{},
		Failed:  map[string]int{},
		Skipped: map[string]int{},
	}
}

func (s *Summary) create(sobject string) { s.Created[sobject]++ }

func (s *Summary) fail(sobject string) { s.Failed[sobject]++ }

func (s *Summary) skip(sobject string, n int) {
	if n > 0 {
		s.Skipped[sobject] += n
	}
}

func (s Summary) TotalCreated() int {
	total := 0
	for _, n := range s.Created {
		total += n
	}
	return total
}

func (s Summary) String() string {
	return fmt.Sprintf("created %d records (%s); failed: %s; skipped: %s",
		s.TotalCreated(), formatCounts(s.Created), formatCounts(s.Failed), formatCounts(s.Skipped))
}

func formatCounts(m map[string]int) string {
	if len(m) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, m[k]))
	}
	return strings.Join(parts, ", ")
}
