package refindex

import (
	"sort"
	"time"

	"github.com/buildforge/depscope/pkg/project"
)

// Drift is one resource key whose live referrer count disagrees with the
// count recomputed from the structural model.
type Drift struct {
	Key      ResourceKey `json:"key"`
	Expected int         `json:"expected"`
	Actual   int         `json:"actual"`
}

// AuditReport is the result of one consistency audit.
type AuditReport struct {
	CheckedAt   time.Time `json:"checked_at"`
	ModuleCount int       `json:"module_count"`
	KeyCount    int       `json:"key_count"`
	Drift       []Drift   `json:"drift,omitempty"`
}

// Clean reports whether the audit found no drift.
func (r AuditReport) Clean() bool {
	return len(r.Drift) == 0
}

// Audit recomputes the expected referrer count of every resource from the
// current model snapshot and compares it against the live reference table.
// The invariant checked: for each tracked resource, the table's referrer count
// equals the number of live modules whose current dependency list contains it.
//
// Runs under the model's read lock; diagnostic only, no index state changes.
func (ix *Index) Audit() AuditReport {
	report := AuditReport{CheckedAt: time.Now()}

	ix.model.WithSnapshot(func(modules []project.Module) {
		report.ModuleCount = len(modules)

		expected := make(map[ResourceKey]int)
		for _, mod := range modules {
			// A module's duplicate declarations of the same resource count
			// once, matching reference-table set semantics.
			seen := make(map[ResourceKey]struct{})
			for _, item := range mod.Dependencies {
				key, tracked := keyFor(item)
				if !tracked {
					continue
				}
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
				expected[key]++
			}
		}

		actual := ix.refs.Counts()
		report.KeyCount = len(actual)

		for key, want := range expected {
			if got := actual[key]; got != want {
				report.Drift = append(report.Drift, Drift{Key: key, Expected: want, Actual: got})
			}
		}
		for key, got := range actual {
			if _, known := expected[key]; !known {
				report.Drift = append(report.Drift, Drift{Key: key, Expected: 0, Actual: got})
			}
		}
	})

	sort.Slice(report.Drift, func(i, j int) bool {
		return report.Drift[i].Key.String() < report.Drift[j].Key.String()
	})

	if ix.metrics != nil {
		ix.metrics.AuditDriftKeys.Set(float64(len(report.Drift)))
	}
	if !report.Clean() {
		ix.log.WithField("drift_keys", len(report.Drift)).Warn("dependency index drift detected")
	}
	return report
}
