package ratchet

import (
	"fmt"
)

// Merge combines two edited versions of a store using "minimum wins".
//
// Every (rule, region) present in ours or theirs appears in the result: when
// both define it the smaller budget is kept, otherwise the defining side's
// value is used. Keys present only in the base (first argument) are dropped.
// The base takes no part in the decision; it is accepted so the signature
// mirrors a three-way merge.
//
// The merged budget for a key never exceeds either input's value for that
// key, so two independent tightenings combine into a result at least as tight
// as both.
func Merge(_, ours, theirs *Budgets) *Budgets {
	merged := NewBudgets()
	for _, e := range ours.Entries() {
		merged.SetCount(e.Rule, e.Region, e.Budget)
	}
	for _, e := range theirs.Entries() {
		if cur, ok := merged.Count(e.Rule, e.Region); ok && cur <= e.Budget {
			continue
		}
		merged.SetCount(e.Rule, e.Region, e.Budget)
	}
	return merged
}

// MergeFiles runs Merge over three counts files and writes the result over
// oursPath.
//
// A missing input file is an empty store, which lets a branch introduce
// entirely new rules. Any other read or parse failure aborts the merge before
// anything is written, leaving oursPath untouched. The final write is atomic.
func MergeFiles(basePath, oursPath, theirsPath string) error {
	base, err := loadMergeInput(basePath, "base")
	if err != nil {
		return err
	}
	ours, err := loadMergeInput(oursPath, "ours")
	if err != nil {
		return err
	}
	theirs, err := loadMergeInput(theirsPath, "theirs")
	if err != nil {
		return err
	}

	if err := Merge(base, ours, theirs).WriteFile(oursPath); err != nil {
		return fmt.Errorf("failed to write merged counts: %w", err)
	}
	return nil
}

func loadMergeInput(path, label string) (*Budgets, error) {
	b, err := LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s counts: %w", label, err)
	}
	return b, nil
}
