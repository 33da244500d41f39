package cmd

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ppartarr/reel/batch"
	"github.com/ppartarr/reel/match"
)

// confirm asks a yes/no question, answering fallback when headless
// or when the user just hits enter.
func (session *Session) confirm(fallback bool, format string, a ...any) bool {
	if session.Headless {
		return fallback
	}
	hint := "[y/N]"
	if fallback {
		hint = "[Y/n]"
	}
	switch strings.ToLower(session.Window.Reads("%s %s", fmt.Sprintf(format, a...), hint)) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return fallback
	}
}

// decide is consulted before every installation: proposals carrying
// warnings need an explicit approval.
func (session *Session) decide(proposal *batch.Proposal) error {
	if len(proposal.Warnings) == 0 {
		return nil
	}
	if proposal.Candidate != nil {
		session.Window.Printf("%s ⟶ %s", proposal.Track, proposal.Candidate.Title)
	}
	for _, warning := range proposal.Warnings {
		session.Window.AnchorPrintf("%s", warning)
	}
	if !session.confirm(false, "Download anyway?") {
		return batch.ErrUserCancelled
	}
	return nil
}

// choose lets the user pick a raw search result by its number.
func (session *Session) choose(item batch.Item, candidates []match.Candidate) (*match.Candidate, error) {
	session.Window.Printf("No catalog entry for %s, search results:", item)
	for i, candidate := range candidates {
		session.Window.Printf("%d. %s [%s] %s", i+1, candidate.Title, duration(candidate), candidate.Uploader)
	}
	answer := session.Window.Reads("Pick a result (1-%d), empty to skip:", len(candidates))
	if answer == "" || answer == "0" {
		return nil, batch.ErrUserCancelled
	}
	choice, err := strconv.Atoi(answer)
	if err != nil || choice < 1 || choice > len(candidates) {
		return nil, fmt.Errorf("%w: invalid choice %q", batch.ErrUserCancelled, answer)
	}
	return &candidates[choice-1], nil
}

// pick asks for a 1-based index within n entries, defaulting to the first.
func (session *Session) pick(n int, format string, a ...any) (int, bool) {
	if session.Headless {
		return 0, true
	}
	answer := session.Window.Reads("%s [1-%d, 0 to cancel]", fmt.Sprintf(format, a...), n)
	if answer == "" {
		return 0, true
	}
	choice, err := strconv.Atoi(answer)
	if err != nil || choice < 1 || choice > n {
		return 0, false
	}
	return choice - 1, true
}

// parseSelection turns "1,3,5" or "2-4" into sorted 0-based indexes
// below n.
func parseSelection(input string, n int) ([]int, error) {
	var indexes []int
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		first, last, found := strings.Cut(part, "-")
		from, err := strconv.Atoi(strings.TrimSpace(first))
		if err != nil {
			return nil, fmt.Errorf("invalid selection %q", part)
		}
		to := from
		if found {
			if to, err = strconv.Atoi(strings.TrimSpace(last)); err != nil {
				return nil, fmt.Errorf("invalid selection %q", part)
			}
		}
		if from < 1 || to > n || from > to {
			return nil, fmt.Errorf("selection %q out of range 1-%d", part, n)
		}
		for i := from; i <= to; i++ {
			if !slices.Contains(indexes, i-1) {
				indexes = append(indexes, i-1)
			}
		}
	}
	slices.Sort(indexes)
	return indexes, nil
}

// without drops the entries at the given 0-based indexes.
func without[T any](entries []T, indexes []int) []T {
	kept := make([]T, 0, len(entries))
	for i, entry := range entries {
		if !slices.Contains(indexes, i) {
			kept = append(kept, entry)
		}
	}
	return kept
}

func duration(candidate match.Candidate) string {
	if !candidate.HasDuration {
		return "?"
	}
	seconds := int(candidate.Duration)
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// approve shows every proposal and asks before downloading it.
func (session *Session) approve(proposal *batch.Proposal) error {
	if proposal.Candidate != nil {
		session.Window.Printf("%s ⟶ %s [%s] %s",
			proposal.Track, proposal.Candidate.Title, duration(*proposal.Candidate), proposal.Candidate.Locator)
	}
	for _, warning := range proposal.Warnings {
		session.Window.AnchorPrintf("%s", warning)
	}
	if !session.confirm(len(proposal.Warnings) == 0, "Download?") {
		return batch.ErrUserCancelled
	}
	return nil
}
