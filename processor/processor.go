// Package processor transforms downloaded files in place.
package processor

// Processor post-processes the file at path.
type Processor interface {
	Do(path string) error
}

// Chain runs processors in order, stopping at the first failure.
type Chain []Processor

func (chain Chain) Do(path string) error {
	for _, processor := range chain {
		if processor == nil {
			continue
		}
		if err := processor.Do(path); err != nil {
			return err
		}
	}
	return nil
}
