package draft

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"angella-backend/internal/submission"
)

// storageKey is the fixed namespace for the saved draft. There is at most
// one draft at a time; saving overwrites whatever was there.
const storageKey = "angella_user_data"

// Store keeps the in-progress submission alive across the full-page
// redirect to the payment provider. It writes a single JSON file under a
// client-local directory, the durable-storage role the browser's
// localStorage plays in the web client.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path() string {
	return filepath.Join(s.dir, storageKey+".json")
}

// Save serializes the submission under the fixed key, replacing any prior
// draft. No validation happens here; the caller gates checkout eligibility
// before redirecting.
func (s *Store) Save(sub submission.Submission) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to serialize draft: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create draft directory: %w", err)
	}
	if err := os.WriteFile(s.path(), data, 0o600); err != nil {
		return fmt.Errorf("failed to write draft: %w", err)
	}
	return nil
}

// Restore returns the stored submission if one is present and parseable.
// The draft is drained on a successful read: a second Restore without an
// intervening Save reports absent. Parse failures are treated exactly like
// absence — logged, never surfaced.
func (s *Store) Restore() (submission.Submission, bool) {
	var sub submission.Submission

	data, err := os.ReadFile(s.path())
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("failed to read draft: %v", err)
		}
		return sub, false
	}

	if err := json.Unmarshal(data, &sub); err != nil {
		log.Printf("failed to restore draft: %v", err)
		s.Clear()
		return submission.Submission{}, false
	}

	s.Clear()
	return sub, true
}

// Clear removes the stored draft. Removing an absent draft is fine.
func (s *Store) Clear() {
	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to clear draft: %v", err)
	}
}
