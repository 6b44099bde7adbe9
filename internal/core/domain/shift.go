package domain

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// RunningShift is the open shift of one user.
type RunningShift struct {
	Start    Timestamp `json:"start"`
	Username string    `json:"username"`
}

// UnmarshalJSON also accepts the bare start time string older documents hold.
func (r *RunningShift) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var start Timestamp
		if err := start.UnmarshalJSON(data); err != nil {
			return fmt.Errorf("running shift: %w", err)
		}
		*r = RunningShift{Start: start}
		return nil
	}
	type plain RunningShift
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = RunningShift(p)
	return nil
}

// ShiftRecord is a closed shift. Records are prepended, never edited.
type ShiftRecord struct {
	Start   Timestamp       `json:"start"`
	End     Timestamp       `json:"end"`
	Minutes int             `json:"minutes"`
	Pay     decimal.Decimal `json:"pay"`
}

// RunningShifts is the running-shifts document, keyed by Identity.Key.
// Entries under Identity.LegacyKey are still honoured.
type RunningShifts map[string]RunningShift

// Lookup returns the open shift of identity and the key it is stored under.
func (r RunningShifts) Lookup(identity Identity) (string, RunningShift, bool) {
	for _, key := range identity.storageKeys() {
		if shift, ok := r[key]; ok {
			if shift.Username == "" {
				shift.Username = identity.DisplayName()
			}
			return key, shift, true
		}
	}
	return "", RunningShift{}, false
}

// ShiftHistory is the shift-history document, keyed by Identity.Key.
// Records under Identity.LegacyKey are older than the ones under the id.
type ShiftHistory map[string][]ShiftRecord

// For returns the records of identity, most recent first.
func (h ShiftHistory) For(identity Identity) []ShiftRecord {
	records := []ShiftRecord{}
	for _, key := range identity.storageKeys() {
		records = append(records, h[key]...)
	}
	return records
}

// Prepend adds record in front of the identity's history and moves legacy
// records under the id key.
func (h ShiftHistory) Prepend(identity Identity, record ShiftRecord) {
	h[identity.Key()] = append([]ShiftRecord{record}, h.For(identity)...)
	if legacy := identity.LegacyKey(); legacy != "" {
		delete(h, legacy)
	}
}
