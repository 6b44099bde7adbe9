package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/SscSPs/homeos_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339", "2024-05-01T12:30:00Z", time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)},
		{"rfc3339 with offset", "2024-05-01T15:30:00+03:00", time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)},
		{"zoneless with micros", "2024-05-01T12:30:00.123456", time.Date(2024, 5, 1, 12, 30, 0, 123456000, time.UTC)},
		{"zoneless seconds", "2024-05-01T12:30:00", time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)},
		{"space separated", "2024-05-01 12:30:00", time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)},
		{"empty", "", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ParseTimestamp(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got.Time), "got %s", got.Time)
		})
	}

	_, err := domain.ParseTimestamp("yesterday")
	assert.Error(t, err)
}

func TestTimestamp_RoundTrip(t *testing.T) {
	ts := domain.NewTimestamp(time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("MSK", 3*3600)))

	raw, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2026-01-02T00:04:05Z"`, string(raw))

	var back domain.Timestamp
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, ts.Equal(back.Time))
}

func TestLegacyHistoryDocument(t *testing.T) {
	raw := `[{"time":"2024-05-01T12:30:00.123456","from":"alice","to":"bob","amount":30.5,"comment":"lunch","type":"transfer"}]`

	var history []domain.Transaction
	require.NoError(t, json.Unmarshal([]byte(raw), &history))

	require.Len(t, history, 1)
	assert.Equal(t, 2024, history[0].Time.Year())
	assert.True(t, decimal.RequireFromString("30.5").Equal(history[0].Amount))
	assert.True(t, history[0].Involves(domain.Identity{UserID: 7, Username: "bob"}))
}

func TestLegacyRunningShifts(t *testing.T) {
	raw := `{"alice":"2024-05-01T09:00:00.5","1002":{"start":"2026-01-01T08:00:00Z","username":"bob"}}`

	var running domain.RunningShifts
	require.NoError(t, json.Unmarshal([]byte(raw), &running))

	key, shift, ok := running.Lookup(domain.Identity{UserID: 1001, Username: "alice"})
	require.True(t, ok)
	assert.Equal(t, "alice", key)
	assert.Equal(t, 9, shift.Start.Hour())
	assert.Equal(t, "alice", shift.Username)

	key, shift, ok = running.Lookup(domain.Identity{UserID: 1002, Username: "bob"})
	require.True(t, ok)
	assert.Equal(t, "1002", key)
	assert.Equal(t, "bob", shift.Username)

	_, _, ok = running.Lookup(domain.Identity{UserID: 1003, Username: "carol"})
	assert.False(t, ok)
}

func TestShiftHistory_MergesLegacyRecords(t *testing.T) {
	raw := `{"alice":[{"start":"2024-05-01T09:00:00","end":"2024-05-01T17:00:00","minutes":480,"pay":100}]}`
	alice := domain.Identity{UserID: 1001, Username: "alice"}

	var history domain.ShiftHistory
	require.NoError(t, json.Unmarshal([]byte(raw), &history))
	require.Len(t, history.For(alice), 1)

	history.Prepend(alice, domain.ShiftRecord{Minutes: 60, Pay: decimal.NewFromInt(10)})

	records := history.For(alice)
	require.Len(t, records, 2)
	assert.Equal(t, 60, records[0].Minutes)
	assert.Equal(t, 480, records[1].Minutes)
	assert.NotContains(t, history, "alice")
	assert.Len(t, history["1001"], 2)
}

func TestIdentity_LegacyKey(t *testing.T) {
	assert.Equal(t, "alice", domain.Identity{UserID: 1, Username: "alice"}.LegacyKey())
	assert.Equal(t, "Alice", domain.Identity{UserID: 1, FirstName: "Alice"}.LegacyKey())
	assert.Equal(t, "", domain.Identity{UserID: 5, Username: "5"}.LegacyKey())
}

func TestAccount_KeepsUnknownFields(t *testing.T) {
	raw := `{"telegram_id":1,"username":"alice","balance":1000,"isAdmin":false,"online":true,"deleted":false}`

	var acc domain.Account
	require.NoError(t, json.Unmarshal([]byte(raw), &acc))
	assert.True(t, decimal.NewFromInt(1000).Equal(acc.Balance))
	assert.Equal(t, json.RawMessage(`true`), acc.Extra["online"])

	acc.Balance = decimal.NewFromInt(970)
	out, err := json.Marshal(acc)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(out, &fields))
	assert.Equal(t, true, fields["online"])
	assert.Equal(t, "alice", fields["username"])
	assert.NotContains(t, fields, "Extra")
}
