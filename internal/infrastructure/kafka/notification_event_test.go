package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationEvent_Decode(t *testing.T) {
	n := domain.Notification{
		UserID:     "buyer",
		Kind:       domain.EventIssueCreated,
		Payload:    map[string]string{"issue_code": "ISS00000007"},
		OccurredAt: time.Date(2024, 3, 5, 12, 30, 0, 0, time.UTC),
	}
	value, err := json.Marshal(NewNotificationEvent(n))
	require.NoError(t, err)

	event, err := DecodeNotificationEvent(domain.Message{Key: []byte(n.UserID), Value: value})
	require.NoError(t, err)
	assert.Equal(t, "buyer", event.UserID)
	assert.Equal(t, string(domain.EventIssueCreated), event.EventKind)
	assert.Equal(t, "ISS00000007", event.Payload["issue_code"])
	assert.True(t, n.OccurredAt.Equal(event.OccurredAt))

	_, err = DecodeNotificationEvent(domain.Message{Value: []byte("{not json")})
	assert.Error(t, err)
}

func TestSaslMechanism(t *testing.T) {
	m, err := saslMechanism(KafkaConfig{})
	require.NoError(t, err)
	assert.Nil(t, m)

	tests := []struct {
		mechanism string
		want      string
		wantErr   bool
	}{
		{mechanism: "", want: "PLAIN"},
		{mechanism: "plain", want: "PLAIN"},
		{mechanism: "SCRAM-SHA-256", want: "SCRAM-SHA-256"},
		{mechanism: "scram-sha-512", want: "SCRAM-SHA-512"},
		{mechanism: "GSSAPI", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.mechanism, func(t *testing.T) {
			m, err := saslMechanism(KafkaConfig{Username: "u", Password: "p", Mechanism: tt.mechanism})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Name())
		})
	}
}

func TestNewKafkaPublisher_RequiresBrokersAndTopic(t *testing.T) {
	_, err := NewKafkaPublisher(KafkaConfig{Topic: "dispute-events"})
	assert.Error(t, err)
	_, err = NewKafkaPublisher(KafkaConfig{Brokers: []string{"localhost:9092"}})
	assert.Error(t, err)
}
