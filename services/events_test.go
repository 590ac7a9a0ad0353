package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Viciouslight/YukiSoraShop-sub000/models"
	"github.com/Viciouslight/YukiSoraShop-sub000/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct {
	topic      string
	message    []byte
	attributes map[string]string
}

func (f *fakeSNS) Publish(_ context.Context, topicArn string, message []byte, attributes map[string]string) error {
	f.topic = topicArn
	f.message = message
	f.attributes = attributes
	return nil
}

func TestSNSEventPublisher(t *testing.T) {
	client := &fakeSNS{}
	pub := services.NewSNSEventPublisher(client, "arn:aws:sns:ap-southeast-1:000000000000:payment-events")

	err := pub.Publish(context.Background(), models.PaymentEvent{
		EventID: "evt-1",
		Type:    models.EventPaymentSucceeded,
		OrderID: 7,
		Amount:  "110000.00",
	})
	require.NoError(t, err)

	assert.Equal(t, "arn:aws:sns:ap-southeast-1:000000000000:payment-events", client.topic)
	assert.Equal(t, map[string]string{"event_type": models.EventPaymentSucceeded}, client.attributes)

	var decoded models.PaymentEvent
	require.NoError(t, json.Unmarshal(client.message, &decoded))
	assert.Equal(t, uint(7), decoded.OrderID)
	assert.Equal(t, "110000.00", decoded.Amount)
}

func TestMultiPublisher_DeliversToAllAndJoinsErrors(t *testing.T) {
	ok := &recordingPublisher{}
	broken := &recordingPublisher{err: errors.New("kafka: leader not available")}

	err := services.MultiPublisher{broken, ok}.Publish(context.Background(), models.PaymentEvent{EventID: "evt-2"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "leader not available")
	assert.Len(t, ok.events, 1)
	assert.Len(t, broken.events, 1)
}

func TestMultiPublisher_Empty(t *testing.T) {
	assert.NoError(t, services.MultiPublisher(nil).Publish(context.Background(), models.PaymentEvent{}))
}
