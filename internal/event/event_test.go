package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestInMemoryBus(t *testing.T) {
	t.Run("delivers to every subscriber", func(t *testing.T) {
		bus := NewBus()
		first, unsubFirst := bus.Subscribe()
		second, unsubSecond := bus.Subscribe()
		defer unsubFirst()
		defer unsubSecond()

		bus.Publish(New(TypeRecipeLiked, "u1", Activity{RecipeID: "r1"}))

		for _, ch := range []<-chan Event{first, second} {
			select {
			case e := <-ch:
				assert.Equal(t, TypeRecipeLiked, e.Type)
				assert.Equal(t, "r1", e.Payload.RecipeID)
			case <-time.After(time.Second):
				t.Fatal("event not delivered")
			}
		}
	})

	t.Run("full subscriber does not block publisher", func(t *testing.T) {
		bus := NewBus()
		_, unsub := bus.Subscribe()
		defer unsub()

		done := make(chan struct{})
		go func() {
			for i := 0; i < subscriberBuffer*2; i++ {
				bus.Publish(New(TypeRecipeRated, "u1", Activity{}))
			}
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("publish blocked")
		}
	})

	t.Run("close ends subscriptions", func(t *testing.T) {
		bus := NewBus()
		ch, unsub := bus.Subscribe()
		bus.Close()
		unsub()

		_, open := <-ch
		assert.False(t, open)

		late, _ := bus.Subscribe()
		_, open = <-late
		assert.False(t, open)
	})
}

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockWriter) Close() error {
	return m.Called().Error(0)
}

func TestKafkaForwarder_Forward(t *testing.T) {
	writer := new(mockWriter)
	forwarder := &KafkaForwarder{writer: writer}
	e := New(TypeRecipeCommented, "actor-1", Activity{RecipeID: "r1", OwnerID: "owner-1"})

	writer.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		if len(msgs) != 1 || string(msgs[0].Key) != "actor-1" {
			return false
		}
		var decoded Event
		if err := json.Unmarshal(msgs[0].Value, &decoded); err != nil {
			return false
		}
		return decoded.ID == e.ID && decoded.Payload.OwnerID == "owner-1"
	})).Return(nil).Once()

	require.NoError(t, forwarder.Forward(context.Background(), e))
	writer.AssertExpectations(t)
}

func TestKafkaForwarder_RunSkipsFailures(t *testing.T) {
	writer := new(mockWriter)
	forwarder := &KafkaForwarder{writer: writer}
	writer.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("broker down")).Twice()

	events := make(chan Event, 2)
	events <- New(TypeRecipeLiked, "a", Activity{})
	events <- New(TypeRecipeLiked, "b", Activity{})
	close(events)

	forwarder.Run(context.Background(), events)
	writer.AssertExpectations(t)
}
