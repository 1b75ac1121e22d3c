package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/fcleague/internal/adapters/mq/kafka"
	"github.com/okian/fcleague/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestPublishEncodesEvent(t *testing.T) {
	producer := mocks.NewSyncProducer(t, kafka.NewConfig())
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "t1" {
			return errors.New("message not keyed by tournament")
		}
		if msg.Topic != "league.events" {
			return errors.New("wrong topic " + msg.Topic)
		}
		raw, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var got map[string]any
		if err := json.Unmarshal(raw, &got); err != nil {
			return err
		}
		if got["type"] != "match.recorded" || got["tournament_id"] != "t1" {
			return errors.New("unexpected body " + string(raw))
		}
		return nil
	})

	p := kafka.NewSaramaPublisher(producer, "league.events")
	err := p.Publish(context.Background(), kafka.Event{
		Type:         kafka.MatchRecorded,
		TournamentID: "t1",
		OccurredAt:   at,
		Payload:      map[string]int{"score1": 2, "score2": 1},
	})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestPublishFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, kafka.NewConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := kafka.NewSaramaPublisher(producer, "league.events")
	err := p.Publish(context.Background(), kafka.Event{Type: kafka.CouponsScored, TournamentID: "t1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestPublishRejectsIncompleteEvent(t *testing.T) {
	producer := mocks.NewSyncProducer(t, kafka.NewConfig())
	p := kafka.NewSaramaPublisher(producer, "league.events")

	err := p.Publish(context.Background(), kafka.Event{Type: kafka.TournamentFinalized})
	assert.ErrorIs(t, err, kafka.ErrBadEvent)
	require.NoError(t, p.Close())
}

func TestNoop(t *testing.T) {
	var p kafka.Publisher = kafka.Noop{}
	assert.NoError(t, p.Publish(context.Background(), kafka.Event{}))
	assert.NoError(t, p.Close())
}
