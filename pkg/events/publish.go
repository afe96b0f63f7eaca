package events

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog/log"
)

// PublisherManager distributes payloads to a set of publishers. You
// "subscribe" a publisher under a topic, and every Publish call sends the
// serialized payload to all publishers on the topic they were subscribed
// with.
//
// The manager stamps each outgoing message with a sequence number, in the
// order the messages are handled by Publish, so subscribers can check that
// nothing was reordered on the way.
type PublisherManager struct {
	publishers     map[string][]message.Publisher
	sequenceNumber uint64
	mu             sync.Mutex
}

func NewPublisherManager() *PublisherManager {
	return &PublisherManager{
		publishers: make(map[string][]message.Publisher),
	}
}

func (p *PublisherManager) SubscribePublisher(topic string, pub message.Publisher) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.publishers[topic] = append(p.publishers[topic], pub)
}

// Publish serializes the payload to JSON and distributes it to all
// registered publishers across all topics.
func (p *PublisherManager) Publish(payload interface{}) error {
	// lock for the sequence number
	p.mu.Lock()
	defer p.mu.Unlock()

	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), b)
	msg.Metadata.Set("sequence_number", fmt.Sprintf("%d", p.sequenceNumber))
	p.sequenceNumber++

	for topic, pubs := range p.publishers {
		for _, pub := range pubs {
			err = pub.Publish(topic, msg)
			if err != nil {
				log.Warn().Err(err).Str("topic", topic).Msg("failed to publish")
			}
		}
	}

	return nil
}

func (p *PublisherManager) PublishBlind(payload interface{}) {
	err := p.Publish(payload)
	if err != nil {
		log.Warn().Err(err).Msg("failed to publish")
	}
}
