package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ai-docgen-be/internal/dto"
	"ai-docgen-be/internal/entity"
	"ai-docgen-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishSectionMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal section message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	now := time.Now()
	section := entity.Section{
		Id:          payload.SectionId,
		DocumentId:  payload.DocumentId,
		SectionName: payload.SectionName,
		Content:     payload.Content,
		Status:      payload.Status,
		Position:    payload.Position,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uow.SectionRepository().Upsert(ctx, &section); err != nil {
		log.Printf("[ERROR] Failed to persist section %s: %v", payload.SectionId, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	msg.Ack()
}
