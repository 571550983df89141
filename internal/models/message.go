package models

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	MessagingDbName     = "taxdir"
	ConversationColName = "conversations"
	MessageColName      = "messages"
)

// Conversation is a two-party thread between a client and a professional,
// keyed by the sorted participant pair so StartConversation is idempotent.
type Conversation struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ParticipantA  uuid.UUID          `bson:"participant_a" json:"participant_a"`
	ParticipantB  uuid.UUID          `bson:"participant_b" json:"participant_b"`
	LastMessageAt time.Time          `bson:"last_message_at" json:"last_message_at"`
	CreatedAt     time.Time          `bson:"created_at,omitempty" json:"created_at,omitempty"`
}

type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConversationID primitive.ObjectID `bson:"conversation_id" json:"conversation_id"`
	SenderID       uuid.UUID          `bson:"sender_id" json:"sender_id"`
	Body           string             `bson:"body" json:"body" validate:"required,max=4000"`
	SentAt         time.Time          `bson:"sent_at" json:"sent_at"`
}

type MessageRepo interface {
	StartConversation(ctx context.Context, a, b uuid.UUID) (*Conversation, error)
	SendMessage(ctx context.Context, conversationID primitive.ObjectID, senderID uuid.UUID, body string) (*Message, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]*Conversation, error)
	ListMessages(ctx context.Context, conversationID primitive.ObjectID, limit int) ([]*Message, error)
	GetConversation(ctx context.Context, id primitive.ObjectID) (*Conversation, error)
}

// orderPair gives the canonical participant ordering used as the upsert key.
func orderPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() > b.String() {
		return b, a
	}
	return a, b
}

func (mdb *MongodbRepo) StartConversation(ctx context.Context, a, b uuid.UUID) (*Conversation, error) {
	col, err := mdb.GetCollection(ctx, MessagingDbName, ConversationColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	first, second := orderPair(a, b)
	now := time.Now()

	filter := bson.M{"participant_a": first, "participant_b": second}
	update := bson.M{
		"$setOnInsert": bson.M{
			"participant_a":   first,
			"participant_b":   second,
			"created_at":      now,
			"last_message_at": now,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var conv Conversation
	if err := col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&conv); err != nil {
		return nil, fmt.Errorf("error upserting conversation: %v", err)
	}

	return &conv, nil
}

func (mdb *MongodbRepo) GetConversation(ctx context.Context, id primitive.ObjectID) (*Conversation, error) {
	col, err := mdb.GetCollection(ctx, MessagingDbName, ConversationColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	var conv Conversation
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&conv); err != nil {
		return nil, fmt.Errorf("error finding conversation: %v", err)
	}

	return &conv, nil
}

func (mdb *MongodbRepo) SendMessage(ctx context.Context, conversationID primitive.ObjectID, senderID uuid.UUID, body string) (*Message, error) {
	col, err := mdb.GetCollection(ctx, MessagingDbName, MessageColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	msg := &Message{
		ID:             primitive.NewObjectID(),
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
		SentAt:         time.Now(),
	}

	if _, err := col.InsertOne(ctx, msg); err != nil {
		return nil, fmt.Errorf("error inserting message: %v", err)
	}

	convCol, err := mdb.GetCollection(ctx, MessagingDbName, ConversationColName)
	if err == nil {
		_, _ = convCol.UpdateOne(ctx,
			bson.M{"_id": conversationID},
			bson.M{"$set": bson.M{"last_message_at": msg.SentAt}},
		)
	}

	return msg, nil
}

func (mdb *MongodbRepo) ListConversations(ctx context.Context, userID uuid.UUID) ([]*Conversation, error) {
	col, err := mdb.GetCollection(ctx, MessagingDbName, ConversationColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	filter := bson.M{"$or": []bson.M{
		{"participant_a": userID},
		{"participant_b": userID},
	}}
	opts := options.Find().SetSort(bson.M{"last_message_at": -1})

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding conversations: %v", err)
	}
	defer cursor.Close(ctx)

	var conversations []*Conversation
	for cursor.Next(ctx) {
		var conv Conversation
		if err := cursor.Decode(&conv); err != nil {
			return nil, fmt.Errorf("error decoding conversation: %v", err)
		}
		conversations = append(conversations, &conv)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return conversations, nil
}

func (mdb *MongodbRepo) ListMessages(ctx context.Context, conversationID primitive.ObjectID, limit int) ([]*Message, error) {
	col, err := mdb.GetCollection(ctx, MessagingDbName, MessageColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %v", err)
	}

	opts := options.Find().
		SetSort(bson.M{"sent_at": -1}).
		SetLimit(int64(limit))

	cursor, err := col.Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding messages: %v", err)
	}
	defer cursor.Close(ctx)

	var messages []*Message
	for cursor.Next(ctx) {
		var msg Message
		if err := cursor.Decode(&msg); err != nil {
			return nil, fmt.Errorf("error decoding message: %v", err)
		}
		messages = append(messages, &msg)
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}

	return messages, nil
}
