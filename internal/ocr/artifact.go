package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const artifactCollection = "ocr_artifacts"

// ArtifactStore: ham OCR yanıtlarını doküman deposunda saklar.
// İlişkisel tarafta yalnızca doküman id'si tutulur.
type ArtifactStore struct {
	db *mongo.Database
}

func NewArtifactStore(db *mongo.Database) *ArtifactStore {
	return &ArtifactStore{db: db}
}

// Save: ham yanıtı kaydeder ve hex doküman id'sini döner.
func (s *ArtifactStore) Save(ctx context.Context, jobID string, storeID uint, raw json.RawMessage) (string, error) {
	var doc bson.M
	if err := bson.UnmarshalExtJSON(raw, true, &doc); err != nil {
		// Ayrıştırılamayan yanıt string olarak saklanır, veri kaybolmaz
		doc = bson.M{"raw_text": string(raw)}
	}

	res, err := s.db.Collection(artifactCollection).InsertOne(ctx, bson.M{
		"job_id":     jobID,
		"store_id":   storeID,
		"response":   doc,
		"created_at": time.Now(),
	})
	if err != nil {
		return "", fmt.Errorf("OCR çıktısı kaydedilemedi: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("beklenmeyen doküman id tipi: %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// Find: daha önce kaydedilmiş ham yanıtı getirir.
func (s *ArtifactStore) Find(ctx context.Context, artifactID string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(artifactID)
	if err != nil {
		return nil, fmt.Errorf("doküman id geçersiz: %w", err)
	}

	var doc bson.M
	err = s.db.Collection(artifactCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("OCR çıktısı sorgulanamadı: %w", err)
	}
	return doc, nil
}
