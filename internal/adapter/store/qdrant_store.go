package store

import (
	"context"
	"fmt"
	"time"

	"student-assistant/internal/domain/entity"
	"student-assistant/internal/logger"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// answerTTL is how long a cached tutor answer may be served.
const answerTTL = 7 * 24 * time.Hour

type QdrantStore struct {
	client         *qdrant.Client
	collectionName string
	log            *logger.Logger
	now            func() time.Time
}

func NewQdrantStore(client *qdrant.Client, collectionName string, log *logger.Logger) *QdrantStore {
	if log == nil {
		log = logger.Nop()
	}
	return &QdrantStore{
		client:         client,
		collectionName: collectionName,
		log:            log.With("component", "qdrant"),
		now:            time.Now,
	}
}

func (s *QdrantStore) InitCollection(ctx context.Context, dim uint64) error {
	_, err := s.client.GetCollectionInfo(ctx, s.collectionName)
	if err != nil {
		st, ok := status.FromError(err)
		if !ok || st.Code() != codes.NotFound {
			return err
		}
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.collectionName,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     dim,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
	}

	indexes := []struct {
		field string
		kind  qdrant.FieldType
	}{
		{"created_at", qdrant.FieldType_FieldTypeInteger},
		{"subject", qdrant.FieldType_FieldTypeKeyword},
	}
	for _, idx := range indexes {
		_, err = s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: s.collectionName,
			FieldName:      idx.field,
			FieldType:      idx.kind.Enum(),
			Wait:           qdrant.PtrOf(true),
		})
		if err != nil {
			s.log.Warn("could not create payload index (might already exist)", "field", idx.field, "error", err)
		}
	}
	return nil
}

func (s *QdrantStore) Search(ctx context.Context, vector []float32, threshold float32, filters map[string]string) (*entity.AIResponse, float32, string, error) {
	var mustConditions []*qdrant.Condition
	for key, value := range filters {
		mustConditions = append(mustConditions, qdrant.NewMatch(key, value))
	}

	oldest := s.now().Add(-answerTTL).Unix()
	mustConditions = append(mustConditions, &qdrant.Condition{
		ConditionOneOf: &qdrant.Condition_Field{
			Field: &qdrant.FieldCondition{
				Key: "created_at",
				Range: &qdrant.Range{
					Gte: qdrant.PtrOf(float64(oldest)),
				},
			},
		},
	})

	res, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Filter:         &qdrant.Filter{Must: mustConditions},
		Limit:          qdrant.PtrOf(uint64(1)),
		WithPayload:    qdrant.NewWithPayload(true),
		ScoreThreshold: &threshold,
	})
	if err != nil {
		return nil, 0, "", fmt.Errorf("qdrant query: %w", err)
	}
	if len(res) == 0 {
		return nil, 0, "", nil
	}

	hit := res[0]
	payload := hit.Payload
	resp := &entity.AIResponse{
		Content: payload["content"].GetStringValue(),
		Model:   payload["model"].GetStringValue(),
		Cached:  true,
		Score:   hit.Score,
	}
	return resp, hit.Score, payload["prompt"].GetStringValue(), nil
}

func (s *QdrantStore) Save(ctx context.Context, prompt string, resp *entity.AIResponse, vector []float32, metadata map[string]any) error {
	payload := map[string]any{
		"prompt":     prompt,
		"content":    resp.Content,
		"model":      resp.Model,
		"created_at": s.now().Unix(),
	}
	for k, v := range metadata {
		payload[k] = v
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collectionName,
		Points: []*qdrant.PointStruct{
			{
				Id:      qdrant.NewIDUUID(uuid.NewString()),
				Vectors: qdrant.NewVectors(vector...),
				Payload: qdrant.NewValueMap(payload),
			},
		},
	})
	return err
}
