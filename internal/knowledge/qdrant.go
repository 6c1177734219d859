package knowledge

import (
	"context"
	"fmt"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/claimsight/claimsight/internal/model"
)

// QdrantStore is a knowledge store backed by a Qdrant collection over gRPC.
// Rebuild recreates the collection, which gives full-reindex semantics; runs
// sharing one Qdrant instance should use distinct collection names.
type QdrantStore struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	collection  string
	embedder    Embedder
}

// NewQdrantStore connects to Qdrant at the given gRPC address
func NewQdrantStore(addr, collection string, embedder Embedder) (*QdrantStore, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, &IndexError{Op: "rebuild", Err: fmt.Errorf("dial qdrant %s: %w", addr, err)}
	}
	return &QdrantStore{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
		embedder:    embedder,
	}, nil
}

// Close closes the underlying gRPC connection
func (s *QdrantStore) Close() error {
	return s.conn.Close()
}

// Rebuild drops and recreates the collection, then indexes the given chunks
func (s *QdrantStore) Rebuild(ctx context.Context, chunks []model.Chunk) error {
	if err := s.recreateCollection(ctx); err != nil {
		return &IndexError{Op: "rebuild", Err: err}
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return &IndexError{Op: "rebuild", Err: err}
	}

	points := make([]*pb.PointStruct, len(chunks))
	for i, c := range chunks {
		points[i] = &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: c.ID},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: vectors[i]},
				},
			},
			Payload: map[string]*pb.Value{
				"content": {Kind: &pb.Value_StringValue{StringValue: c.Content}},
				"source":  {Kind: &pb.Value_StringValue{StringValue: c.Source}},
				"index":   {Kind: &pb.Value_IntegerValue{IntegerValue: int64(c.Index)}},
			},
		}
	}

	wait := true
	_, err = s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return &IndexError{Op: "rebuild", Err: fmt.Errorf("upsert %d points: %w", len(points), err)}
	}
	return nil
}

// Query embeds text and runs a k-NN search against the collection
func (s *QdrantStore) Query(ctx context.Context, text string, topK int) ([]ScoredChunk, error) {
	vectors, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, &IndexError{Op: "query", Err: err}
	}

	resp, err := s.points.Search(ctx, &pb.SearchPoints{
		CollectionName: s.collection,
		Vector:         vectors[0],
		Limit:          uint64(topK),
		WithPayload: &pb.WithPayloadSelector{
			SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, &IndexError{Op: "query", Err: err}
	}

	results := make([]ScoredChunk, len(resp.GetResult()))
	for i, r := range resp.GetResult() {
		chunk := model.Chunk{ID: r.GetId().GetUuid()}
		for k, val := range r.GetPayload() {
			switch k {
			case "content":
				chunk.Content = val.GetStringValue()
			case "source":
				chunk.Source = val.GetStringValue()
			case "index":
				chunk.Index = int(val.GetIntegerValue())
			}
		}
		results[i] = ScoredChunk{Chunk: chunk, Score: r.GetScore()}
	}
	return results, nil
}

// recreateCollection deletes the collection if present and creates it fresh
func (s *QdrantStore) recreateCollection(ctx context.Context) error {
	list, err := s.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == s.collection {
			if _, err := s.collections.Delete(ctx, &pb.DeleteCollection{
				CollectionName: s.collection,
			}); err != nil {
				return fmt.Errorf("delete collection %s: %w", s.collection, err)
			}
			break
		}
	}

	dims := uint64(s.embedder.Dimensions())
	_, err = s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     dims,
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", s.collection, err)
	}
	return nil
}
