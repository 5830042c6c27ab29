package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/MrJamesThe3rd/estoque/internal/apperr"
	"github.com/MrJamesThe3rd/estoque/internal/invoice"
)

type statsDoc struct {
	Count      int64   `bson:"totalNotas"`
	TotalValue float64 `bson:"valorTotal"`
	Issued     int64   `bson:"emitidas"`
	Cancelled  int64   `bson:"canceladas"`
	Pending    int64   `bson:"pendentes"`
}

func countWhere(status invoice.Status) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{
		bson.M{"$in": bson.A{"$status", storedStatuses(status)}},
		1,
		0,
	}}}
}

// Stats groups every invoice into a single document. An empty collection
// yields no group, which is reported as all zeros.
func (s *Store) Stats(ctx context.Context) (*invoice.Stats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":        nil,
			"totalNotas": bson.M{"$sum": 1},
			"valorTotal": bson.M{"$sum": "$total"},
			"emitidas":   countWhere(invoice.StatusIssued),
			"canceladas": countWhere(invoice.StatusCancelled),
			"pendentes":  countWhere(invoice.StatusPending),
		}}},
	}

	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Store("aggregating invoice stats", err)
	}
	defer cur.Close(ctx)

	var docs []statsDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, apperr.Store("decoding invoice stats", err)
	}

	if len(docs) == 0 {
		return &invoice.Stats{}, nil
	}

	d := docs[0]

	return &invoice.Stats{
		Count:      d.Count,
		TotalValue: d.TotalValue,
		Issued:     d.Issued,
		Cancelled:  d.Cancelled,
		Pending:    d.Pending,
	}, nil
}
