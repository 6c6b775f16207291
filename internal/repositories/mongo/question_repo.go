package mongo

import (
	"context"
	"errors"
	"time"

	"jobprep/interview/internal/questionbank"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const questionSetsCollection = "question_sets"

// questionSetDoc is the stored shape of a role's question set.
type questionSetDoc struct {
	Role       string              `bson:"role"`
	Questions  []string            `bson:"questions"`
	Difficulty map[string][]string `bson:"difficulty,omitempty"`
	Status     string              `bson:"status"`
	UpdatedAt  time.Time           `bson:"updated_at"`
}

// Repo wraps the question set collection
type Repo struct{ col *mongo.Collection }

// NewQuestionSetRepo ensures a unique index on role.
func NewQuestionSetRepo(ctx context.Context, c *Client) (*Repo, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}
	r := &Repo{col: db.Collection(questionSetsCollection)}

	_, _ = r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "role", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return r, nil
}

// ListActive returns every active question set.
func (r *Repo) ListActive(ctx context.Context) ([]questionbank.QuestionSet, error) {
	cur, err := r.col.Find(ctx, bson.M{"status": "active"})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []questionSetDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]questionbank.QuestionSet, 0, len(docs))
	for _, d := range docs {
		out = append(out, questionbank.QuestionSet{
			Role:       d.Role,
			Questions:  d.Questions,
			Difficulty: d.Difficulty,
		})
	}
	return out, nil
}

// Upsert stores or replaces the set for its role.
func (r *Repo) Upsert(ctx context.Context, set questionbank.QuestionSet) error {
	if set.Role == "" {
		return errors.New("role required")
	}
	doc := questionSetDoc{
		Role:       set.Role,
		Questions:  set.Questions,
		Difficulty: set.Difficulty,
		Status:     "active",
		UpdatedAt:  time.Now().UTC(),
	}
	_, err := r.col.ReplaceOne(ctx, bson.M{"role": set.Role}, doc, options.Replace().SetUpsert(true))
	return err
}

// LoadInto merges the stored sets into bank and reports how many were applied.
func (r *Repo) LoadInto(ctx context.Context, bank *questionbank.Bank) (int, error) {
	sets, err := r.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	merged, _ := bank.Merge(sets)
	return merged, nil
}
