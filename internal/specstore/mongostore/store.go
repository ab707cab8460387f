// Package mongostore implements specstore.Store on top of MongoDB: a
// "current" collection holding one document per workspace, and an
// append-only "history" collection recording every accepted version.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"modcraft/internal/specstore"
)

const (
	defaultCurrentCollection = "spec_current"
	defaultHistoryCollection = "spec_history"
	defaultTimeout           = 5 * time.Second
)

type (
	// Options configures the Mongo-backed Store.
	Options struct {
		Client             *mongo.Client
		Database           string
		CurrentCollection  string
		HistoryCollection  string
		Timeout            time.Duration
	}

	// Store implements specstore.Store against a MongoDB database.
	Store struct {
		current *mongo.Collection
		history *mongo.Collection
		timeout time.Duration
	}

	currentDocument struct {
		WorkspaceID string          `bson:"_id"`
		Version     int             `bson:"version"`
		Spec        specstore.ModSpec `bson:"spec"`
	}

	historyDocument struct {
		WorkspaceID string               `bson:"workspace_id"`
		Version     int                  `bson:"version"`
		Timestamp   time.Time            `bson:"timestamp"`
		ContentHash string               `bson:"content_hash"`
		Delta       *specstore.SpecDelta `bson:"delta,omitempty"`
		Notes       string               `bson:"notes,omitempty"`
		Spec        specstore.ModSpec    `bson:"spec"`
	}
)

// New returns a Store backed by the provided MongoDB client, ensuring the
// indexes the store's queries rely on exist.
func New(opts Options) (*Store, error) {
	if opts.Client == nil {
		return nil, errors.New("mongo client is required")
	}
	if opts.Database == "" {
		return nil, errors.New("database name is required")
	}
	currentColl := opts.CurrentCollection
	if currentColl == "" {
		currentColl = defaultCurrentCollection
	}
	historyColl := opts.HistoryCollection
	if historyColl == "" {
		historyColl = defaultHistoryCollection
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	db := opts.Client.Database(opts.Database)
	store := &Store{
		current: db.Collection(currentColl),
		history: db.Collection(historyColl),
		timeout: timeout,
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := store.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.history.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "workspace_id", Value: 1}, {Key: "version", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// Initialize establishes version 1 for workspaceID.
func (s *Store) Initialize(ctx context.Context, workspaceID string, seed specstore.ModSpec) (int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var existing currentDocument
	err := s.current.FindOne(ctx, bson.M{"_id": workspaceID}).Decode(&existing)
	if err == nil {
		return 0, specstore.SpecExists
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, err
	}

	hash, err := specstore.ContentHash(seed)
	if err != nil {
		return 0, err
	}
	if _, err := s.current.InsertOne(ctx, currentDocument{WorkspaceID: workspaceID, Version: 1, Spec: seed}); err != nil {
		return 0, err
	}
	if _, err := s.history.InsertOne(ctx, historyDocument{
		WorkspaceID: workspaceID,
		Version:     1,
		Timestamp:   time.Now().UTC(),
		ContentHash: hash,
		Notes:       "initialize",
		Spec:        seed,
	}); err != nil {
		return 0, err
	}
	return 1, nil
}

// ApplyDelta applies delta to workspaceID's current spec and appends a new
// version.
func (s *Store) ApplyDelta(ctx context.Context, workspaceID string, delta specstore.SpecDelta) (specstore.ModSpec, int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var doc currentDocument
	if err := s.current.FindOne(ctx, bson.M{"_id": workspaceID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return specstore.ModSpec{}, 0, specstore.NoCurrentSpec
		}
		return specstore.ModSpec{}, 0, err
	}

	next, err := specstore.ApplyDelta(doc.Spec, delta)
	if err != nil {
		return specstore.ModSpec{}, 0, err
	}
	hash, err := specstore.ContentHash(next)
	if err != nil {
		return specstore.ModSpec{}, 0, err
	}
	newVersion := doc.Version + 1

	res, err := s.current.UpdateOne(ctx,
		bson.M{"_id": workspaceID, "version": doc.Version},
		bson.M{"$set": bson.M{"version": newVersion, "spec": next}},
	)
	if err != nil {
		return specstore.ModSpec{}, 0, err
	}
	if res.MatchedCount == 0 {
		return specstore.ModSpec{}, 0, fmt.Errorf("specstore: concurrent write to workspace %s, retry", workspaceID)
	}

	if _, err := s.history.InsertOne(ctx, historyDocument{
		WorkspaceID: workspaceID,
		Version:     newVersion,
		Timestamp:   time.Now().UTC(),
		ContentHash: hash,
		Delta:       &delta,
		Spec:        next,
	}); err != nil {
		return specstore.ModSpec{}, 0, err
	}
	return next, newVersion, nil
}

// GetCurrent returns workspaceID's current spec and version.
func (s *Store) GetCurrent(ctx context.Context, workspaceID string) (specstore.ModSpec, int, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var doc currentDocument
	if err := s.current.FindOne(ctx, bson.M{"_id": workspaceID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return specstore.ModSpec{}, 0, specstore.NoCurrentSpec
		}
		return specstore.ModSpec{}, 0, err
	}
	return doc.Spec, doc.Version, nil
}

// GetVersion returns the spec recorded at version n.
func (s *Store) GetVersion(ctx context.Context, workspaceID string, n int) (specstore.ModSpec, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var doc historyDocument
	err := s.history.FindOne(ctx, bson.M{"workspace_id": workspaceID, "version": n}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return specstore.ModSpec{}, specstore.VersionNotFound
	}
	if err != nil {
		return specstore.ModSpec{}, err
	}
	return doc.Spec, nil
}

// Rollback loads the spec at version n and writes it as a new version.
func (s *Store) Rollback(ctx context.Context, workspaceID string, n int) (int, error) {
	target, err := s.GetVersion(ctx, workspaceID, n)
	if err != nil {
		return 0, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var doc currentDocument
	if err := s.current.FindOne(ctx, bson.M{"_id": workspaceID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, specstore.NoCurrentSpec
		}
		return 0, err
	}

	hash, err := specstore.ContentHash(target)
	if err != nil {
		return 0, err
	}
	newVersion := doc.Version + 1

	res, err := s.current.UpdateOne(ctx,
		bson.M{"_id": workspaceID, "version": doc.Version},
		bson.M{"$set": bson.M{"version": newVersion, "spec": target}},
	)
	if err != nil {
		return 0, err
	}
	if res.MatchedCount == 0 {
		return 0, fmt.Errorf("specstore: concurrent write to workspace %s, retry", workspaceID)
	}

	if _, err := s.history.InsertOne(ctx, historyDocument{
		WorkspaceID: workspaceID,
		Version:     newVersion,
		Timestamp:   time.Now().UTC(),
		ContentHash: hash,
		Notes:       fmt.Sprintf("rollback to version %d", n),
		Spec:        target,
	}); err != nil {
		return 0, err
	}
	return newVersion, nil
}
