package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/eduport/portfolio-api/internal/core/domain"
)

const projectsCollection = "projects"

// ProjectRepository persists projects with their embedded vote sets and
// comment lists. Vote transitions are expressed as aggregation-pipeline
// updates so the whole toggle (membership flip, opposite-set removal, count
// recomputation) is one atomic document write.
type ProjectRepository struct {
	coll  *mongo.Collection
	users *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{
		coll:  db.Collection(projectsCollection),
		users: db.Collection(usersCollection),
	}
}

type mongoComment struct {
	ID        primitive.ObjectID `bson:"_id"`
	User      string             `bson:"user"`
	UserName  string             `bson:"user_name,omitempty"`
	Text      string             `bson:"text"`
	CreatedAt time.Time          `bson:"created_at"`
}

type mongoOwner struct {
	ID                primitive.ObjectID `bson:"_id"`
	Name              string             `bson:"name,omitempty"`
	Username          string             `bson:"username,omitempty"`
	ProfilePictureURL string             `bson:"profile_picture_url,omitempty"`
	ProfileImage      string             `bson:"profile_image,omitempty"`
}

type mongoProject struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	User               primitive.ObjectID `bson:"user"`
	ProjectName        string             `bson:"project_name"`
	ProjectDescription string             `bson:"project_description"`
	TechUsed           string             `bson:"tech_used"`
	ProjectURL         string             `bson:"project_url"`
	GithubURL          string             `bson:"github_url,omitempty"`
	ScreenshotURL      string             `bson:"screenshot_url,omitempty"`
	Upvotes            int                `bson:"upvotes"`
	Downvotes          int                `bson:"downvotes"`
	UpvotedBy          []string           `bson:"upvoted_by"`
	DownvotedBy        []string           `bson:"downvoted_by"`
	Comments           []mongoComment     `bson:"comments"`
	CreatedAt          time.Time          `bson:"created_at"`
	Owner              *mongoOwner        `bson:"owner,omitempty"`
}

func (mp *mongoProject) toDomain() *domain.Project {
	p := &domain.Project{
		ID:                 mp.ID.Hex(),
		UserID:             mp.User.Hex(),
		ProjectName:        mp.ProjectName,
		ProjectDescription: mp.ProjectDescription,
		TechUsed:           domain.TechCategory(mp.TechUsed),
		ProjectURL:         mp.ProjectURL,
		GithubURL:          mp.GithubURL,
		ScreenshotURL:      mp.ScreenshotURL,
		Upvotes:            mp.Upvotes,
		Downvotes:          mp.Downvotes,
		UpvotedBy:          mp.UpvotedBy,
		DownvotedBy:        mp.DownvotedBy,
		Comments:           make([]domain.Comment, 0, len(mp.Comments)),
		CreatedAt:          mp.CreatedAt,
	}
	if p.UpvotedBy == nil {
		p.UpvotedBy = []string{}
	}
	if p.DownvotedBy == nil {
		p.DownvotedBy = []string{}
	}
	for _, cm := range mp.Comments {
		p.Comments = append(p.Comments, domain.Comment{
			ID:        cm.ID.Hex(),
			UserID:    cm.User,
			UserName:  cm.UserName,
			Text:      cm.Text,
			CreatedAt: cm.CreatedAt,
		})
	}
	if mp.Owner != nil {
		p.Owner = &domain.Owner{
			ID:                mp.Owner.ID.Hex(),
			Name:              mp.Owner.Name,
			Username:          mp.Owner.Username,
			ProfilePictureURL: mp.Owner.ProfilePictureURL,
			ProfileImage:      mp.Owner.ProfileImage,
		}
	}
	return p
}

func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	ownerID, err := primitive.ObjectIDFromHex(p.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoProject{
		User:               ownerID,
		ProjectName:        p.ProjectName,
		ProjectDescription: p.ProjectDescription,
		TechUsed:           string(p.TechUsed),
		ProjectURL:         p.ProjectURL,
		GithubURL:          p.GithubURL,
		ScreenshotURL:      p.ScreenshotURL,
		UpvotedBy:          []string{},
		DownvotedBy:        []string{},
		Comments:           []mongoComment{},
		CreatedAt:          p.CreatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}

	created := *p
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *ProjectRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Project, error) {
	oid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"user": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("find projects by owner: %w", err)
	}
	defer cur.Close(ctx)

	return decodeProjects(ctx, cur)
}

// ownerLookupStages joins the owning user's display fields. Credential and
// contact fields never leave the users collection.
func ownerLookupStages() mongo.Pipeline {
	return mongo.Pipeline{
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         usersCollection,
			"localField":   "user",
			"foreignField": "_id",
			"as":           "owner",
			"pipeline": mongo.Pipeline{
				bson.D{{Key: "$project", Value: bson.M{
					"name":                1,
					"username":            1,
					"profile_picture_url": 1,
					"profile_image":       1,
				}}},
			},
		}}},
		bson.D{{Key: "$unwind", Value: bson.M{
			"path":                       "$owner",
			"preserveNullAndEmptyArrays": true,
		}}},
	}
}

func (r *ProjectRepository) FindAllWithOwner(ctx context.Context) ([]*domain.Project, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}
	pipeline = append(pipeline, ownerLookupStages()...)

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate projects: %w", err)
	}
	defer cur.Close(ctx)

	return decodeProjects(ctx, cur)
}

func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProjectNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoProject
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *ProjectRepository) FindByIDWithOwner(ctx context.Context, id string) (*domain.Project, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrProjectNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": oid}}},
	}
	pipeline = append(pipeline, ownerLookupStages()...)

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate project: %w", err)
	}
	defer cur.Close(ctx)

	projects, err := decodeProjects(ctx, cur)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, domain.ErrProjectNotFound
	}
	return projects[0], nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrProjectNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}

// ToggleVote runs the whole vote transition as one pipeline update:
//   - caller already in the target set  -> removed (toggle-off)
//   - otherwise                         -> appended
//   - caller always removed from the opposite set (side switch)
//   - stored counts recomputed from the resulting sets
//
// Because the server evaluates the pipeline against the current document
// under its per-document lock, concurrent voters cannot lose updates the way
// a read-modify-write cycle can.
func (r *ProjectRepository) ToggleVote(ctx context.Context, projectID, userID string, dir domain.VoteDirection) (*domain.Project, error) {
	oid, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, domain.ErrProjectNotFound
	}

	target, opposite := "upvoted_by", "downvoted_by"
	if dir == domain.VoteDown {
		target, opposite = opposite, target
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.M{
			target: bson.M{"$cond": bson.A{
				bson.M{"$in": bson.A{userID, "$" + target}},
				bson.M{"$setDifference": bson.A{"$" + target, bson.A{userID}}},
				bson.M{"$concatArrays": bson.A{"$" + target, bson.A{userID}}},
			}},
			opposite: bson.M{"$setDifference": bson.A{"$" + opposite, bson.A{userID}}},
		}}},
		bson.D{{Key: "$set", Value: bson.M{
			"upvotes":   bson.M{"$size": "$upvoted_by"},
			"downvotes": bson.M{"$size": "$downvoted_by"},
		}}},
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mp mongoProject
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, pipeline, opts).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("toggle vote: %w", err)
	}
	return mp.toDomain(), nil
}

// AddComment prepends cm so the list stays newest first.
func (r *ProjectRepository) AddComment(ctx context.Context, projectID string, cm domain.Comment) (*domain.Project, error) {
	oid, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, domain.ErrProjectNotFound
	}

	doc := mongoComment{
		ID:        primitive.NewObjectID(),
		User:      cm.UserID,
		UserName:  cm.UserName,
		Text:      cm.Text,
		CreatedAt: cm.CreatedAt,
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$push": bson.M{"comments": bson.M{
		"$each":     bson.A{doc},
		"$position": 0,
	}}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mp mongoProject
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return mp.toDomain(), nil
}

func (r *ProjectRepository) RemoveComment(ctx context.Context, projectID, commentID string) (*domain.Project, error) {
	oid, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return nil, domain.ErrProjectNotFound
	}
	cid, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, domain.ErrCommentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$pull": bson.M{"comments": bson.M{"_id": cid}}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mp mongoProject
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("remove comment: %w", err)
	}
	return mp.toDomain(), nil
}

// EnsureIndexes creates the query indexes for owner listing and feed sorting.
func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

func decodeProjects(ctx context.Context, cur *mongo.Cursor) ([]*domain.Project, error) {
	projects := make([]*domain.Project, 0)
	for cur.Next(ctx) {
		var mp mongoProject
		if err := cur.Decode(&mp); err != nil {
			return nil, fmt.Errorf("decode project: %w", err)
		}
		projects = append(projects, mp.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}
