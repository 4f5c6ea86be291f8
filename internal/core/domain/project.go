package domain

import (
	"errors"
	"time"
)

// TechCategory is the fixed set of technology categories a project may declare.
type TechCategory string

const (
	TechWebDevelopment     TechCategory = "web-development"
	TechAndroidDevelopment TechCategory = "android-development"
	TechIOSDevelopment     TechCategory = "ios-development"
	TechAIML               TechCategory = "ai-ml"
	TechDataScience        TechCategory = "data-science"
	TechBlockchain         TechCategory = "blockchain"
	TechGameDevelopment    TechCategory = "game-development"
	TechDesktopApp         TechCategory = "desktop-app"
	TechDevOps             TechCategory = "devops"
	TechCybersecurity      TechCategory = "cybersecurity"
	TechIoT                TechCategory = "iot"
	TechOther              TechCategory = "other"
)

var techCategories = map[TechCategory]struct{}{
	TechWebDevelopment: {}, TechAndroidDevelopment: {}, TechIOSDevelopment: {},
	TechAIML: {}, TechDataScience: {}, TechBlockchain: {}, TechGameDevelopment: {},
	TechDesktopApp: {}, TechDevOps: {}, TechCybersecurity: {}, TechIoT: {}, TechOther: {},
}

// Valid reports whether t is a known technology category.
func (t TechCategory) Valid() bool {
	_, ok := techCategories[t]
	return ok
}

// MaxCommentLength bounds the text of a single comment.
const MaxCommentLength = 1000

var ErrProjectNotFound = errors.New("project not found")
var ErrCommentNotFound = errors.New("comment not found")
var ErrForbidden = errors.New("access forbidden")
var ErrInvalidComment = errors.New("comment text must be between 1 and 1000 characters")
var ErrInvalidTech = errors.New("unknown technology category")
var ErrInvalidVote = errors.New("unknown vote direction")

// VoteDirection identifies the side of a vote.
type VoteDirection string

const (
	VoteUp   VoteDirection = "upvote"
	VoteDown VoteDirection = "downvote"
)

// Comment is an embedded sub-entity of Project. Comments are stored newest
// first and are individually addressable for deletion by their author.
type Comment struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user" bson:"user"`
	UserName  string    `json:"userName,omitempty" bson:"user_name,omitempty"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// Owner is the joined subset of the owning user attached to project reads.
// Only display fields are ever joined in, never credentials.
type Owner struct {
	ID                string `json:"id" bson:"_id"`
	Name              string `json:"name,omitempty" bson:"name,omitempty"`
	Username          string `json:"username,omitempty" bson:"username,omitempty"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty" bson:"profile_picture_url,omitempty"`
	ProfileImage      string `json:"profileImage,omitempty" bson:"profile_image,omitempty"`
}

// Project is the core aggregate root. Upvotes is derived from the cardinality
// of UpvotedBy at the storage layer; a user ID appears in at most one of
// UpvotedBy and DownvotedBy at any time.
type Project struct {
	ID                 string       `json:"id" bson:"_id,omitempty"`
	UserID             string       `json:"user" bson:"user"`
	ProjectName        string       `json:"projectName" bson:"project_name"`
	ProjectDescription string       `json:"projectDescription" bson:"project_description"`
	TechUsed           TechCategory `json:"techUsed" bson:"tech_used"`
	ProjectURL         string       `json:"projectUrl" bson:"project_url"`
	GithubURL          string       `json:"githubUrl,omitempty" bson:"github_url,omitempty"`
	ScreenshotURL      string       `json:"screenshotUrl,omitempty" bson:"screenshot_url,omitempty"`
	Upvotes            int          `json:"upvotes" bson:"upvotes"`
	Downvotes          int          `json:"downvotes" bson:"downvotes"`
	UpvotedBy          []string     `json:"upvotedBy" bson:"upvoted_by"`
	DownvotedBy        []string     `json:"downvotedBy" bson:"downvoted_by"`
	Comments           []Comment    `json:"comments" bson:"comments"`
	CreatedAt          time.Time    `json:"createdAt" bson:"created_at"`

	// Owner is populated only on joined reads.
	Owner *Owner `json:"owner,omitempty" bson:"owner,omitempty"`
}

// VoteState reports which side of the vote userID currently sits on.
func (p *Project) VoteState(userID string) VoteDirection {
	for _, id := range p.UpvotedBy {
		if id == userID {
			return VoteUp
		}
	}
	for _, id := range p.DownvotedBy {
		if id == userID {
			return VoteDown
		}
	}
	return ""
}

// CommentByID returns the embedded comment with the given ID, if present.
func (p *Project) CommentByID(commentID string) (Comment, bool) {
	for _, cm := range p.Comments {
		if cm.ID == commentID {
			return cm, true
		}
	}
	return Comment{}, false
}
